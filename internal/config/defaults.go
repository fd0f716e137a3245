package config

import "vrhouse/internal/scene"

const (
	defaultOutputDir          = "~/vrhouse/exports"
	defaultLogDir             = "~/.local/share/vrhouse/logs"
	defaultStateDir           = "~/.local/share/vrhouse"
	defaultInboxDir           = "~/vrhouse/inbox"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultTelemetryService   = "vrhouse"
	defaultEnablePhysics      = true
	defaultEnableAIRealism    = true
	defaultHistoryFileName    = "history.db"
	defaultConfigRelativePath = "~/.config/vrhouse/config.toml"
	projectConfigFileName     = "vrhouse.toml"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			StateDir:  defaultStateDir,
		},
		Conversion: Conversion{
			EnablePhysics:   defaultEnablePhysics,
			EnableAIRealism: defaultEnableAIRealism,
			TargetPlatforms: scene.DefaultPlatforms(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Telemetry: Telemetry{
			ServiceName: defaultTelemetryService,
		},
		Watch: Watch{
			InboxDir: defaultInboxDir,
		},
	}
}
