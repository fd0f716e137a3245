// Command vrhouse converts architectural 3D models into encrypted VR scene
// packages.
//
// Subcommands cover one-shot conversion, format validation, key generation,
// package preview, the conversion history ledger, an inbox watcher, and
// configuration scaffolding. Configuration is read from
// ~/.config/vrhouse/config.toml or ./vrhouse.toml unless --config is given.
package main
