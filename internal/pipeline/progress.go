package pipeline

// ProgressFunc receives progress in [0,1] plus a status message. A failed run
// reports ErrorProgress with the error text before Run returns.
type ProgressFunc func(progress float64, message string)

// ErrorProgress is the sentinel progress value reported when a run fails.
const ErrorProgress = -1.0

// Progress checkpoints, reported before the matching stage executes.
const (
	ProgressValidate = 0.05
	ProgressImport   = 0.2
	ProgressGeometry = 0.35
	ProgressMaterial = 0.5
	ProgressPhysics  = 0.65
	ProgressBuild    = 0.8
	ProgressExport   = 0.95
	ProgressDone     = 1.0
)

// DoneMessage is reported with ProgressDone after a successful export.
const DoneMessage = "done"

func (f ProgressFunc) emit(progress float64, message string) {
	if f != nil {
		f(progress, message)
	}
}
