package domain

// StepName identifies a pipeline stage in status reporting.
type StepName string

const (
	StepStart     StepName = "Start"
	StepIngest    StepName = "Ingest"
	StepTransform StepName = "Transform"
	StepReference StepName = "Reference"
	StepLoad      StepName = "Load"
	StepArchive   StepName = "Archive"
	StepDone      StepName = "Done"
	StepError     StepName = "Error"
)

// RunState is the lifecycle state of a pipeline run.
type RunState string

const (
	RunIdle      RunState = "Idle"
	RunRunning   RunState = "Running"
	RunCompleted RunState = "Completed"
	RunFailed    RunState = "Failed"
)
