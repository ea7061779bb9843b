// Package result defines the outcome record of one script execution.
package result

import "fmt"

// TimeoutExitCode is the sentinel exit code reported when the process
// was killed at the deadline or could not be started.
const TimeoutExitCode = -1

// RunResult holds what the child process produced.
type RunResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
}

// ExecutionResult is the full record for one execution, produced exactly
// once and immutable after creation.
type ExecutionResult struct {
	SessionDir   string // relative to the work root
	ScriptPath   string // relative to the work root
	ExitCode     int
	Stdout       string
	Stderr       string
	TimedOut     bool
	Message      string
	CreatedFiles []string
	CreatedDirs  []string
}

// StatusMessage builds the human-readable summary for a finished run.
func StatusMessage(run RunResult, timeoutSeconds int) string {
	switch {
	case run.TimedOut:
		return fmt.Sprintf("Script execution timed out after %d seconds", timeoutSeconds)
	case run.ExitCode == 0:
		return "Script executed successfully"
	default:
		return fmt.Sprintf("Script exited with code %d", run.ExitCode)
	}
}
