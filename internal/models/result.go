package models

// Status is the lifecycle state of a single project command.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Result is the outcome of running a command in one project.
type Result struct {
	Name     string
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the command exited with code zero.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Status returns the terminal state for the result.
func (r Result) Status() Status {
	if r.Success() {
		return StatusSucceeded
	}
	return StatusFailed
}

// Output joins captured stdout and stderr.
func (r Result) Output() string {
	return r.Stdout + "\n" + r.Stderr
}
