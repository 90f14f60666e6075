package core

import "syscall"

// Outcome is the decoded termination status of a child process: either
// a normal exit carrying an exit code, or death by signal.
type Outcome struct {
	Signaled bool
	Signal   syscall.Signal
	ExitCode int
}

// Interrupted reports whether the child died from the interrupt or quit
// signal a user would deliver from the terminal. The loop treats this
// as an instruction to stop repeating, not as an error.
func (o Outcome) Interrupted() bool {
	return o.Signaled && (o.Signal == syscall.SIGINT || o.Signal == syscall.SIGQUIT)
}

// Code is the exit code used for stop-condition evaluation and for the
// supervisor's own exit status. Signal deaths map to 128+signal, the
// convention shells use for commands killed by a signal.
func (o Outcome) Code() int {
	if o.Signaled {
		return 128 + int(o.Signal)
	}
	return o.ExitCode
}
