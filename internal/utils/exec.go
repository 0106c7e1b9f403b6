package utils

import (
	"os/exec"
)

// Runner abstracts child-process execution so the orchestration can be
// exercised against a fake in tests. Run blocks until the command exits and
// returns its combined output. Start is fire-and-forget: the process is
// detached and never waited on.
type Runner interface {
	Run(command string, args ...string) (string, error)
	Start(command string, args ...string) error
}

type hostRunner struct{}

// NewRunner returns a Runner backed by the host OS.
func NewRunner() Runner {
	return hostRunner{}
}

func (hostRunner) Run(command string, args ...string) (string, error) {
	out, err := exec.Command(command, args...).CombinedOutput()
	return string(out), err
}

func (hostRunner) Start(command string, args ...string) error {
	cmd := exec.Command(command, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Detach so the child outlives us without becoming our responsibility.
	return cmd.Process.Release()
}
