//go:build !unix

package adapter

import "os/exec"

// configureProcessGroup is a no-op where process groups are unavailable;
// os/exec's context kill handles the direct child.
func configureProcessGroup(_ *exec.Cmd) {}

// killProcessGroup kills the direct child process.
func killProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}

	return cmd.Process.Kill()
}
