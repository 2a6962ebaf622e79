// Package cmd provides helpers for executing shell commands with proper error handling.
//
// Commands run through [os/exec.CommandContext]. Stderr is captured and
// carried in an [ExitError] together with the exit code, so callers can tell
// an expected status (such as "git config" exiting 1 for a missing key) apart
// from a real failure.
//
// # Usage
//
//	out, err := cmd.OutputContext(ctx, repoDir, "git", "config", "--get", "core.bare")
//	if cmd.ExitCode(err) == 1 {
//	    // key not set
//	}
//
// Every command is echoed to the context logger when verbose mode is on.
package cmd
