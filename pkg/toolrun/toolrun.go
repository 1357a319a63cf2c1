// Package toolrun runs the external tools an image is processed with.
package toolrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/armon/circbuf"
	"github.com/siderolabs/go-cmd/pkg/cmd"
	"github.com/siderolabs/go-cmd/pkg/cmd/proc/reaper"
	log "github.com/sirupsen/logrus"
)

// Runner runs a command to completion and returns what it printed on stdout.
// A command that exits non-zero yields a *CommandError.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// Exec runs commands on the host. All of stdout is kept, partition listings
// grow with the number of partitions. Only the tail of stderr is kept.
type Exec struct{}

func (Exec) Run(ctx context.Context, name string, args ...string) (string, error) {
	line := CommandLine(name, args...)
	log.Debugf("running %s", line)

	out, err := run(ctx, name, args...)
	if err != nil {
		log.WithError(err).Debugf("%s failed", line)
		return out, &CommandError{Name: name, Args: args, Output: out, Err: err}
	}
	if len(out) > 0 {
		log.Debug(strings.TrimRight(out, "\n"))
	}
	return out, nil
}

func run(ctx context.Context, name string, args ...string) (string, error) {
	var stdout bytes.Buffer
	stderr, err := circbuf.NewBuffer(cmd.MaxStderrLen)
	if err != nil {
		return "", err
	}

	c := exec.CommandContext(ctx, name, args...)
	c.Stdout = &stdout
	c.Stderr = stderr

	notifyCh := make(chan reaper.ProcessInfo, 8)
	usingReaper := reaper.Notify(notifyCh)
	if usingReaper {
		defer reaper.Stop(notifyCh)
	}

	if err := c.Start(); err != nil {
		return "", fmt.Errorf("%w: %s", err, stderr.String())
	}
	if err := reaper.WaitWrapper(usingReaper, notifyCh, c); err != nil {
		var (
			reaperErr *reaper.ExitError
			execErr   *exec.ExitError
		)
		switch {
		case errors.As(err, &reaperErr):
			return stdout.String(), &cmd.ExitError{ExitCode: reaperErr.ExitCode, Output: stderr.Bytes()}
		case errors.As(err, &execErr) && execErr.ExitCode() != -1:
			return stdout.String(), &cmd.ExitError{ExitCode: execErr.ExitCode(), Output: stderr.Bytes()}
		}
		return stdout.String(), fmt.Errorf("%w: %s", err, stderr.String())
	}
	return stdout.String(), nil
}

// CommandError reports a command that could not be run or exited non-zero.
// Err carries the exit status and whatever the command wrote to stderr.
type CommandError struct {
	Name   string
	Args   []string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %q failed: %v", CommandLine(e.Name, e.Args...), e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\noutput:\n" + out
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// CommandLine renders argv for humans. It is never handed to a shell.
func CommandLine(name string, args ...string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
