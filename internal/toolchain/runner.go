// Package toolchain resolves, verifies, and drives the external
// front-end build toolchain: the JavaScript runtime, its package
// manager, and the bundler invoked through the package runner. It owns
// process supervision: spawning, line-streamed output capture, and
// exit-code classification.
package toolchain

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// CommandResult holds the outcome of a supervised external process.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Command describes one external process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
}

// String renders the invocation for diagnostics.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// OutputSink receives process output line by line as it is produced.
type OutputSink interface {
	StdoutLine(line string)
	StderrLine(line string)
}

// ConsoleSink echoes streamed process output to the console.
type ConsoleSink struct{}

func (ConsoleSink) StdoutLine(line string) { fmt.Fprintln(os.Stdout, line) }
func (ConsoleSink) StderrLine(line string) { fmt.Fprintln(os.Stderr, line) }

// CommandRunner abstracts process execution and command lookup so the
// coordinator can be exercised without spawning real processes.
type CommandRunner interface {
	// Run starts the command, streams its output to sink (which may be
	// nil) while buffering the complete text, and waits for exit. A
	// nonzero exit is reported through CommandResult, not through the
	// error; the error covers spawn and supervision failures only.
	Run(ctx context.Context, cmd Command, sink OutputSink) (CommandResult, error)

	// LookPath reports the file-system location of an executable, as
	// the system's "where is this command" lookup would.
	LookPath(name string) (string, error)
}

// execRunner supervises real processes via os/exec.
type execRunner struct{}

// NewExecRunner creates the os/exec backed CommandRunner.
func NewExecRunner() CommandRunner {
	return &execRunner{}
}

func (r *execRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (r *execRunner) Run(ctx context.Context, command Command, sink OutputSink) (CommandResult, error) {
	cmd := exec.CommandContext(ctx, command.Name, command.Args...)
	cmd.Dir = command.Dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return CommandResult{ExitCode: -1}, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return CommandResult{ExitCode: -1}, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return CommandResult{ExitCode: -1}, fmt.Errorf("spawn %s: %w", command.Name, err)
	}

	var stdoutBuf, stderrBuf strings.Builder
	var wg sync.WaitGroup
	wg.Add(2)

	stdoutLine := func(string) {}
	stderrLine := func(string) {}
	if sink != nil {
		stdoutLine = sink.StdoutLine
		stderrLine = sink.StderrLine
	}

	go drainLines(&wg, stdout, &stdoutBuf, stdoutLine)
	go drainLines(&wg, stderr, &stderrBuf, stderrLine)

	// Both pipes must be fully drained before Wait closes them.
	wg.Wait()

	result := CommandResult{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		result.ExitCode = -1
		return result, fmt.Errorf("wait %s: %w", command.Name, err)
	}

	result.ExitCode = 0
	return result, nil
}

// drainLines reads one pipe line by line until EOF, buffering the full
// text and forwarding each line to the observer callback as it
// arrives. Lines have no length cap: the pipe is always drained to
// EOF, so the child can never block on a full pipe regardless of how
// much it writes between newlines.
//
// Captured text is newline-normalized: trailing \r\n and \r are
// stripped and every line (including an unterminated final one) is
// stored with a single trailing \n.
func drainLines(wg *sync.WaitGroup, pipe io.Reader, buf *strings.Builder, observe func(string)) {
	defer wg.Done()

	reader := bufio.NewReaderSize(pipe, 64*1024)
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			trimmed := strings.TrimRight(line, "\r\n")
			buf.WriteString(trimmed)
			buf.WriteByte('\n')
			observe(trimmed)
		}
		if err != nil {
			return
		}
	}
}
