package toolchain

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// fakeRunner scripts CommandRunner behavior for tests. Responses are
// matched by command name; unmatched commands fail the lookup or
// spawn, which is what a missing binary would do.
type fakeRunner struct {
	mutex sync.Mutex

	// lookPaths maps command name to its resolved binary location.
	lookPaths map[string]string

	// results maps a command key (name or "name arg1 arg2...") to a
	// scripted outcome. The most specific key wins.
	results map[string]fakeResult

	// invocations records every Run call in order.
	invocations []Command
}

type fakeResult struct {
	result CommandResult
	err    error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		lookPaths: make(map[string]string),
		results:   make(map[string]fakeResult),
	}
}

func (f *fakeRunner) stub(key string, result CommandResult, err error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.results[key] = fakeResult{result: result, err: err}
}

func (f *fakeRunner) stubLookPath(name, path string) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.lookPaths[name] = path
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if path, ok := f.lookPaths[name]; ok {
		return path, nil
	}
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
}

func (f *fakeRunner) Run(_ context.Context, cmd Command, sink OutputSink) (CommandResult, error) {
	f.mutex.Lock()
	f.invocations = append(f.invocations, cmd)
	scripted, ok := f.results[cmd.String()]
	if !ok {
		scripted, ok = f.results[cmd.Name]
	}
	f.mutex.Unlock()

	if !ok {
		return CommandResult{ExitCode: -1}, fmt.Errorf("spawn %s: executable file not found", cmd.Name)
	}

	if sink != nil {
		for _, line := range splitLines(scripted.result.Stdout) {
			sink.StdoutLine(line)
		}
		for _, line := range splitLines(scripted.result.Stderr) {
			sink.StderrLine(line)
		}
	}

	return scripted.result, scripted.err
}

func (f *fakeRunner) commandStrings() []string {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	out := make([]string, len(f.invocations))
	for i, cmd := range f.invocations {
		out[i] = cmd.String()
	}
	return out
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

// collectorSink records streamed lines for assertions.
type collectorSink struct {
	mutex  sync.Mutex
	stdout []string
	stderr []string
}

func (c *collectorSink) StdoutLine(line string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.stdout = append(c.stdout, line)
}

func (c *collectorSink) StderrLine(line string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.stderr = append(c.stderr, line)
}
