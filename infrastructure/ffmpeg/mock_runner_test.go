package ffmpeg

import (
	"context"
	"io"
)

type runCall struct {
	name string
	args []string
}

// mockRunner records calls and replays canned output
type mockRunner struct {
	calls []runCall

	// Run behaviour
	stdoutData string
	stderrData string
	runErr     error

	// Output behaviour keyed by the first argument
	outputs    map[string]string
	outputErrs map[string]error
}

func (m *mockRunner) Run(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error {
	m.calls = append(m.calls, runCall{name: name, args: args})
	if stdout != nil && m.stdoutData != "" {
		_, _ = io.WriteString(stdout, m.stdoutData)
	}
	if stderr != nil && m.stderrData != "" {
		_, _ = io.WriteString(stderr, m.stderrData)
	}
	return m.runErr
}

func (m *mockRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, runCall{name: name, args: args})
	key := ""
	if len(args) > 0 {
		key = args[0]
	}
	if err, ok := m.outputErrs[key]; ok && err != nil {
		return nil, err
	}
	return []byte(m.outputs[key]), nil
}
