package pretty

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Formatter is the rendering backend: it receives the canonical use
// declarations and returns their final textual form. The core never
// depends on a backend's specific layout, only on it preserving the set
// of imported paths.
type Formatter interface {
	Format(ctx context.Context, src string) (string, error)
}

// BackendError reports a formatting backend that failed to start, exited
// non-zero, or could not be communicated with. It is fatal: no output is
// produced for the run.
type BackendError struct {
	Cmd string
	Msg string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("pretty: formatter %q: %s", e.Cmd, e.Msg)
}

// Builtin is the minimal built-in backend: the canonical one-per-line text
// passes through untouched.
type Builtin struct{}

// Format returns src unchanged.
func (Builtin) Format(_ context.Context, src string) (string, error) { return src, nil }

// Subprocess invokes an external formatter (rustfmt, for example) as a
// child process, writing the canonical text to its stdin and reading its
// stdout to completion. The process is always waited on, whatever the
// outcome.
type Subprocess struct {
	// Cmd overrides the command to execute. Used by tests; when nil,
	// Name is looked up on PATH.
	*exec.Cmd

	Name string
	Args []string

	lookOnce    sync.Once
	path        string
	lookPathErr error
	log         *zap.Logger
}

// NewSubprocess builds a subprocess backend from a command line.
func NewSubprocess(commandLine string, log *zap.Logger) *Subprocess {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil
	}
	return &Subprocess{Name: fields[0], Args: fields[1:], log: log}
}

// Format runs the formatter over src.
func (g *Subprocess) Format(ctx context.Context, src string) (string, error) {
	if g.log == nil {
		g.log = zap.L().Named(g.Name)
	}

	if g.Cmd == nil {
		// Look up the formatter only once.
		g.lookOnce.Do(func() {
			g.path, g.lookPathErr = exec.LookPath(g.Name)
		})
		if g.lookPathErr != nil {
			return "", &BackendError{Cmd: g.Name, Msg: g.lookPathErr.Error()}
		}
		g.Cmd = exec.CommandContext(ctx, g.path, g.Args...)
	}
	out := new(bytes.Buffer)
	g.Stdin = strings.NewReader(src)
	g.Stdout = out

	g.log.Info("executing formatter", zap.String("path", g.Path))
	err := g.Run()
	g.Cmd = nil
	if err != nil {
		return "", &BackendError{Cmd: g.Name, Msg: err.Error()}
	}

	formatted := out.String()
	if formatted != "" && !strings.HasSuffix(formatted, "\n") {
		formatted += "\n"
	}
	return formatted, nil
}
