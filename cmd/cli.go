// Package cmd implements the command line interface for usefix.
package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type option func(*CommandLine)

// WithFS configures the underlying afero.Fs used to read/write files.
func WithFS(fs afero.Fs) option {
	return func(c *CommandLine) {
		c.fs = fs
	}
}

// CommandLine wires the usefix commands together.
type CommandLine struct {
	fs afero.Fs

	cmds []cmder
}

type cmder interface {
	getCommand() *cobra.Command
}

type baseCmd struct {
	*cobra.Command
}

func (cmd *baseCmd) getCommand() *cobra.Command { return cmd.Command }

func (c *CommandLine) addCommand(cmds ...cmder) *CommandLine {
	c.cmds = append(c.cmds, cmds...)
	return c
}

func (c *CommandLine) build() *cobra.Command {
	cmd := c.newUsefixCmd(c.fs)
	for _, cmdr := range c.cmds {
		cmd.AddCommand(cmdr.getCommand())
	}

	return cmd.Command
}

// NewCLI returns a CommandLine implementation.
func NewCLI(opts ...option) (c *CommandLine) {
	c = new(CommandLine)

	for _, opt := range opts {
		opt(c)
	}

	if c.fs == nil {
		c.fs = afero.NewOsFs()
	}

	return
}

func wrapPanic(err error, stack []byte) error {
	return fmt.Errorf("usefix: recovered from unexpected panic: %w\n\n%s", err, stack)
}

// Run executes usefix.
func (c *CommandLine) Run(args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()

			rerr, ok := r.(error)
			if ok {
				err = wrapPanic(rerr, stack)
				return
			}

			err = wrapPanic(fmt.Errorf("%#v", r), stack)
		}
	}()

	cmd := c.addCommand(c.newVersionCmd()).build()

	cmd.SetArgs(args[1:])
	return cmd.Execute()
}
