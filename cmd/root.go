package cmd

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Lucretiel/usefix/pretty"
	"github.com/Lucretiel/usefix/resolver"
)

type usefixCmd struct {
	*baseCmd
}

func (c *CommandLine) newUsefixCmd(fs afero.Fs) *usefixCmd {
	cmd := &usefixCmd{
		baseCmd: &baseCmd{Command: &cobra.Command{
			Use:   "usefix [file]",
			Short: "Normalize Rust use declarations and fix import-only merge conflicts",
			Long: `usefix rewrites the use declarations of a single Rust source file into
one deduplicated, deterministically ordered form. When the file still
contains merge-conflict markers whose two sides hold nothing but use
declarations, the conflict is replaced by the union of both sides.
Conflicts containing anything else are left exactly as they were.

Reads the named file (or stdin) and writes the result to stdout, or back
to the file with --write.`,
			Example: "usefix --fmt rustfmt --write src/main.rs",
			Args:    cobra.MaximumNArgs(1),
		}},
	}

	cmd.Flags().String("fmt", "", `External formatter command for the rewritten imports,
invoked over stdin/stdout (e.g. "rustfmt"). When empty,
the minimal built-in renderer is used.`)
	style := new(pretty.Style)
	cmd.Flags().Var(&styleFlag{value: style}, "style", `Shape of the rewritten imports: "flat" (one declaration
per line) or "grouped" (brace groups).`)
	cmd.Flags().BoolP("write", "w", false, "Rewrite the input file in place instead of writing to stdout")
	cmd.Flags().BoolP("verbose", "v", false, "Output logging")

	cmd.RunE = run(fs, style)
	return cmd
}

func run(fs afero.Fs, style *pretty.Style) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		log := zap.NewNop()
		if verbose {
			var err error
			if log, err = zap.NewDevelopment(); err != nil {
				return err
			}
			defer log.Sync()
		}

		name, src, err := readInput(fs, args)
		if err != nil {
			return fmt.Errorf("usefix: failed to read input: %w", err)
		}

		opts := resolver.Options{Style: *style, Log: log.Named("resolver")}

		if fmtCmd, _ := cmd.Flags().GetString("fmt"); fmtCmd != "" {
			sub := pretty.NewSubprocess(fmtCmd, log.Named("fmt"))
			if sub == nil {
				return fmt.Errorf("usefix: malformed --fmt command: %q", fmtCmd)
			}
			opts.Formatter = sub
		}

		out, res, err := resolver.Fix(context.Background(), name, src, opts)
		if err != nil {
			return err
		}

		log.Info("run complete",
			zap.Int("resolved", res.Resolved),
			zap.Int("unresolved", res.Unresolved))

		if write, _ := cmd.Flags().GetBool("write"); write {
			if name == "" {
				return fmt.Errorf("usefix: --write requires a file argument")
			}
			return afero.WriteFile(fs, name, []byte(out), 0644)
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	}
}

// readInput reads the whole input stream: the named file, or stdin when no
// file (or "-") is given.
func readInput(fs afero.Fs, args []string) (name, src string, err error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := ioutil.ReadAll(os.Stdin)
		return "", string(b), err
	}

	b, err := afero.ReadFile(fs, args[0])
	return args[0], string(b), err
}
