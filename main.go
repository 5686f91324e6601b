package main

import (
	"fmt"
	"os"

	"github.com/Lucretiel/usefix/cmd"
)

func main() {
	cli := cmd.NewCLI()
	if err := cli.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
