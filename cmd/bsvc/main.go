package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/LeadSimple/boring-service/internal/app"
	"github.com/LeadSimple/boring-service/internal/cli"
)

// main is the entrypoint for the bsvc manifest linter.
func main() {
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		var findings *app.FindingsError
		if !errors.As(err, &findings) {
			// Findings were already reported with full context; anything
			// else still needs printing.
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling.
func run(outW, errW io.Writer, args []string) error {
	config, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	linter := app.New(outW, errW, config)
	return linter.Run(context.Background())
}
