// Package main is the entry point for the mdsync CLI.
package main

import (
	"fmt"
	"os"

	"github.com/thoreinstein/mdsync/cmd/mdsync/commands"
	"github.com/thoreinstein/mdsync/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		os.Exit(errors.ExitSuccess)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	code := errors.ExitUser
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
		if exitErr.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", exitErr.Suggestion)
		}
	}
	os.Exit(code)
}
