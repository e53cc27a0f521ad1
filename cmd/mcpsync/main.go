// Package main is the entry point for the mcpsync CLI.
package main

import (
	"fmt"
	"os"

	"github.com/thoreinstein/mcpsync/cmd/mcpsync/commands"
	"github.com/thoreinstein/mcpsync/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, "Error:", err)

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Suggestion != "" {
			fmt.Fprintln(os.Stderr, "Suggestion:", exitErr.Suggestion)
		}
		os.Exit(exitErr.Code)
	}
	os.Exit(errors.ExitUser)
}
