// Command formguard validates lead forms in static HTML pages.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.command().Execute(); err != nil {
		if !errors.Is(err, errFormInvalid) {
			fmt.Fprintln(os.Stderr, "formguard:", err)
		}
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errFormInvalid):
		return 2
	default:
		return 1
	}
}
