// Package main implements the deprecated claude-gwt alias binary: it warns
// once and forwards every argument to cgwt's root command.
package main

import (
	"fmt"
	"os"

	"github.com/alexisbeaulieu97/cgwt/internal/cli"
)

func main() {
	fmt.Fprintln(os.Stderr, "claude-gwt is deprecated; use cgwt instead")

	os.Exit(cli.Execute(os.Args[1:]))
}
