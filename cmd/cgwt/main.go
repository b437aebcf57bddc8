// Package main implements the cgwt CLI.
package main

import (
	"os"

	"github.com/alexisbeaulieu97/cgwt/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}
