// Package main provides the gitlabci-lint command.
package main

import (
	"os"

	"github.com/leapstack-labs/gitlabci-lint/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
