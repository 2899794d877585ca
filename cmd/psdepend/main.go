package main

import (
	"github.com/Plork/PSDepend/internal/cli"
	_ "github.com/Plork/PSDepend/internal/handlers"
)

// These variables are populated by the build via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cli.SetBuildInfo(version, commit, date)
	cli.Execute()
}
