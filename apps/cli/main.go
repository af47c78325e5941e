package main

import "github.com/abdul-hamid-achik/specbridge/apps/cli/cmd"

// Populated by -ldflags at release time.
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd.Execute(version, buildTime)
}
