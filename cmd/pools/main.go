package main

import (
	"os"

	"github.com/MKhiriev/ubuntu-pools/cmd/pools/commands"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	commands.SetBuildInfo(buildVersion, buildDate, buildCommit)
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
