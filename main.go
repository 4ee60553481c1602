// Package main is the entry point for the quickplay application.
package main

import (
	"github.com/quickplay-cli/quickplay/cmd"
	"github.com/quickplay-cli/quickplay/config"
	"github.com/quickplay-cli/quickplay/filesystem"
	"github.com/quickplay-cli/quickplay/log"
	"github.com/quickplay-cli/quickplay/where"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	// Sweep leftover temporary files from previous sessions.
	go func() {
		_ = filesystem.API().RemoveAll(where.Temp())
	}()

	cmd.Execute()
}
