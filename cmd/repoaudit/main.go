// main is the entry point for the repoaudit CLI.
package main

import (
	"os"

	"github.com/Farahprojects/repoaudit/cmd"
	"github.com/Farahprojects/repoaudit/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogWarn("Command failed", err)
		os.Exit(1)
	}
}
