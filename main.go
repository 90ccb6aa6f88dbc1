// main is the entry point of the contrib CLI.
package main

import (
	"os"

	"github.com/udithaR/Alitheia-Core/cmd"
	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/internal/ledger"
)

func main() {
	defer ledger.CloseStorage()

	cmd.SetLedgerManager(ledger.Manager)

	if err := cmd.Execute(); err != nil {
		_ = cmd.StopProfiling()
		ledger.CloseStorage()
		contract.LogFatal("Command failed", err)
	}

	if err := cmd.StopProfiling(); err != nil {
		contract.LogWarn("Failed to stop profiling", err)
		os.Exit(1)
	}
}
