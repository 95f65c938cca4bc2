// Package main is the entry point of the motionreport CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/motionreport/cmd"
	"github.com/huangsam/motionreport/internal/store"
)

func main() {
	cmd.SetStoreManager(store.Manager)
	err := cmd.Execute()

	// Always release the store and flush profiles, even on failure
	store.CloseStore()
	if perr := cmd.StopProfiling(); perr != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Warn profiling:", perr)
	}

	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
