// Package main is a command line client that runs gatherers directly
// against the configured stores.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
