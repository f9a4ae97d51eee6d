// ABOUTME: Entry point for the calories CLI.
// ABOUTME: Runs the root command and exits non-zero on error.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
