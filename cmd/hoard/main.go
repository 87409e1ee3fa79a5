// Package main provides the hoard CLI tool for maintaining a candidate
// catalog and routing selections over it.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
