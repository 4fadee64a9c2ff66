// Entry point for the resourcestore CLI.
// Build with: go build -o bin/resourcestore ./cmd/resourcestore
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
