// Package main provides the entry point for the candidate screening HTTP API
// server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "Candidate screening HTTP API server",
	Long:  "Screener runs AI-assisted voice screening interviews: role templates from job descriptions, candidate sessions with live agent interviews, judge scoring and admin decisioning via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
