// Package main provides the entry point for the KaamSetu marketplace server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kaamsetu",
	Short: "KaamSetu day-labor marketplace",
	Long:  "KaamSetu matches short-term job postings with nearby skilled workers and tracks assignment, attendance, ratings, and payments over a REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
