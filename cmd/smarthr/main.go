// Package main provides the entry point for the smartHR candidate ranking
// service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "smarthr",
	Short: "smartHR candidate ranking service",
	Long:  "smartHR ranks a pool of candidates against a free-text job description using a fast multi-signal scoring pass followed by a budget-limited LLM rerank.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
