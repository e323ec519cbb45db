package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Chenxi-dot/smartHR/internal/ingestion"
	"github.com/Chenxi-dot/smartHR/internal/ranking"
)

var (
	matchJobFile        string
	matchJobURL         string
	matchPositionFilter string
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank candidates against a job description",
	Long:  `Run the full two-stage ranking pipeline once and print the ranked candidates as JSON.`,
	RunE:  runMatch,
}

func init() {
	matchCmd.Flags().StringVar(&matchJobFile, "job", "", "Path to a job description text file (use - for stdin)")
	matchCmd.Flags().StringVar(&matchJobURL, "job-url", "", "URL of a job posting to fetch")
	matchCmd.Flags().StringVar(&matchPositionFilter, "position", "", "Case-insensitive substring filter on candidate positions")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	jobText, err := loadJobText(ctx, a)
	if err != nil {
		return err
	}

	progress := ranking.NewProgress()
	results, err := a.matcher.Match(ctx, jobText, matchPositionFilter, progress)
	if err != nil {
		for _, line := range progress.Snapshot().Logs {
			fmt.Fprintln(os.Stderr, line)
		}
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func loadJobText(ctx context.Context, a *app) (string, error) {
	switch {
	case matchJobFile == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read job description from stdin: %w", err)
		}
		return string(data), nil
	case matchJobFile != "":
		data, err := os.ReadFile(matchJobFile)
		if err != nil {
			return "", fmt.Errorf("failed to read job file: %w", err)
		}
		return string(data), nil
	case matchJobURL != "":
		return ingestion.NewFetcher(a.log).FetchJobText(ctx, matchJobURL)
	default:
		return "", fmt.Errorf("either --job or --job-url is required")
	}
}
