package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Chenxi-dot/smartHR/internal/ingestion"
	"github.com/Chenxi-dot/smartHR/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the ranking pipeline: POST /match, GET /progress/{id}, GET /results/{id}.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := buildApp(context.Background())
	if err != nil {
		return err
	}
	defer a.close()

	port := a.cfg.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}

	srv := server.New(server.Config{Port: port}, a.matcher, ingestion.NewFetcher(a.log), a.log)
	return srv.Start()
}
