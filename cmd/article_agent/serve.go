package main

import (
	"fmt"
	"os"

	"github.com/jonathan/article-agent/internal/config"
	"github.com/jonathan/article-agent/internal/export"
	"github.com/jonathan/article-agent/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort       int
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for running the generation pipeline, browsing history, and exporting articles.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to config or 8080)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadMergedConfig(cmd, serveConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	databaseURL := resolveDatabaseURL(cfg)
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	apiKey := resolveAPIKey(cfg)
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	// The JWT config itself is built inside server.New; failing early here
	// gives a clearer message than a mid-startup error.
	if os.Getenv("JWT_SECRET") == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}

	srv, err := server.New(server.Config{
		Port:        cfg.Port,
		DatabaseURL: databaseURL,
		APIKey:      apiKey,
		TextModel:   cfg.TextModel,
		ImageModel:  cfg.ImageModel,
		Pipeline:    pacingOptions(cfg),
		Export:      exportOptions(cfg),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

func exportOptions(cfg config.Config) export.Options {
	return export.Options{
		SiteTitle: cfg.SiteTitle,
		SiteURL:   cfg.SiteURL,
		Author:    cfg.Author,
		MaxWidth:  cfg.MaxWidth,
		Quality:   cfg.JPEGQuality,
	}
}
