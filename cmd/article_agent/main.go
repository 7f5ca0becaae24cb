// Package main provides the entry point for the Article Agent CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "article_agent",
	Short: "Article Agent content generation pipeline",
	Long:  "Article Agent drives a multi-stage Gemini pipeline (research, ideation, outline, writing, image generation) over keyword batches and exports finished articles as WordPress-ready packages.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
