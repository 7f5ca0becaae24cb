package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jonathan/article-agent/internal/db"
	"github.com/jonathan/article-agent/internal/observability"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and manage stored articles",
}

var historyDatabaseURL string

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored articles, newest first",
	RunE:  runHistoryList,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored article by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	historyCmd.PersistentFlags().StringVar(&historyDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

// openHistoryDB connects to the history database using the flag or env URL.
func openHistoryDB(ctx context.Context) (*db.DB, error) {
	databaseURL := historyDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required: set DATABASE_URL or pass --db-url")
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.InitSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	database, err := openHistoryDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	articles, err := database.ListArticles(ctx)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintHistory(articles)
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid article id %q: %w", args[0], err)
	}

	database, err := openHistoryDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	remaining, err := database.DeleteArticle(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("Deleted %s (%d articles remaining)\n", id, len(remaining))
	return nil
}
