package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/article-agent/internal/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <batch.json>",
	Short: "Validate a batch file against the keyword batch schema",
	Long:  "Validates a batch JSON file against schemas/batch.schema.json without running anything. Lists every violation with its field path.",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	batchPath := args[0]
	if _, err := os.Stat(batchPath); os.IsNotExist(err) {
		return fmt.Errorf("batch file not found: %s", batchPath)
	}

	schemaPath := schemas.ResolveSchemaPath(filepath.Join("schemas", "batch.schema.json"))
	if schemaPath == "" {
		return fmt.Errorf("batch schema not found: run from the repository root or its subdirectories")
	}

	if err := schemas.ValidateJSON(schemaPath, batchPath); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			fmt.Printf("%s is invalid:\n", batchPath)
			for i, fieldErr := range validationErr.Errors {
				fmt.Printf("  %d. %s: %s\n", i+1, fieldErr.Field, fieldErr.Message)
			}
			return fmt.Errorf("%d validation error(s)", len(validationErr.Errors))
		}
		return err
	}

	fmt.Printf("%s is valid.\n", batchPath)
	return nil
}
