package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/article-agent/internal/config"
	"github.com/jonathan/article-agent/internal/db"
	"github.com/jonathan/article-agent/internal/llm"
	"github.com/jonathan/article-agent/internal/observability"
	"github.com/jonathan/article-agent/internal/pipeline"
	"github.com/jonathan/article-agent/internal/schemas"
	"github.com/spf13/cobra"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Generate articles for a batch of keywords",
	Long: `Processes keywords in order through the full pipeline: research -> ideation -> outline -> writing -> image generation, then saves each article to history.

Keywords come from --keywords or from a batch JSON file (--file), validated against schemas/batch.schema.json. Configuration can be loaded from a JSON file using --config; command-line arguments override config file values.`,
	RunE: runGenerateCmd,
}

var (
	runConfigPath  string
	runKeywords    []string
	runBatchFile   string
	runLanguage    string
	runTextModel   string
	runImageModel  string
	runAPIKey      string
	runDatabaseURL string
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringSliceVarP(&runKeywords, "keywords", "k", nil, "Keywords to process, comma separated or repeated (mutually exclusive with --file)")
	runCommand.Flags().StringVarP(&runBatchFile, "file", "f", "", "Path to a batch JSON file with keywords and language")
	runCommand.Flags().StringVarP(&runLanguage, "language", "l", "", `Article language: "en" or "id"`)
	runCommand.Flags().StringVar(&runTextModel, "text-model", "", "Gemini model for the text stages")
	runCommand.Flags().StringVar(&runImageModel, "image-model", "", "Imagen model for image generation")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for history persistence
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runCommand)
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadMergedConfig(cmd, runConfigPath)
	if err != nil {
		return err
	}

	keywords := runKeywords
	language := cfg.Language
	if cmd.Flags().Changed("language") {
		language = runLanguage
	}

	if runBatchFile != "" {
		if len(keywords) > 0 {
			return fmt.Errorf("--keywords and --file are mutually exclusive")
		}
		batch, err := loadBatchFile(runBatchFile)
		if err != nil {
			return err
		}
		keywords = batch.Keywords
		if batch.Language != "" && !cmd.Flags().Changed("language") {
			language = batch.Language
		}
	}

	keywords = pipeline.CleanKeywords(keywords)
	if len(keywords) == 0 {
		return fmt.Errorf("no keywords provided: use --keywords or --file")
	}

	apiKey := resolveAPIKey(cfg)
	if apiKey == "" {
		return fmt.Errorf("gemini API key is required: set GEMINI_API_KEY or pass --api-key")
	}

	databaseURL := resolveDatabaseURL(cfg)
	if databaseURL == "" {
		return fmt.Errorf("database URL is required: set DATABASE_URL or pass --db-url")
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()
	if err := database.InitSchema(ctx); err != nil {
		return err
	}

	client, err := llm.NewGeminiClient(ctx, llmConfigFrom(cfg), apiKey)
	if err != nil {
		return err
	}
	defer client.Close()

	orchestrator := pipeline.NewOrchestrator(client, database, pacingOptions(cfg))

	result, err := orchestrator.Run(ctx, pipeline.RunOptions{
		Keywords: keywords,
		Language: language,
	})
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintRunSummary(result)
	return nil
}

// batchFile is the decoded form of a batch JSON file.
type batchFile struct {
	Keywords []string `json:"keywords"`
	Language string   `json:"language,omitempty"`
}

// loadBatchFile reads a batch JSON file, validating it against the batch
// schema first when the schema file can be located.
func loadBatchFile(path string) (*batchFile, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("batch file not found: %s", path)
	}

	if schemaPath := schemas.ResolveSchemaPath(filepath.Join("schemas", "batch.schema.json")); schemaPath != "" {
		if err := schemas.ValidateJSON(schemaPath, path); err != nil {
			return nil, fmt.Errorf("invalid batch file %s: %w", path, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var batch batchFile
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to parse batch file: %w", err)
	}
	return &batch, nil
}

// loadMergedConfig loads the optional config file, applies CLI overrides for
// flags that were explicitly set, and fills the rest from defaults.
func loadMergedConfig(cmd *cobra.Command, path string) (config.Config, error) {
	var cfg config.Config
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("text-model") {
		cfg.TextModel = runTextModel
	}
	if cmd.Flags().Changed("image-model") {
		cfg.ImageModel = runImageModel
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = runAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}

	return cfg.MergeWithDefaults(config.DefaultConfig()), nil
}

func resolveAPIKey(cfg config.Config) string {
	if cfg.APIKey != "" {
		return cfg.APIKey
	}
	return os.Getenv("GEMINI_API_KEY")
}

func resolveDatabaseURL(cfg config.Config) string {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL
	}
	return os.Getenv("DATABASE_URL")
}

func llmConfigFrom(cfg config.Config) *llm.Config {
	llmConfig := llm.DefaultConfig()
	if cfg.TextModel != "" {
		llmConfig = llmConfig.WithModel(llm.RoleText, cfg.TextModel)
	}
	if cfg.ImageModel != "" {
		llmConfig = llmConfig.WithModel(llm.RoleImage, cfg.ImageModel)
	}
	return llmConfig
}

// pacingOptions converts the config's millisecond delay overrides into
// pipeline options. Zero values keep the pipeline defaults.
func pacingOptions(cfg config.Config) pipeline.Options {
	return pipeline.Options{
		BetweenImages: time.Duration(cfg.ImageDelayMS) * time.Millisecond,
		BetweenItems:  time.Duration(cfg.KeywordDelayMS) * time.Millisecond,
		AfterFailure:  time.Duration(cfg.FailureDelayMS) * time.Millisecond,
	}
}
