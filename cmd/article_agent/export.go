package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/article-agent/internal/db"
	"github.com/jonathan/article-agent/internal/export"
	"github.com/jonathan/article-agent/internal/pipeline"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored articles as HTML, a zip package, or a WXR document",
	Long: `Renders one stored article (--id) or every successful article (--all) in the chosen format.

Formats: html (clean copy-paste HTML), zip (markdown plus extracted image files), wxr (WordPress import XML). Failed history records are skipped by --all.`,
	RunE: runExport,
}

var (
	exportConfigPath  string
	exportID          string
	exportAll         bool
	exportFormat      string
	exportOut         string
	exportDatabaseURL string
)

// exportParallelism bounds concurrent article formatting during --all.
const exportParallelism = 4

func init() {
	exportCmd.Flags().StringVar(&exportConfigPath, "config", "", "Path to config.json file (site identity and image tuning for WXR)")
	exportCmd.Flags().StringVar(&exportID, "id", "", "Article id to export (mutually exclusive with --all)")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Export every successful article")
	exportCmd.Flags().StringVar(&exportFormat, "format", export.FormatWXR, "Export format: html, zip, or wxr")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (--id) or directory (--all); defaults to the export's own filename in the current directory")
	exportCmd.Flags().StringVar(&exportDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if !exportAll && exportID == "" {
		return fmt.Errorf("either --id or --all is required")
	}
	if exportAll && exportID != "" {
		return fmt.Errorf("--id and --all are mutually exclusive")
	}

	cfg, err := loadMergedConfig(cmd, exportConfigPath)
	if err != nil {
		return err
	}
	opts := exportOptions(cfg)

	historyDatabaseURL = exportDatabaseURL
	database, err := openHistoryDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	if exportAll {
		articles, err := database.ListArticles(ctx)
		if err != nil {
			return err
		}
		return exportAllArticles(articles, exportFormat, opts, exportOut)
	}

	id, err := uuid.Parse(exportID)
	if err != nil {
		return fmt.Errorf("invalid article id %q: %w", exportID, err)
	}
	article, err := database.GetArticle(ctx, id)
	if err != nil {
		return err
	}

	path, err := writeExport(*article, exportFormat, opts, exportOut)
	if err != nil {
		return err
	}
	fmt.Printf("Exported %s\n", path)
	return nil
}

// writeExport renders one article and writes it to outPath. An empty outPath
// or a directory uses the export's own filename.
func writeExport(article db.Article, format string, opts export.Options, outPath string) (string, error) {
	result, err := export.Export(article, format, opts)
	if err != nil {
		return "", fmt.Errorf("failed to export %q: %w", article.Keyword, err)
	}

	switch {
	case outPath == "":
		outPath = result.Filename
	case isDir(outPath):
		outPath = filepath.Join(outPath, result.Filename)
	}

	if dir := filepath.Dir(outPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outPath, result.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	return outPath, nil
}

// exportAllArticles renders every successful article concurrently. The
// formatters are pure, so fan-out is safe; file names are slug-derived and
// distinct per article by construction.
func exportAllArticles(articles []db.Article, format string, opts export.Options, outDir string) error {
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var g errgroup.Group
	g.SetLimit(exportParallelism)

	exported := 0
	for _, article := range articles {
		if strings.HasSuffix(article.Keyword, pipeline.FailedSuffix) {
			continue
		}
		exported++
		g.Go(func() error {
			path, err := writeExport(article, format, opts, outDir)
			if err != nil {
				return err
			}
			fmt.Printf("Exported %s\n", path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if exported == 0 {
		fmt.Println("No successful articles to export.")
		return nil
	}
	fmt.Printf("Exported %d articles to %s\n", exported, outDir)
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
