package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/content-engine/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export generated articles as Markdown files",
	Long: `Export writes every generated article to the output directory as a
Markdown file with a YAML front matter block (title, topic, idea ID,
creation time). Files are named NNN-topic-slug.md.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("output-dir", "output/articles", "directory for exported articles")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	outputDir, _ := cmd.Flags().GetString("output-dir")

	cfg := engineConfig(cmd)
	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := st.ExportArticles(cmd.Context(), outputDir)
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d article(s) to %s\n", n, outputDir)
	return nil
}
