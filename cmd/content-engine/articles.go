package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/content-engine/internal/generate"
	"github.com/pdiddy/content-engine/internal/pipeline"
	"github.com/pdiddy/content-engine/internal/store"
)

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "Expand pending ideas into articles (no idea collection)",
	Long: `Articles runs the content-expansion stage on its own: it selects the
oldest pending ideas and expands each into a stored article. Ideas whose
generation fails stay pending for a later run.`,
	RunE: runArticles,
}

var articlesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the article generated for an idea",
	RunE:  runArticlesShow,
}

func init() {
	addGenerationFlags(articlesCmd)
	articlesShowCmd.Flags().Int64("idea", 0, "idea ID")
	articlesShowCmd.Flags().Bool("json", false, "output as JSON")

	articlesCmd.AddCommand(articlesShowCmd)
	rootCmd.AddCommand(articlesCmd)
}

func runArticles(cmd *cobra.Command, args []string) error {
	cfg := engineConfig(cmd)
	if err := requireAPIKey(cfg); err != nil {
		return err
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	backend := generate.NewClaudeBackend(cfg.AI)
	runner := pipeline.New(st, backend, cfg.Generator, log)

	summary, err := runner.ExpandPending(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("generated: %d, failed: %d\n", summary.Generated, summary.Failed)
	return nil
}

func runArticlesShow(cmd *cobra.Command, args []string) error {
	ideaID, _ := cmd.Flags().GetInt64("idea")
	if ideaID <= 0 {
		return fmt.Errorf("an idea ID is required: --idea N")
	}

	cfg := engineConfig(cmd)
	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	article, err := st.ArticleByIdea(cmd.Context(), ideaID)
	if err != nil {
		return err
	}
	if article == nil {
		return fmt.Errorf("no article generated for idea %d", ideaID)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(article)
	}

	fmt.Printf("# %s\n\n%s\n", article.Title, article.Body)
	return nil
}
