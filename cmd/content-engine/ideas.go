package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/content-engine/internal/generate"
	"github.com/pdiddy/content-engine/internal/pipeline"
	"github.com/pdiddy/content-engine/internal/store"
)

var ideasCmd = &cobra.Command{
	Use:   "ideas",
	Short: "Collect new topic ideas (dedup gate only, no articles)",
	Long: `Ideas runs the idea-collection stage on its own: it requests a batch
of topic ideas from the backend, drops exact and semantic duplicates, and
stores the rest as pending ideas.`,
	RunE: runIdeas,
}

var ideasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored ideas, newest first",
	RunE:  runIdeasList,
}

func init() {
	addGenerationFlags(ideasCmd)
	ideasListCmd.Flags().Bool("json", false, "output as JSON")
	ideasListCmd.Flags().Bool("pending", false, "only ideas without generated content")

	ideasCmd.AddCommand(ideasListCmd)
	rootCmd.AddCommand(ideasCmd)
}

func runIdeas(cmd *cobra.Command, args []string) error {
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

	summary, err := runner.CollectIdeas(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("accepted: %d, duplicates: %d, skipped: %d\n",
		summary.Accepted, summary.Duplicates, summary.Skipped)
	return nil
}

func runIdeasList(cmd *cobra.Command, args []string) error {
	cfg := engineConfig(cmd)

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	pendingOnly, _ := cmd.Flags().GetBool("pending")

	ideas, err := st.ListIdeas(cmd.Context())
	if err != nil {
		return err
	}
	if pendingOnly {
		ideas, err = st.ListPendingIdeas(cmd.Context(), 0)
		if err != nil {
			return err
		}
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ideas)
	}

	if len(ideas) == 0 {
		fmt.Println("No ideas stored.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-5s  %-40s  %-19s  %s\n", "ID", "Topic", "Created", "Article")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 78))
	for _, idea := range ideas {
		topic := idea.Topic
		if len(topic) > 40 {
			topic = topic[:37] + "..."
		}
		status := "pending"
		if idea.ContentGenerated {
			status = "yes"
		}
		fmt.Fprintf(os.Stdout, "%-5d  %-40s  %-19s  %s\n",
			idea.ID, topic, idea.CreatedAt.Format("2006-01-02 15:04:05"), status)
	}
	fmt.Fprintf(os.Stdout, "\n%d ideas\n", len(ideas))
	return nil
}
