package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/content-engine/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print store counters",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := engineConfig(cmd)

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := st.Stats(cmd.Context())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Printf("total ideas:        %d\n", stats.TotalIdeas)
	fmt.Printf("ideas with content: %d\n", stats.IdeasWithContent)
	fmt.Printf("pending ideas:      %d\n", stats.PendingIdeas)
	fmt.Printf("total articles:     %d\n", stats.TotalArticles)
	return nil
}
