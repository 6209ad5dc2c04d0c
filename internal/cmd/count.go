package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// NewCountCommand creates the count command
func NewCountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count [path] [extra-paths...]",
		Short: "Count tokens without building a prompt",
		Long: `Count the tokens in the files that would go into a prompt, without
copying or printing any file contents.

With --top, the N files with the most tokens are listed individually.

Examples:
  prompt count              # total tokens for the current directory
  prompt count --top 10     # the 10 heaviest files
  prompt count src/ docs/`,
		Args:         cobra.ArbitraryArgs,
		RunE:         runCount,
		SilenceUsage: true,
	}

	addDiscoveryFlags(cmd)
	cmd.Flags().Int("top", 0, "List the N files with the most tokens")

	return cmd
}

// runCount implements the count command logic
func runCount(cmd *cobra.Command, args []string) error {
	primary := "."
	var extras []string
	if len(args) > 0 {
		primary = args[0]
		extras = args[1:]
	}

	cfg, err := loadConfig(cmd, primary)
	if err != nil {
		return err
	}

	log := newLogger(cmd, cfg)

	set, err := collectFiles(cmd, cfg, primary, extras, true, log)
	if err != nil {
		return err
	}

	top, _ := cmd.Flags().GetInt("top")
	if !cmd.Flags().Changed("top") {
		fmt.Fprintf(cmd.OutOrStdout(), "Total tokens: %d\n", set.TotalTokens())
		return nil
	}

	type fileTokens struct {
		path   string
		tokens int
	}
	sorted := make([]fileTokens, 0, set.Len())
	for path, info := range set.Snapshot() {
		sorted = append(sorted, fileTokens{path: path, tokens: info.Meta.TokenCount})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].tokens != sorted[j].tokens {
			return sorted[i].tokens > sorted[j].tokens
		}
		return sorted[i].path < sorted[j].path
	})

	topTotal := 0
	topCount := 0
	allTotal := 0
	for i, entry := range sorted {
		if i < top {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d tokens\n", entry.path, entry.tokens)
			topTotal += entry.tokens
			topCount++
		}
		allTotal += entry.tokens
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Top %d files = %d tokens\n", topCount, topTotal)
	fmt.Fprintf(cmd.OutOrStdout(), "All %d files = %d tokens\n", len(sorted), allTotal)

	return nil
}
