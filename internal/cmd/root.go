package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/jameshiew/prompt/internal/config"
	"github.com/jameshiew/prompt/internal/discovery"
	"github.com/jameshiew/prompt/internal/files"
	"github.com/jameshiew/prompt/internal/logger"
	"github.com/jameshiew/prompt/internal/output"
	"github.com/jameshiew/prompt/internal/tokenizer"
	"github.com/jameshiew/prompt/internal/tree"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for prompt
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt [path] [extra-paths...]",
		Short: "Turn a directory of files into an LLM prompt",
		Long: `Prompt reads a file or directory tree into a single prompt suitable for
pasting into an LLM, prefixed with a file tree and with line-numbered file
contents.

Files are discovered in parallel. Files ignored by git are skipped, and
.promptignore files (same syntax as .gitignore) mark further files as
excluded: excluded files still appear in the file tree but their contents
are left out of the prompt. Binary files are excluded automatically.

By default the prompt is copied to the clipboard and a summary is printed.

Configuration is loaded from .prompt/config.yaml if present, searched for
upwards from the primary path. CLI flags override configuration file
settings.

Examples:
  prompt                         # current directory, copy to clipboard
  prompt src/ docs/README.md     # a directory plus one extra file
  prompt --exclude 'target/**'   # exclude generated files
  prompt --stdout > prompt.txt   # print instead of copying
  prompt --format json           # machine-readable file listing`,
		Version: Version,
		Args:    cobra.ArbitraryArgs,
		RunE:    runRoot,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	addDiscoveryFlags(cmd)
	cmd.Flags().Bool("stdout", false, "Print the prompt to stdout instead of copying to the clipboard")
	cmd.Flags().String("format", "", "Output format: plain, json or yaml (implies --stdout for json/yaml)")
	cmd.Flags().Bool("no-tokens", false, "Skip token counting")

	// Add subcommands
	cmd.AddCommand(NewCountCommand())

	return cmd
}

// addDiscoveryFlags registers the flags shared by the root and count commands
func addDiscoveryFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("exclude", "e", nil, "Glob pattern for files to exclude (repeatable)")
	cmd.Flags().Bool("include-gitignored", false, "Include files that are ignored by git")
	cmd.Flags().String("config", "", "Path to config file (default: nearest .prompt/config.yaml)")
	cmd.Flags().String("log-level", "", "Log level: debug, info, warn or error")
}

// runRoot implements the default prompt-building behaviour
func runRoot(cmd *cobra.Command, args []string) error {
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

	rawFormat := cfg.Format
	if cmd.Flags().Changed("format") {
		rawFormat, _ = cmd.Flags().GetString("format")
	}
	format, err := output.ParseFormat(rawFormat)
	if err != nil {
		return err
	}

	countTokens := cfg.CountTokens
	if noTokens, _ := cmd.Flags().GetBool("no-tokens"); noTokens {
		countTokens = false
	}

	set, err := collectFiles(cmd, cfg, primary, extras, countTokens, log)
	if err != nil {
		return err
	}

	plainTree := tree.Render(set, false)

	stdout, _ := cmd.Flags().GetBool("stdout")
	if stdout || format != output.FormatPlain {
		rendered, err := output.Render(set, plainTree, format)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	}

	prompt := output.BuildPrompt(set, plainTree)
	if err := output.CopyToClipboard(prompt); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}

	colorize := isatty.IsTerminal(os.Stdout.Fd())
	fmt.Fprintf(cmd.OutOrStdout(), "Files:\n\n%s\n", tree.Render(set, colorize))

	if total, err := tokenizer.Count(prompt); err != nil {
		log.Warnf("failed to count tokens: %v", err)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s total tokens copied\n", output.FormatTokenCount(total))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Excluded: %q\n", set.Excluded())

	return nil
}

// loadConfig resolves the effective configuration for a command invocation
func loadConfig(cmd *cobra.Command, primary string) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.Load(primary)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	// Merge CLI flags with config (flags take precedence)
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if excludes, _ := cmd.Flags().GetStringArray("exclude"); len(excludes) > 0 {
		cfg.Exclude = append(cfg.Exclude, excludes...)
	}

	return cfg, nil
}

// newLogger creates the console logger for a command, writing to stderr so
// piped prompt output stays clean
func newLogger(cmd *cobra.Command, cfg *config.Config) *logger.Console {
	return logger.NewConsole(cmd.ErrOrStderr(), cfg.LogLevel)
}

// collectFiles runs discovery and reads every discovered file
func collectFiles(cmd *cobra.Command, cfg *config.Config, primary string, extras []string, countTokens bool, log *logger.Console) (*files.Set, error) {
	patterns, err := discovery.CompilePatterns(cfg.Exclude)
	if err != nil {
		return nil, err
	}

	includeGitignored, _ := cmd.Flags().GetBool("include-gitignored")

	discovered, err := discovery.Discover(primary, extras, patterns, includeGitignored, log)
	if err != nil {
		return nil, err
	}
	log.Infof("discovered %d files", len(discovered))

	set, err := files.ReadAll(discovered, countTokens)
	if err != nil {
		return nil, err
	}
	return set, nil
}
