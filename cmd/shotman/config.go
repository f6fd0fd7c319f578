package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vmunix/shotman/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate configuration file",
	Long:  "Validates config.toml syntax, required fields, and environment variable substitution.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTest,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write an example configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configTestCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return err
		}
		path = found
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var configErr *config.Error
		if errors.As(err, &configErr) {
			printConfigErrors(out, configErr)
			return fmt.Errorf("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(out, cfg)
	if warnings := cfg.Warnings(); len(warnings) > 0 {
		fmt.Fprintln(out, "\nWarnings:")
		for _, w := range warnings {
			fmt.Fprintf(out, "  - %s\n", w)
		}
	}
	fmt.Fprintln(out, "\nConfiguration valid!")
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.WriteDefault(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func printConfigErrors(w io.Writer, e *config.Error) {
	if len(e.Missing) > 0 {
		fmt.Fprintln(w, "Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Fprintf(w, "  - %s\n", m)
		}
		fmt.Fprintln(w)
	}

	if len(e.Errors) > 0 {
		fmt.Fprintln(w, "Validation errors:")
		for _, err := range e.Errors {
			fmt.Fprintf(w, "  - %s\n", err)
		}
		fmt.Fprintln(w)
	}
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Configuration Summary:")
	fmt.Fprintf(w, "  Project:    %s (%s, %g fps)\n", cfg.Project.Name, cfg.Project.Format, cfg.Project.FPS)
	fmt.Fprintf(w, "  Render:     %s\n", cfg.Paths.RenderRoot)
	if cfg.Paths.CompRoot != "" {
		fmt.Fprintf(w, "  Comp:       %s\n", cfg.Paths.CompRoot)
	}
	if cfg.Scan.Episode != "" {
		fmt.Fprintf(w, "  Episode:    %s\n", cfg.Scan.Episode)
	}
	fmt.Fprintf(w, "  Cache:      %s\n", cfg.Cache.Path)
	fmt.Fprintf(w, "  Database:   %s\n", cfg.Database.Path)
	fmt.Fprintf(w, "  Watch:      %s every %s\n", cfg.Watch.Listen, cfg.Watch.Interval.Duration)
	fmt.Fprintf(w, "  Farm:       %s (pool %s, priority %d)\n", cfg.Farm.Command, cfg.Farm.Pool, cfg.Farm.Priority)
	if len(cfg.Remap.From) > 0 {
		fmt.Fprintf(w, "  Remap:      %d prefixes -> %s\n", len(cfg.Remap.From), cfg.Remap.To)
	}
}
