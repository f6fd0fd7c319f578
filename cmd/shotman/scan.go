package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/vmunix/shotman/internal/coordinator"
	"github.com/vmunix/shotman/pkg/shotid"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find shots with rendered frames",
	Long: `Load the shot list, scanning the render root when the cache is stale.

A shot qualifies when any layer under ep*/sq*/sh*/render holds an .exr file.
Interrupting a scan keeps the shots found so far.

Examples:
  shotman scan                  # use the cache when it is less than a day old
  shotman scan --force          # always rescan
  shotman scan --episode 02     # only look at ep02`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().Bool("force", false, "Ignore the cache and rescan")
	scanCmd.Flags().String("episode", "", "Only scan this episode (01 or ep01)")
}

// progressNotifier prints each shot as the scan finds it.
type progressNotifier struct {
	coordinator.NopNotifier
	w io.Writer
}

func (p progressNotifier) ShotFound(id shotid.ID) {
	fmt.Fprintf(p.w, "Found: %s\n", id)
}

type scanSummary struct {
	Source    string    `json:"source"`
	Root      string    `json:"root"`
	Episode   string    `json:"episode,omitempty"`
	Shots     []string  `json:"shots"`
	Cancelled bool      `json:"cancelled"`
	RootFound bool      `json:"root_found"`
	Skipped   int       `json:"skipped"`
	CachedAt  time.Time `json:"cached_at,omitzero"`
}

// summaryNotifier keeps the last report.
type summaryNotifier struct {
	coordinator.NopNotifier
	report *coordinator.Report
}

func (s summaryNotifier) ScanFinished(r coordinator.Report) {
	*s.report = r
}

func runScan(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")
	episode, _ := cmd.Flags().GetString("episode")

	ctx := cmd.Context()
	db, bus, err := a.openEvents(ctx)
	if err != nil {
		return err
	}
	defer closeQuietly(db)
	defer closeQuietly(bus)

	out := cmd.OutOrStdout()
	var report coordinator.Report
	extra := []coordinator.Notifier{summaryNotifier{report: &report}}
	if !jsonOutput {
		extra = append(extra, progressNotifier{w: out})
	}

	c := a.coordinator(episode, bus, extra...)
	if err := a.loadShots(ctx, c, force); err != nil {
		return err
	}

	summary := scanSummary{
		Source:    string(report.Source),
		Root:      report.Root,
		Episode:   episode,
		Shots:     shotNames(c.Index().All()),
		Cancelled: report.Cancelled,
		RootFound: report.RootFound,
		Skipped:   report.Skipped,
		CachedAt:  report.CachedAt,
	}
	if jsonOutput {
		return printJSON(out, summary)
	}

	switch {
	case report.Source == coordinator.SourceCache:
		fmt.Fprintf(out, "Loaded %d shots from cache (%s)\n", len(summary.Shots), report.CachedAt.Format(time.DateTime))
	case !report.RootFound:
		fmt.Fprintf(out, "Render root not found: %s\n", report.Root)
	case report.Cancelled:
		fmt.Fprintf(out, "Scan cancelled, kept %d shots\n", len(summary.Shots))
	default:
		fmt.Fprintf(out, "Found %d shots in %s\n", len(summary.Shots), report.Duration.Round(time.Millisecond))
	}
	if report.Skipped > 0 {
		fmt.Fprintf(out, "Skipped %d unreadable directories\n", report.Skipped)
	}
	return nil
}

func shotNames(ids []shotid.ID) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.String()
	}
	return names
}
