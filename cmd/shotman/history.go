package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/vmunix/shotman/internal/events"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent scans, navigation and farm submissions",
	Long: `Show recorded events, newest first.

Examples:
  shotman history                       # last 20 events
  shotman history --shot ep01_sq02_sh003
  shotman history --since 24h`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Int("limit", 20, "Number of events to show")
	historyCmd.Flags().String("shot", "", "Only events for this shot")
	historyCmd.Flags().Duration("since", 0, "Only events newer than this")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	shot, _ := cmd.Flags().GetString("shot")
	since, _ := cmd.Flags().GetDuration("since")

	ctx := cmd.Context()
	db, bus, err := a.openEvents(ctx)
	if err != nil {
		return err
	}
	defer closeQuietly(db)
	defer closeQuietly(bus)
	log := events.NewEventLog(db)

	var raw []events.RawEvent
	switch {
	case shot != "":
		id, err := parseShotArg(shot)
		if err != nil {
			return err
		}
		raw, err = log.ForEntity(ctx, events.EntityShot, id.String())
		if err != nil {
			return err
		}
	case since > 0:
		raw, err = log.Since(ctx, time.Now().Add(-since))
	default:
		raw, err = log.Recent(ctx, limit)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, raw)
	}
	if len(raw) == 0 {
		fmt.Fprintln(out, "No events.")
		return nil
	}

	rows := make([][]string, len(raw))
	for i, e := range raw {
		rows[i] = []string{
			strconv.FormatInt(e.ID, 10),
			e.OccurredAt.Local().Format(time.DateTime),
			e.EventType,
			e.EntityKey,
		}
	}
	printTable(out, []string{"ID", "Time", "Event", "Subject"}, rows, alignRight)
	return nil
}
