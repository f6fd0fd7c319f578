package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vmunix/shotman/internal/farm"
)

var submitCmd = &cobra.Command{
	Use:   "submit <script>",
	Short: "Submit a script's write nodes to the render farm",
	Long: `Submit a write node of a comp script to the render farm.

With --mov-node the EXR node and the MOV node are submitted as one batch;
the MOV job waits for the EXR job and runs at a higher priority.

Examples:
  shotman submit ep01_sq02_sh003_v04.nk --node EXR --first 1 --last 96
  shotman submit ep01_sq02_sh003_v04.nk --node EXR --mov-node MOV --first 1 --last 96`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

func init() {
	rootCmd.AddCommand(submitCmd)
	submitCmd.Flags().String("node", "EXR", "Write node to render")
	submitCmd.Flags().String("mov-node", "", "Also render this MOV write node after --node")
	submitCmd.Flags().Int("first", 1, "First frame")
	submitCmd.Flags().Int("last", 0, "Last frame")
	submitCmd.Flags().Int("priority", 0, "Job priority (default from config)")
	_ = submitCmd.MarkFlagRequired("last")
}

type submitResult struct {
	Node  string `json:"node"`
	JobID string `json:"job_id"`
}

func runSubmit(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	node, _ := cmd.Flags().GetString("node")
	movNode, _ := cmd.Flags().GetString("mov-node")
	first, _ := cmd.Flags().GetInt("first")
	last, _ := cmd.Flags().GetInt("last")
	priority, _ := cmd.Flags().GetInt("priority")
	if priority == 0 {
		priority = a.cfg.Farm.Priority
	}

	script, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve script: %w", err)
	}

	ctx := cmd.Context()
	db, bus, err := a.openEvents(ctx)
	if err != nil {
		return err
	}
	defer closeQuietly(db)
	defer closeQuietly(bus)

	sub, err := a.submitter(bus)
	if err != nil {
		return err
	}

	job := farm.Job{ScriptPath: filepath.ToSlash(script), WriteNode: node, First: first, Last: last, Priority: priority}
	var results []submitResult
	if movNode == "" {
		id, err := sub.Submit(ctx, job)
		if err != nil {
			return err
		}
		results = append(results, submitResult{Node: node, JobID: id})
	} else {
		exr := job
		exr.Priority = 0
		mov := job
		mov.WriteNode = movNode
		exrID, movID, err := sub.SubmitChain(ctx, exr, mov)
		if err != nil {
			return err
		}
		results = append(results,
			submitResult{Node: node, JobID: exrID},
			submitResult{Node: movNode, JobID: movID})
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, results)
	}
	for _, r := range results {
		fmt.Fprintf(out, "Submitted %s: %s\n", r.Node, r.JobID)
	}
	return nil
}
