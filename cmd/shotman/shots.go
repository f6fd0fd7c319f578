package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vmunix/shotman/internal/coordinator"
	"github.com/vmunix/shotman/internal/shotindex"
	"github.com/vmunix/shotman/pkg/shotid"
)

var shotsCmd = &cobra.Command{
	Use:   "shots [episode [sequence]]",
	Short: "List shots, episodes or sequences",
	Long: `Without arguments, list every episode with its sequence and shot counts.
With an episode, list its sequences. With an episode and a sequence, list
its shots.

Examples:
  shotman shots                 # episodes
  shotman shots 01              # sequences of ep01
  shotman shots ep01 sq02       # shots of ep01/sq02
  shotman shots --all           # every shot`,
	Args: cobra.MaximumNArgs(2),
	RunE: runShots,
}

var findCmd = &cobra.Command{
	Use:   "find <shot>",
	Short: "Look up a shot and its position in the list",
	Args:  cobra.ExactArgs(1),
	RunE:  runFind,
}

func init() {
	rootCmd.AddCommand(shotsCmd)
	rootCmd.AddCommand(findCmd)
	shotsCmd.Flags().Bool("all", false, "List every shot")
}

// loadedIndex loads the shot list (cache first) and returns the index.
func loadedIndex(cmd *cobra.Command) (*app, *coordinator.Coordinator, error) {
	a, err := loadApp(cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	c := a.coordinator("", nil)
	if err := a.loadShots(cmd.Context(), c, false); err != nil {
		return nil, nil, err
	}
	return a, c, nil
}

func trimToken(s, prefix string) string {
	if len(s) > len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):]
	}
	return s
}

func runShots(cmd *cobra.Command, args []string) error {
	_, c, err := loadedIndex(cmd)
	if err != nil {
		return err
	}
	idx := c.Index()
	out := cmd.OutOrStdout()

	if all, _ := cmd.Flags().GetBool("all"); all {
		names := shotNames(idx.All())
		if jsonOutput {
			return printJSON(out, names)
		}
		rows := make([][]string, len(names))
		for i, n := range names {
			rows[i] = []string{strconv.Itoa(i + 1), n}
		}
		printTable(out, []string{"#", "Shot"}, rows, alignRight, alignLeft)
		return nil
	}

	switch len(args) {
	case 0:
		return printEpisodes(cmd, idx)
	case 1:
		ep := trimToken(args[0], "ep")
		seqs := idx.Sequences(ep)
		if jsonOutput {
			return printJSON(out, seqs)
		}
		if len(seqs) == 0 {
			return fmt.Errorf("no sequences in episode %s", args[0])
		}
		rows := make([][]string, len(seqs))
		for i, sq := range seqs {
			rows[i] = []string{"sq" + sq, strconv.Itoa(len(idx.Shots(ep, sq)))}
		}
		printTable(out, []string{"Sequence", "Shots"}, rows, alignLeft, alignRight)
	default:
		ep, sq := trimToken(args[0], "ep"), trimToken(args[1], "sq")
		shots := idx.Shots(ep, sq)
		if jsonOutput {
			return printJSON(out, shots)
		}
		if len(shots) == 0 {
			return fmt.Errorf("no shots in ep%s/sq%s", ep, sq)
		}
		rows := make([][]string, len(shots))
		for i, sh := range shots {
			rows[i] = []string{"sh" + sh, shotid.ID{Episode: ep, Sequence: sq, Shot: sh}.String()}
		}
		printTable(out, []string{"Shot", "Name"}, rows)
	}
	return nil
}

type episodeSummary struct {
	Episode   string `json:"episode"`
	Sequences int    `json:"sequences"`
	Shots     int    `json:"shots"`
}

func printEpisodes(cmd *cobra.Command, idx *shotindex.Index) error {
	var eps []episodeSummary
	for _, ep := range idx.Episodes() {
		s := episodeSummary{Episode: ep}
		for _, sq := range idx.Sequences(ep) {
			s.Sequences++
			s.Shots += len(idx.Shots(ep, sq))
		}
		eps = append(eps, s)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, eps)
	}
	if len(eps) == 0 {
		fmt.Fprintln(out, "No shots found.")
		return nil
	}
	rows := make([][]string, len(eps))
	for i, e := range eps {
		rows[i] = []string{"ep" + e.Episode, strconv.Itoa(e.Sequences), strconv.Itoa(e.Shots)}
	}
	printTable(out, []string{"Episode", "Sequences", "Shots"}, rows, alignLeft, alignRight, alignRight)
	fmt.Fprintf(out, "%d shots\n", idx.Len())
	return nil
}

var errShotNotFound = errors.New("shot not found")

type findResult struct {
	Shot        string   `json:"shot,omitempty"`
	Position    int      `json:"position,omitempty"`
	Total       int      `json:"total"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func runFind(cmd *cobra.Command, args []string) error {
	_, c, err := loadedIndex(cmd)
	if err != nil {
		return err
	}
	idx := c.Index()
	out := cmd.OutOrStdout()

	res := findResult{Total: idx.Len()}
	if id, ok := shotid.Parse(args[0]); ok {
		if i, ok := idx.IndexOf(id); ok {
			res.Shot = id.String()
			res.Position = i + 1
		}
	}
	if res.Shot == "" {
		for _, s := range idx.Suggest(args[0], 3) {
			res.Suggestions = append(res.Suggestions, s.Name)
		}
	}

	if jsonOutput {
		if err := printJSON(out, res); err != nil {
			return err
		}
	} else if res.Shot != "" {
		fmt.Fprintf(out, "%s (%d/%d)\n", res.Shot, res.Position, res.Total)
	} else if len(res.Suggestions) > 0 {
		fmt.Fprintf(out, "Did you mean: %s\n", strings.Join(res.Suggestions, ", "))
	}

	if res.Shot == "" {
		return fmt.Errorf("%w: %s", errShotNotFound, args[0])
	}
	return nil
}
