package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vmunix/shotman/internal/shotpaths"
)

var remapCmd = &cobra.Command{
	Use:   "remap <path>...",
	Short: "Rewrite paths that point at retired file servers",
	Long: `Rewrite paths that still use a retired server prefix ([remap] from) to
the current one ([remap] to).

With --script, each argument is a .nk script whose file knobs are
rewritten in place.

Examples:
  shotman remap //192.168.99.25/prj/cinderella/render
  shotman remap --script ep01_sq02_sh003_v04.nk`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemap,
}

func init() {
	rootCmd.AddCommand(remapCmd)
	remapCmd.Flags().Bool("script", false, "Treat arguments as scripts and rewrite their file knobs")
}

type remapResult struct {
	Input   string `json:"input"`
	Output  string `json:"output,omitempty"`
	Changed int    `json:"changed"`
}

func runRemap(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	r := a.remapper()
	if r.To == "" {
		return errors.New("no remap target configured ([remap] to)")
	}
	script, _ := cmd.Flags().GetBool("script")

	results := make([]remapResult, 0, len(args))
	for _, arg := range args {
		if !script {
			out, ok := r.Remap(arg)
			res := remapResult{Input: arg, Output: out}
			if ok {
				res.Changed = 1
			}
			results = append(results, res)
			continue
		}

		n, err := remapScriptFile(r, arg)
		if err != nil {
			return err
		}
		a.logger.Info("remapped script", "path", arg, "knobs", n)
		results = append(results, remapResult{Input: arg, Changed: n})
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, results)
	}
	for _, res := range results {
		switch {
		case script:
			fmt.Fprintf(out, "%s: %d file knobs remapped\n", res.Input, res.Changed)
		default:
			fmt.Fprintln(out, res.Output)
		}
	}
	return nil
}

// remapScriptFile rewrites path in place through a temp file in the same
// directory. Scripts without matches are left untouched.
func remapScriptFile(r shotpaths.Remapper, path string) (n int, err error) {
	in, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open script: %w", err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat script: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil || n == 0 {
			_ = os.Remove(tmpName)
		}
	}()

	n, err = r.RemapScript(in, tmp)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close temp file: %w", cerr)
	}
	if err != nil || n == 0 {
		return n, err
	}

	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		return 0, fmt.Errorf("chmod temp file: %w", err)
	}
	_ = in.Close()
	if err := os.Rename(tmpName, path); err != nil {
		return 0, fmt.Errorf("replace script: %w", err)
	}
	return n, nil
}
