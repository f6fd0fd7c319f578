package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vmunix/shotman/internal/shotpaths"
	"github.com/vmunix/shotman/pkg/shotid"
)

var pathsCmd = &cobra.Command{
	Use:   "paths <shot>",
	Short: "Show the project paths of a shot",
	Long: `Show the comp, precomp, camera and render paths of a shot along with
its render layers and thumbnail versions.

The shot may be given as a name (ep01_sq02_sh003) or any path or script
name that contains one.`,
	Args: cobra.ExactArgs(1),
	RunE: runPaths,
}

var latestCmd = &cobra.Command{
	Use:   "latest <shot>",
	Short: "Print the latest comp script of a shot",
	Args:  cobra.ExactArgs(1),
	RunE:  runLatest,
}

var writePathCmd = &cobra.Command{
	Use:   "write-path <script>",
	Short: "Print the write-node output path for a script",
	Long: `Print where a write node in the given script renders to.

Examples:
  shotman write-path ep01_sq02_sh003_v04.nk --format exr
  shotman write-path ep01_sq02_sh003_light_precomp_v02.nk --format mov`,
	Args: cobra.ExactArgs(1),
	RunE: runWritePath,
}

var createCmd = &cobra.Command{
	Use:   "create <shot>",
	Short: "Create the comp directories and first script of a shot",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreate,
}

func init() {
	rootCmd.AddCommand(pathsCmd)
	rootCmd.AddCommand(latestCmd)
	rootCmd.AddCommand(writePathCmd)
	rootCmd.AddCommand(createCmd)

	latestCmd.Flags().Bool("movie", false, "Print the latest movie instead")
	writePathCmd.Flags().String("format", "exr", "Output format (exr, mov)")
	createCmd.Flags().Bool("precomp", false, "Create the light precomp script instead")
	createCmd.Flags().String("template", "", "Script to copy (default: empty script)")
	createCmd.Flags().Bool("force", false, "Overwrite an existing script")
}

func parseShotArg(arg string) (shotid.ID, error) {
	if id, ok := shotid.Parse(arg); ok {
		return id, nil
	}
	if id, ok := shotid.FromPath(arg); ok {
		return id, nil
	}
	return shotid.ID{}, fmt.Errorf("not a shot: %s", arg)
}

func shotPaths(cmd *cobra.Command, arg string) (*app, shotpaths.Paths, error) {
	a, err := loadApp(cmd.ErrOrStderr())
	if err != nil {
		return nil, shotpaths.Paths{}, err
	}
	id, err := parseShotArg(arg)
	if err != nil {
		return nil, shotpaths.Paths{}, err
	}
	p, err := a.layout().For(id)
	if err != nil {
		return nil, shotpaths.Paths{}, err
	}
	return a, p, nil
}

type pathsOutput struct {
	shotpaths.Paths
	Layers     []string              `json:"layers"`
	Thumbnails []shotpaths.Thumbnail `json:"thumbnails"`
}

func runPaths(cmd *cobra.Command, args []string) error {
	_, p, err := shotPaths(cmd, args[0])
	if err != nil {
		return err
	}

	res := pathsOutput{Paths: p, Layers: []string{}, Thumbnails: shotpaths.Thumbnails(p.ThumbDir)}
	if p.RenderDir != "" {
		for _, l := range shotpaths.RenderLayers(p.RenderDir) {
			res.Layers = append(res.Layers, l.Name)
		}
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, res)
	}

	rows := [][]string{
		{"comp", p.CompDir},
		{"nk", p.NkDir},
		{"exr", p.ExrDir},
		{"mov", p.MovDir},
		{"thumbnails", p.ThumbDir},
		{"light precomp", p.PrecompDir},
		{"camera", p.CameraFile},
		{"render", p.RenderDir},
	}
	fmt.Fprintln(out, p.Name)
	printTable(out, []string{"Kind", "Path"}, rows)

	if len(res.Layers) > 0 {
		fmt.Fprintf(out, "Layers: %v\n", res.Layers)
	}
	if len(res.Thumbnails) > 0 {
		thumbs := make([][]string, len(res.Thumbnails))
		for i, t := range res.Thumbnails {
			thumbs[i] = []string{t.Version, t.Path}
		}
		printTable(out, []string{"Version", "Thumbnail"}, thumbs)
	}
	return nil
}

func runLatest(cmd *cobra.Command, args []string) error {
	_, p, err := shotPaths(cmd, args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if movie, _ := cmd.Flags().GetBool("movie"); movie {
		path, version, err := shotpaths.LatestMovie(p.MovDir)
		if err != nil {
			return fmt.Errorf("%s: %w", p.MovDir, err)
		}
		if jsonOutput {
			return printJSON(out, map[string]any{"path": path, "version": version})
		}
		fmt.Fprintln(out, path)
		return nil
	}

	path, err := shotpaths.LatestScript(p.NkDir)
	if err != nil {
		return fmt.Errorf("%s: %w", p.NkDir, err)
	}
	if jsonOutput {
		return printJSON(out, map[string]any{"path": path})
	}
	fmt.Fprintln(out, path)
	return nil
}

func runWritePath(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := shotpaths.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	path, err := a.layout().WriteOutput(args[0], format)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]string{"path": path, "format": string(format)})
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	a, p, err := shotPaths(cmd, args[0])
	if err != nil {
		return err
	}
	precomp, _ := cmd.Flags().GetBool("precomp")
	template, _ := cmd.Flags().GetString("template")
	force, _ := cmd.Flags().GetBool("force")

	var dst string
	if precomp {
		if err := shotpaths.EnsurePrecompDirs(p); err != nil {
			return err
		}
		dst = filepath.Join(filepath.FromSlash(p.PrecompNkDir), shotpaths.PrecompScriptName(p.Shot))
	} else {
		if err := shotpaths.EnsureScriptDirs(p); err != nil {
			return err
		}
		dst = filepath.Join(filepath.FromSlash(p.NkDir), shotpaths.NewScriptName(p.Shot))
	}

	if err := shotpaths.CreateScript(template, dst, force); err != nil {
		return err
	}
	a.logger.Info("created script", "shot", p.Name, "path", dst, "template", template)
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]string{"path": dst})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", dst)
	return nil
}
