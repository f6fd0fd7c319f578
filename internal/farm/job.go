// Package farm submits Nuke write nodes to a Deadline render farm.
package farm

import (
	"fmt"
	"path"
	"strings"
)

// Job is one write node to render on the farm.
type Job struct {
	ScriptPath    string
	WriteNode     string // "EXR", "MOV"
	First, Last   int
	Priority      int
	Batch         bool // group under the script name in the farm monitor
	Dependencies  []string
	Pool          string
	Group         string
	PluginVersion string
}

// Name is the farm job name: "<script file> [<write node>]".
func (j Job) Name() string {
	return fmt.Sprintf("%s [%s]", scriptBase(j.ScriptPath), j.WriteNode)
}

// BatchName groups related jobs; empty when Batch is false.
func (j Job) BatchName() string {
	if !j.Batch {
		return ""
	}
	return scriptBase(j.ScriptPath)
}

// ChunkSize is how many frames each farm task renders. Short EXR renders use
// small chunks; a MOV must be written by a single task.
func (j Job) ChunkSize() int {
	node := strings.ToUpper(j.WriteNode)
	switch {
	case strings.Contains(node, "EXR") && j.Last <= 30:
		return 10
	case strings.Contains(node, "MOV"):
		return max(j.Last-j.First+1, 1)
	default:
		return 20
	}
}

// JobInfo renders the job info file.
func (j Job) JobInfo() string {
	lines := []string{
		"Name=" + j.Name(),
		"BatchName=" + j.BatchName(),
		"Plugin=Nuke",
		fmt.Sprintf("Priority=%d", j.Priority),
		fmt.Sprintf("Frames=%d-%d", j.First, j.Last),
		fmt.Sprintf("ChunkSize=%d", j.ChunkSize()),
		"Pool=" + j.Pool,
		"Group=" + j.Group,
	}
	if len(j.Dependencies) > 0 {
		lines = append(lines, "JobDependencies="+strings.Join(j.Dependencies, ","))
	}
	return strings.Join(lines, "\n")
}

// PluginInfo renders the Nuke plugin info file.
func (j Job) PluginInfo() string {
	return strings.Join([]string{
		"SceneFile=" + j.ScriptPath,
		"Version=" + j.PluginVersion,
		"NukeX=True",
		"BatchMode=True",
		"WriteNode=" + j.WriteNode,
		"UseNodeRange=True",
	}, "\n")
}

func (j Job) validate() error {
	switch {
	case j.ScriptPath == "":
		return fmt.Errorf("%w: script path required", ErrInvalidJob)
	case j.WriteNode == "":
		return fmt.Errorf("%w: write node required", ErrInvalidJob)
	case j.Last < j.First:
		return fmt.Errorf("%w: frame range %d-%d", ErrInvalidJob, j.First, j.Last)
	}
	return nil
}

func scriptBase(p string) string {
	return path.Base(strings.ReplaceAll(p, `\`, "/"))
}
