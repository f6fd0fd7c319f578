package farm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"slices"
	"strings"
)

var (
	// ErrNoJobID indicates the farm accepted the command but printed no job id.
	ErrNoJobID = errors.New("no JobID in farm output")

	// ErrSubmitFailed indicates the submission command failed.
	ErrSubmitFailed = errors.New("farm submission failed")

	// ErrInvalidJob indicates a job that cannot be submitted.
	ErrInvalidJob = errors.New("invalid farm job")
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (stdout, stderr []byte, err error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Config holds submission defaults.
type Config struct {
	Command       string
	TempDir       string
	Pool          string
	Group         string
	PluginVersion string
}

// Option configures the Submitter.
type Option func(*Submitter)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(e Executor) Option {
	return func(s *Submitter) {
		if e != nil {
			s.exec = e
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Submitter) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSubmitted registers a callback for every accepted job.
func WithSubmitted(fn func(job Job, id string)) Option {
	return func(s *Submitter) { s.submitted = fn }
}

// Submitter runs the farm's command line submission tool.
type Submitter struct {
	cfg       Config
	exec      Executor
	logger    *slog.Logger
	submitted func(Job, string)
}

// NewSubmitter creates a Submitter.
func NewSubmitter(cfg Config, opts ...Option) (*Submitter, error) {
	cfg.Command = strings.TrimSpace(cfg.Command)
	if cfg.Command == "" {
		return nil, errors.New("farm command required")
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	s := &Submitter{
		cfg:    cfg,
		exec:   commandExecutor{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

var jobIDPattern = regexp.MustCompile(`JobID=([a-z0-9]+)`)

// Submit writes the job and plugin info files, runs the submission command
// and returns the farm job id.
func (s *Submitter) Submit(ctx context.Context, job Job) (string, error) {
	job = s.withDefaults(job)
	if err := job.validate(); err != nil {
		return "", err
	}

	jobFile, err := s.writeTemp("nuke_job_"+job.WriteNode, job.JobInfo())
	if err != nil {
		return "", err
	}
	defer os.Remove(jobFile)
	pluginFile, err := s.writeTemp("nuke_plugin_"+job.WriteNode, job.PluginInfo())
	if err != nil {
		return "", err
	}
	defer os.Remove(pluginFile)

	stdout, stderr, err := s.exec.Run(ctx, s.cfg.Command, []string{jobFile, pluginFile, job.ScriptPath})
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v: %s", ErrSubmitFailed, job.Name(), err, strings.TrimSpace(string(stderr)))
	}

	m := jobIDPattern.FindSubmatch(stdout)
	if m == nil {
		return "", fmt.Errorf("%w: %s", ErrNoJobID, job.Name())
	}
	id := string(m[1])

	s.logger.Info("farm job submitted", "job", job.Name(), "id", id, "frames", fmt.Sprintf("%d-%d", job.First, job.Last))
	if s.submitted != nil {
		s.submitted(job, id)
	}
	return id, nil
}

// SubmitChain submits an EXR render and a MOV render that depends on it.
// An EXR job without a priority gets one less than the MOV.
func (s *Submitter) SubmitChain(ctx context.Context, exr, mov Job) (exrID, movID string, err error) {
	exr.Batch, mov.Batch = true, true
	if exr.Priority == 0 {
		exr.Priority = max(mov.Priority-1, 0)
	}

	exrID, err = s.Submit(ctx, exr)
	if err != nil {
		return "", "", fmt.Errorf("submit %s: %w", exr.WriteNode, err)
	}

	mov.Dependencies = append(slices.Clone(mov.Dependencies), exrID)
	movID, err = s.Submit(ctx, mov)
	if err != nil {
		return exrID, "", fmt.Errorf("submit %s: %w", mov.WriteNode, err)
	}
	return exrID, movID, nil
}

func (s *Submitter) withDefaults(job Job) Job {
	if job.Pool == "" {
		job.Pool = s.cfg.Pool
	}
	if job.Group == "" {
		job.Group = s.cfg.Group
	}
	if job.PluginVersion == "" {
		job.PluginVersion = s.cfg.PluginVersion
	}
	return job
}

func (s *Submitter) writeTemp(prefix, content string) (string, error) {
	f, err := os.CreateTemp(s.cfg.TempDir, prefix+"_*.job")
	if err != nil {
		return "", fmt.Errorf("create job file: %w", err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write job file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write job file: %w", err)
	}
	return f.Name(), nil
}
