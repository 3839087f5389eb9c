// Package experiment runs tasks in order, each in its own directory under a uniquely named run root.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/sift/internal/core/domain"
	"go.trai.ch/sift/internal/core/ports"
	"go.trai.ch/zerr"
)

// Options identify a run.
type Options struct {
	// BaseDir holds the run root. Defaults to domain.DefaultOutputDir.
	BaseDir      string
	Label        string
	Experimenter string
	// Definition is the experiment file copied into the run root when set.
	Definition string
}

// Runner executes tasks strictly in call order and records them in the run manifest.
// The run root is created on the first call to Run.
type Runner struct {
	opts   Options
	store  ports.ManifestStore
	hasher ports.Hasher
	tracer ports.Tracer
	logger ports.Logger
	clock  ports.Clock

	mu       sync.Mutex
	manifest *domain.RunManifest
	used     map[string]int
}

// NewRunner creates a Runner with the given dependencies.
func NewRunner(
	opts Options,
	store ports.ManifestStore,
	hasher ports.Hasher,
	tracer ports.Tracer,
	logger ports.Logger,
	clock ports.Clock,
) *Runner {
	if opts.BaseDir == "" {
		opts.BaseDir = domain.DefaultOutputDir
	}
	return &Runner{
		opts:   opts,
		store:  store,
		hasher: hasher,
		tracer: tracer,
		logger: logger,
		clock:  clock,
		used:   make(map[string]int),
	}
}

// Root returns the run root, or an empty string before the first task ran.
func (r *Runner) Root() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.manifest == nil {
		return ""
	}
	return r.manifest.Root
}

// Manifest returns a copy of the run manifest.
func (r *Runner) Manifest() domain.RunManifest {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.manifest == nil {
		return domain.RunManifest{}
	}
	m := *r.manifest
	m.Tasks = append([]domain.TaskRecord(nil), r.manifest.Tasks...)
	return m
}

// RootName returns the directory name of a run started at the given time:
// "<experimenter>-<timestamp>-<label>", omitting empty parts.
func RootName(opts Options, started string) string {
	parts := make([]string, 0, 3)
	if e := sanitize(opts.Experimenter); e != "" {
		parts = append(parts, e)
	}
	parts = append(parts, started)
	if l := sanitize(opts.Label); l != "" {
		parts = append(parts, l)
	}
	return strings.Join(parts, "-")
}

// Run executes task in a fresh directory named after it and returns its result unchanged.
// A failing task is recorded in the manifest and its error returned as is.
func Run[R any](ctx context.Context, r *Runner, task ports.Task[R]) (R, error) {
	var zero R

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.open(); err != nil {
		return zero, err
	}
	name := task.Name()
	dir, err := r.allocate(name)
	if err != nil {
		return zero, err
	}

	args := task.Arguments()
	inputs, fingerprint := r.fingerprint(task, args)
	record := domain.TaskRecord{
		Name:        name,
		Directory:   filepath.Base(dir),
		Arguments:   args,
		Inputs:      inputs,
		Fingerprint: fingerprint,
		Status:      domain.StatusRunning,
		StartedAt:   r.clock.Now(),
	}
	r.manifest.Tasks = append(r.manifest.Tasks, record)
	idx := len(r.manifest.Tasks) - 1
	if err := r.persist(); err != nil {
		return zero, err
	}

	r.logger.Info(fmt.Sprintf("running %s in %s", name, dir))
	ctx, span := r.tracer.Start(ctx, name)
	span.SetAttribute("sift.task.directory", dir)
	res, runErr := task.Run(ctx, dir)

	record = r.manifest.Tasks[idx]
	record.FinishedAt = r.clock.Now()
	if runErr != nil {
		span.RecordError(runErr)
		span.End()
		record.Status = domain.StatusFailed
		record.Error = runErr.Error()
		r.manifest.Tasks[idx] = record
		if err := r.persist(); err != nil {
			r.logger.Error(err)
		}
		return zero, runErr
	}
	span.End()

	record.Status = domain.StatusCompleted
	r.manifest.Tasks[idx] = record
	if err := r.persist(); err != nil {
		return zero, err
	}
	r.logger.Info(fmt.Sprintf("%s completed in %s", name, record.FinishedAt.Sub(record.StartedAt).Round(time.Millisecond)))
	return res, nil
}

// open creates the run root once. An existing root is never reused.
func (r *Runner) open() error {
	if r.manifest != nil {
		return nil
	}
	now := r.clock.Now()
	root := filepath.Join(r.opts.BaseDir, RootName(r.opts, now.Format(domain.TimestampLayout)))

	if err := os.MkdirAll(r.opts.BaseDir, domain.DirPerm); err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrRunDirCreateFailed, err), "path", r.opts.BaseDir)
	}
	if err := os.Mkdir(root, domain.DirPerm); err != nil {
		if errors.Is(err, os.ErrExist) {
			return zerr.With(zerr.Wrap(domain.ErrRunDirExists, root), "path", root)
		}
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrRunDirCreateFailed, err), "path", root)
	}

	r.manifest = &domain.RunManifest{
		RunID:        uuid.NewString(),
		Label:        r.opts.Label,
		Experimenter: r.opts.Experimenter,
		Root:         root,
		CreatedAt:    now,
		Tasks:        []domain.TaskRecord{},
	}
	r.logger.Info("experiment directory " + root)
	if r.opts.Definition != "" {
		definition, err := r.copyDefinition(root)
		if err != nil {
			return err
		}
		r.manifest.Definition = definition
	}
	return r.persist()
}

// copyDefinition stores the experiment file next to the manifest so the run reproduces from its root.
func (r *Runner) copyDefinition(root string) (*domain.DefinitionRecord, error) {
	source := r.opts.Definition
	name := filepath.Base(source)
	if name == domain.ManifestFileName {
		name = domain.DefinitionFileName
	}
	//nolint:gosec // Path is the experiment file chosen by the user
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrDefinitionCopyFailed, err), "path", source)
	}
	target := filepath.Join(root, name)
	if err := os.WriteFile(target, data, domain.FilePerm); err != nil {
		return nil, zerr.With(fmt.Errorf("%w: %w", domain.ErrDefinitionCopyFailed, err), "path", target)
	}

	record := &domain.DefinitionRecord{Source: source, File: name}
	sum, err := r.hasher.HashFile(target)
	if err != nil {
		r.logger.Warn(fmt.Sprintf("cannot fingerprint %s: %v", target, err))
		return record, nil
	}
	record.Fingerprint = sum
	return record, nil
}

// allocate creates the directory of the next task called name: name, name-2, name-3, ...
func (r *Runner) allocate(name string) (string, error) {
	r.used[name]++
	base := sanitize(name)
	if n := r.used[name]; n > 1 {
		base += "-" + strconv.Itoa(n)
	}
	dir := filepath.Join(r.manifest.Root, base)
	if err := os.Mkdir(dir, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.With(fmt.Errorf("%w: %w", domain.ErrRunDirCreateFailed, err), "path", dir), "task", name)
	}
	return dir, nil
}

// fingerprint hashes the task inputs and arguments. Failures are logged, not fatal: the task
// reports unreadable inputs itself.
func (r *Runner) fingerprint(task any, args map[string]any) (map[string]string, string) {
	var inputs map[string]string
	if d, ok := task.(ports.InputDeclarer); ok {
		for _, path := range d.Inputs() {
			if path == "" {
				continue
			}
			sum, err := r.hasher.HashFile(path)
			if err != nil {
				r.logger.Warn(fmt.Sprintf("cannot fingerprint %s: %v", path, err))
				continue
			}
			if inputs == nil {
				inputs = make(map[string]string)
			}
			inputs[path] = sum
		}
	}
	sum, err := r.hasher.HashArguments(args, inputs)
	if err != nil {
		r.logger.Warn(fmt.Sprintf("cannot fingerprint arguments: %v", err))
		return inputs, ""
	}
	return inputs, sum
}

func (r *Runner) persist() error {
	if err := r.store.Put(r.manifest.Root, *r.manifest); err != nil {
		if !errors.Is(err, domain.ErrManifestWriteFailed) {
			err = fmt.Errorf("%w: %w", domain.ErrManifestWriteFailed, err)
		}
		return zerr.With(err, "path", r.manifest.Root)
	}
	return nil
}

// sanitize keeps directory names portable.
func sanitize(s string) string {
	return strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '.', c == '-':
			return c
		default:
			return '_'
		}
	}, strings.TrimSpace(s))
}
