package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/bodot/internal/archive"
	"git.home.luguber.info/inful/bodot/internal/config"
	"git.home.luguber.info/inful/bodot/internal/console"
	"git.home.luguber.info/inful/bodot/internal/engine"
	berrors "git.home.luguber.info/inful/bodot/internal/errors"
	"git.home.luguber.info/inful/bodot/internal/history"
	"git.home.luguber.info/inful/bodot/internal/logfields"
	"git.home.luguber.info/inful/bodot/internal/metrics"
	"git.home.luguber.info/inful/bodot/internal/notify"
	"git.home.luguber.info/inful/bodot/internal/presets"
	"git.home.luguber.info/inful/bodot/internal/retry"
	"git.home.luguber.info/inful/bodot/internal/vcs"
)

// Options are the per-invocation switches of a build.
type Options struct {
	WorkDir   string
	Overwrite bool
	Zip       bool
}

// Builder runs the export pipeline. Collaborators default to no-op
// implementations and are replaced through the With* methods.
type Builder struct {
	opts      Options
	store     *config.Store
	runner    engine.Runner
	recorder  metrics.Recorder
	history   history.Store
	publisher notify.Publisher
	printer   *console.Printer
	policy    *retry.Policy
	newID     func() string
	now       func() time.Time
}

// NewBuilder creates a builder for the project in opts.WorkDir.
func NewBuilder(opts Options, runner engine.Runner) *Builder {
	if opts.WorkDir == "" {
		opts.WorkDir = "."
	}
	return &Builder{
		opts:      opts,
		store:     config.NewStore(opts.WorkDir),
		runner:    runner,
		recorder:  metrics.NoopRecorder{},
		history:   history.NoopStore{},
		publisher: notify.NoopPublisher{},
		printer:   console.NewPlain(io.Discard),
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// WithRecorder sets the metrics recorder.
func (b *Builder) WithRecorder(r metrics.Recorder) *Builder {
	if r != nil {
		b.recorder = r
	}
	return b
}

// WithHistory sets the build ledger.
func (b *Builder) WithHistory(s history.Store) *Builder {
	if s != nil {
		b.history = s
	}
	return b
}

// WithPublisher sets the notification publisher.
func (b *Builder) WithPublisher(p notify.Publisher) *Builder {
	if p != nil {
		b.publisher = p
	}
	return b
}

// WithPrinter sets where user-facing lines are written.
func (b *Builder) WithPrinter(p *console.Printer) *Builder {
	if p != nil {
		b.printer = p
	}
	return b
}

// WithRetryPolicy overrides the policy derived from the project record.
func (b *Builder) WithRetryPolicy(p retry.Policy) *Builder {
	b.policy = &p
	return b
}

// run carries the state of one Run call.
type run struct {
	project *config.Project
	layout  Layout
	presets []presets.Preset
	engine  string
	timeout time.Duration
	policy  retry.Policy
	events  *history.Recorder
	report  *Report
	log     *slog.Logger
}

// Run builds every preset of project. The returned report is non-nil even on
// failure and describes how far the build got.
func (b *Builder) Run(ctx context.Context, project *config.Project) (*Report, error) {
	start := b.now()
	report := &Report{
		BuildID: b.newID(),
		Version: project.SemanticVersion(),
		Started: start,
		Stages:  make(map[string]time.Duration),
	}
	if commit, err := vcs.HeadCommit(b.opts.WorkDir); err == nil {
		report.Commit = commit
	} else if !errors.Is(err, vcs.ErrNotRepository) {
		slog.Debug("Could not resolve HEAD commit", logfields.Error(err))
	}

	r := &run{
		project: project,
		layout:  NewLayout(b.opts.WorkDir, project),
		events:  history.NewRecorder(b.history, report.BuildID, report.Version),
		report:  report,
		log: slog.With(
			logfields.BuildID(report.BuildID),
			logfields.Version(report.Version),
		),
	}
	report.Root = r.layout.Root()

	err := b.execute(ctx, r)
	report.Duration = b.now().Sub(start)
	b.recorder.ObserveBuildDuration(report.Duration)

	switch {
	case err == nil:
		report.Outcome = metrics.BuildOutcomeSuccess
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		report.Outcome = metrics.BuildOutcomeAborted
	default:
		report.Outcome = metrics.BuildOutcomeFailed
	}
	b.recorder.IncBuildOutcome(report.Outcome)

	if err != nil {
		r.log.Error("Build failed", logfields.Error(err))
	} else {
		r.log.Info("Build complete",
			logfields.DurationMS(float64(report.Duration.Milliseconds())),
			slog.Int("presets", len(report.Presets)))
	}
	b.announce(ctx, r)
	return report, err
}

func (b *Builder) execute(ctx context.Context, r *run) error {
	if err := b.stage(r, StagePreconditions, func() error { return b.checkPreconditions(r) }); err != nil {
		return b.fail(ctx, r, StagePreconditions, err)
	}
	if err := b.stage(r, StageLayout, func() error { return b.prepare(r) }); err != nil {
		return b.fail(ctx, r, StageLayout, err)
	}

	names := presets.Names(r.presets)
	b.record(ctx, r, history.TypeBuildStarted, history.BuildStarted{
		Presets:   names,
		Overwrite: b.opts.Overwrite,
		Zip:       b.opts.Zip,
		Commit:    r.report.Commit,
	})
	b.printer.Info("Exporting for presets: " + strings.Join(names, ","))

	for _, p := range r.presets {
		if err := ctx.Err(); err != nil {
			return b.fail(ctx, r, StageExport, berrors.Wrap(err, berrors.CategoryRuntime, berrors.SeverityFatal, "build cancelled"))
		}
		stage, err := b.buildPreset(ctx, r, p)
		if err != nil {
			return b.fail(ctx, r, stage, err)
		}
	}

	failed := r.report.Failed()
	if len(failed) > 0 {
		names := make([]string, len(failed))
		for i, f := range failed {
			names[i] = f.Preset.Name
		}
		err := berrors.Wrap(ErrExportFailed, berrors.CategoryEngine, berrors.SeverityFatal,
			fmt.Sprintf("%d of %d exports failed: %s", len(failed), len(r.presets), strings.Join(names, ", ")))
		return b.fail(ctx, r, StageExport, err)
	}

	if err := b.stage(r, StageFinalize, func() error { return b.finalize(r) }); err != nil {
		return b.fail(ctx, r, StageFinalize, err)
	}

	b.record(ctx, r, history.TypeBuildCompleted, history.BuildCompleted{
		Presets:     len(r.report.Presets),
		DurationMS:  b.now().Sub(r.report.Started).Milliseconds(),
		PatchBumped: r.report.PatchBumped,
	})
	return nil
}

// stage times fn and records its result.
func (b *Builder) stage(r *run, name string, fn func() error) error {
	start := b.now()
	err := fn()
	d := b.now().Sub(start)
	r.report.addStage(name, d)
	b.recorder.ObserveStageDuration(name, d)
	if err != nil {
		b.recorder.IncStageResult(name, metrics.ResultFatal)
		return err
	}
	b.recorder.IncStageResult(name, metrics.ResultSuccess)
	return nil
}

func (b *Builder) checkPreconditions(r *run) error {
	if !b.store.Exists() {
		return berrors.ConfigNotFound(b.store.Path())
	}
	if err := b.store.Check(); err != nil {
		return berrors.ConfigUnreadable(b.store.Path(), err)
	}

	presetsPath := b.resolve(presets.FileName)
	if info, err := os.Stat(presetsPath); err != nil || info.IsDir() {
		return berrors.PresetsFileNotFound(presetsPath)
	}
	list, err := presets.ReadFile(presetsPath)
	if err != nil {
		if errors.Is(err, presets.ErrNoPresetsFound) {
			return berrors.NoPresetsFound(err)
		}
		return berrors.FileSystemError("read "+presets.FileName, err)
	}
	r.presets = list

	root := r.layout.Root()
	if _, err := os.Stat(root); err == nil {
		if !b.opts.Overwrite {
			return berrors.OutputExists(root)
		}
		b.printer.Warn("Overwriting " + r.report.Version)
		r.log.Warn("Removing existing build output", logfields.Path(root))
		if err := os.RemoveAll(root); err != nil {
			return berrors.FileSystemError("remove "+root, err)
		}
	} else if !os.IsNotExist(err) {
		return berrors.FileSystemError("stat "+root, err)
	}
	return nil
}

// prepare resolves the engine invocation settings from the project record.
func (b *Builder) prepare(r *run) error {
	enginePath, err := r.project.ResolveEnginePath()
	if err != nil {
		return berrors.WrapError(err, berrors.CategoryConfig, "invalid engine binary path")
	}
	r.engine = enginePath
	if checker, ok := b.runner.(engine.Checker); ok {
		if err := checker.CheckEngine(enginePath); err != nil {
			return berrors.EngineNotFound(enginePath, err)
		}
	}

	timeout, err := r.project.ExportTimeoutDuration()
	if err != nil {
		return berrors.WrapError(err, berrors.CategoryConfig, "invalid export timeout")
	}
	r.timeout = timeout

	if b.policy != nil {
		r.policy = *b.policy
	} else {
		r.policy = retry.NewPolicy(retry.Mode(r.project.ExportRetryBackoff), 0, 0, r.project.ExportRetries)
	}
	if err := r.policy.Validate(); err != nil {
		return berrors.WrapError(err, berrors.CategoryConfig, "invalid export retry policy")
	}
	return nil
}

// buildPreset runs export, asset copy and archive for one preset. The
// returned stage names where a fatal error happened.
func (b *Builder) buildPreset(ctx context.Context, r *run, p presets.Preset) (string, error) {
	log := r.log.With(logfields.Preset(p.Name), logfields.Slug(p.Slug))
	b.printer.Begin(p.Name)
	defer b.printer.End(p.Name)

	dir := r.layout.PresetDir(p.Slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return StageExport, berrors.FileSystemError("create "+dir, err)
	}

	res := PresetResult{Preset: p, Artifact: r.layout.ArtifactPath(p.Slug)}
	exportStart := b.now()
	err := b.stage(r, StageExport, func() error {
		return b.export(ctx, r, &res, log)
	})
	res.Duration = b.now().Sub(exportStart)
	b.recorder.ObserveExportDuration(p.Name, res.Duration, err == nil && res.Succeeded())
	if err != nil {
		r.report.Presets = append(r.report.Presets, res)
		b.recordPreset(ctx, r, res)
		return StageExport, err
	}

	if !res.Succeeded() {
		r.report.Presets = append(r.report.Presets, res)
		b.recordPreset(ctx, r, res)
		b.printer.Warn(fmt.Sprintf("Export of %s exited with code %d", p.Name, res.ExitCode))
		log.Warn("Export failed", logfields.ExitCode(res.ExitCode), logfields.Attempt(res.Attempts))
		if !r.project.ContinueOnExportFailure {
			return StageExport, berrors.ExportFailed(p.Name, res.ExitCode)
		}
		return "", nil
	}
	log.Info("Export succeeded", logfields.Path(res.Artifact),
		logfields.DurationMS(float64(res.Duration.Milliseconds())))

	if err := b.stage(r, StageAssets, func() error {
		return b.copyAssets(dir, r.project.FilesToCopyPostBuild, r.project.DirectoriesToCopyPostBuild, &res)
	}); err != nil {
		r.report.Presets = append(r.report.Presets, res)
		return StageAssets, err
	}

	if b.opts.Zip {
		if err := b.stage(r, StageArchive, func() error { return b.archive(r, &res) }); err != nil {
			r.report.Presets = append(r.report.Presets, res)
			return StageArchive, err
		}
	}

	r.report.Presets = append(r.report.Presets, res)
	b.recordPreset(ctx, r, res)
	return "", nil
}

// export invokes the runner, retrying non-zero exits per the retry policy.
// A non-zero final exit is reported through res.ExitCode, not as an error.
func (b *Builder) export(ctx context.Context, r *run, res *PresetResult, log *slog.Logger) error {
	req := engine.ExportRequest{
		EnginePath: r.engine,
		Preset:     res.Preset.Name,
		OutputPath: res.Artifact,
	}
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			b.recorder.IncExportRetry(res.Preset.Name)
			log.Info("Retrying export", logfields.Attempt(attempt+1))
			if err := r.policy.Wait(ctx, attempt); err != nil {
				return berrors.Wrap(err, berrors.CategoryRuntime, berrors.SeverityFatal, "build cancelled")
			}
		}
		res.Attempts = attempt + 1

		exportCtx, cancel := ctx, context.CancelFunc(func() {})
		if r.timeout > 0 {
			exportCtx, cancel = context.WithTimeout(ctx, r.timeout)
		}
		out, err := b.runner.RunExport(exportCtx, req)
		cancel()
		res.ExitCode = out.ExitCode

		switch {
		case err == nil && out.ExitCode == 0:
			return nil
		case ctx.Err() != nil:
			return berrors.Wrap(ctx.Err(), berrors.CategoryRuntime, berrors.SeverityFatal, "build cancelled")
		case errors.Is(err, engine.ErrEngineNotFound):
			return berrors.EngineNotFound(r.engine, err)
		case err != nil:
			log.Warn("Export attempt failed", logfields.Error(err), logfields.Attempt(attempt+1))
			if res.ExitCode == 0 {
				res.ExitCode = -1
			}
		}

		if attempt >= r.policy.MaxRetries {
			return nil
		}
	}
}

// archive zips the preset folder beside the version root, then moves the
// zip into the preset folder.
func (b *Builder) archive(r *run, res *PresetResult) error {
	slug := res.Preset.Slug
	b.printer.Out("Creating zip archive...")
	staging := r.layout.ArchiveStagingPath(slug)
	if err := archive.ZipDir(r.layout.PresetDir(slug), staging); err != nil {
		return berrors.FileSystemError("zip "+slug, err)
	}
	final := r.layout.ArchivePath(slug)
	if err := os.Rename(staging, final); err != nil {
		return berrors.FileSystemError("move "+staging, err)
	}
	res.Archive = final
	return nil
}

func (b *Builder) finalize(r *run) error {
	if !r.project.AutoIncrementPatch || b.opts.Overwrite {
		return nil
	}
	r.project.IncrementPatch(1)
	if err := b.store.Save(r.project); err != nil {
		return berrors.ConfigWriteFailed(b.store.Path(), err)
	}
	r.report.PatchBumped = true
	r.log.Info("Patch version incremented", slog.String("next", r.project.SemanticVersion()))
	return nil
}

// fail records the failing stage and returns err unchanged.
func (b *Builder) fail(ctx context.Context, r *run, stage string, err error) error {
	r.log.Debug("Stage failed", logfields.Stage(stage), logfields.Error(err))
	b.record(ctx, r, history.TypeBuildFailed, history.BuildFailed{Stage: stage, Error: err.Error()})
	return err
}

func (b *Builder) recordPreset(ctx context.Context, r *run, res PresetResult) {
	b.record(ctx, r, history.TypePresetExported, history.PresetExported{
		Preset:     res.Preset.Name,
		Slug:       res.Preset.Slug,
		ExitCode:   res.ExitCode,
		DurationMS: res.Duration.Milliseconds(),
		Artifact:   res.Artifact,
		Archive:    res.Archive,
	})
}

// record appends a history event. Ledger failures never fail the build.
func (b *Builder) record(ctx context.Context, r *run, eventType string, payload any) {
	if err := r.events.Record(context.WithoutCancel(ctx), eventType, payload); err != nil {
		r.log.Warn("Failed to record build event", slog.String("type", eventType), logfields.Error(err))
	}
}

// announce publishes the build outcome. Publish failures are logged only.
func (b *Builder) announce(ctx context.Context, r *run) {
	event := notify.BuildEvent{
		BuildID:   r.report.BuildID,
		Project:   r.project.ProjectName,
		Version:   r.report.Version,
		Outcome:   string(r.report.Outcome),
		Commit:    r.report.Commit,
		Timestamp: b.now().UTC(),
	}
	for _, p := range r.report.Presets {
		event.Presets = append(event.Presets, notify.PresetEntry{
			Name:     p.Preset.Name,
			Slug:     p.Preset.Slug,
			Artifact: p.Artifact,
			Archive:  p.Archive,
			ExitCode: p.ExitCode,
		})
	}
	if err := b.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		r.log.Warn("Failed to publish build notification", logfields.Error(err))
	}
}
