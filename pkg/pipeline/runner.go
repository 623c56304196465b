// Package pipeline turns a directory of timing files into choreography files.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"slidechoreo/pkg/choreographer"
	"slidechoreo/pkg/config"
	"slidechoreo/pkg/highlight"
	"slidechoreo/pkg/manifest"
	"slidechoreo/pkg/model"
	"slidechoreo/pkg/probe"
	"slidechoreo/pkg/session"
	"slidechoreo/pkg/store"
	"slidechoreo/pkg/timing"
	"slidechoreo/pkg/version"
)

// Ledger is the persistence the runner records into.
type Ledger interface {
	store.RunStore
	store.OutputStore
	store.WarningStore
}

// Summary counts what one run did with each timing file.
type Summary struct {
	RunID     string
	Generated int
	Unchanged int
	Skipped   int
	Failed    int
	Warnings  int
}

// Runner generates choreography for timing files.
type Runner struct {
	cfg      *config.Config
	ledger   Ledger // nil runs without change detection or history
	registry *choreographer.Registry
	opts     highlight.Options
	cues     config.CueTable
	force    bool
	logger   *slog.Logger
}

// NewRunner creates a runner. With force set, files are regenerated even when
// their inputs are unchanged since the last run.
func NewRunner(cfg *config.Config, ledger Ledger, force bool) *Runner {
	opts := highlight.OptionsFromConfig(cfg.Highlight)
	return &Runner{
		cfg:      cfg,
		ledger:   ledger,
		registry: choreographer.NewRegistry(highlight.NewBuilder(opts)),
		opts:     opts,
		cues:     cfg.CueTable(),
		force:    force,
		logger:   slog.With("component", "pipeline"),
	}
}

type outcome int

const (
	outcomeGenerated outcome = iota
	outcomeUnchanged
	outcomeSkipped
	outcomeFailed
)

// inputs is the read-only state shared by every worker of a run.
type inputs struct {
	manifest *manifest.Manifest
	session  *session.Store
	runID    string
}

// Check runs the input probes. Failures of critical probes wrap ErrMissingInput.
func (r *Runner) Check(ctx context.Context) error {
	p := r.cfg.Paths
	results := probe.Run(ctx, []probe.Probe{
		{Name: "Timings directory", Check: probe.DirExists(p.TimingsDir), Critical: true},
		{Name: "Narration manifest", Check: probe.FileExists(p.Manifest), Critical: true},
		{Name: "Session content", Check: probe.FileExists(p.Session), Critical: false},
		{Name: "Output directory", Check: probe.Writable(p.ChoreographyDir), Critical: true},
	})
	if err := probe.AnalyzeResults(results); err != nil {
		return fmt.Errorf("%w: %w", ErrMissingInput, err)
	}
	return nil
}

// Run processes files, or every *.json in the timings directory when none are
// given. Per-file problems are counted and logged; only missing inputs, ledger
// failures and cancellation end the run with an error.
func (r *Runner) Run(ctx context.Context, files ...string) (Summary, error) {
	var sum Summary
	if err := r.Check(ctx); err != nil {
		return sum, err
	}

	man, err := manifest.Load(r.cfg.Paths.Manifest)
	if err != nil {
		return sum, fmt.Errorf("%w: %w", ErrMissingInput, err)
	}
	sess, err := session.Load(r.cfg.Paths.Session)
	if err != nil {
		return sum, err
	}
	r.logger.Debug("Session loaded", "session_id", sess.Session().SessionID, "questions", sess.Len())

	if len(files) == 0 {
		files, err = r.discover()
		if err != nil {
			return sum, err
		}
	}

	started := time.Now()
	if r.ledger != nil {
		sum.RunID, err = r.ledger.StartRun(ctx, started)
		if err != nil {
			return sum, fmt.Errorf("ledger: %w", err)
		}
	}
	r.logger.Info("Run started", "run_id", sum.RunID, "files", len(files), "workers", r.cfg.Workers)

	in := inputs{manifest: man, session: sess, runID: sum.RunID}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)

	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, warnings := r.process(gctx, in, file)

			mu.Lock()
			defer mu.Unlock()
			switch res {
			case outcomeGenerated:
				sum.Generated++
			case outcomeUnchanged:
				sum.Unchanged++
			case outcomeSkipped:
				sum.Skipped++
			case outcomeFailed:
				sum.Failed++
			}
			sum.Warnings += warnings
			return nil
		})
	}
	runErr := g.Wait()

	if r.ledger != nil {
		status := model.RunCompleted
		if runErr != nil {
			status = model.RunFailed
		}
		rec := &model.RunRecord{
			ID:         sum.RunID,
			StartedAt:  started,
			FinishedAt: time.Now(),
			Status:     status,
			Generated:  sum.Generated,
			Unchanged:  sum.Unchanged,
			Skipped:    sum.Skipped,
			Failed:     sum.Failed,
			Warnings:   sum.Warnings,
		}
		// The run outlives a cancelled context long enough to be closed out
		if err := r.ledger.FinishRun(context.WithoutCancel(ctx), rec); err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("failed to finish run: %w", err))
		}
	}

	r.logger.Info("Run finished",
		"run_id", sum.RunID,
		"generated", sum.Generated,
		"unchanged", sum.Unchanged,
		"skipped", sum.Skipped,
		"failed", sum.Failed,
		"warnings", sum.Warnings,
		"elapsed", time.Since(started).Round(time.Millisecond),
	)
	return sum, runErr
}

// discover lists the timing files in a stable order.
func (r *Runner) discover() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(r.cfg.Paths.TimingsDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list timing files: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// process choreographs one timing file and returns the number of warnings raised.
func (r *Runner) process(ctx context.Context, in inputs, file string) (outcome, int) {
	stem := manifest.Stem(file)
	log := r.logger.With("file", filepath.Base(file))

	entry, ok := in.manifest.Match(stem)
	if !ok {
		log.Warn("Skipping timing file", "error", ErrUnmatchedManifestEntry)
		return outcomeSkipped, 0
	}
	slide, ok := resolveSlideType(entry, stem)
	if !ok {
		log.Warn("Skipping timing file", "error", fmt.Errorf("%w: %q", ErrUnknownSlideType, entry.SlideType))
		return outcomeSkipped, 0
	}
	log = log.With("slide_type", string(slide))

	rec, data, err := timing.Load(file)
	if err != nil {
		log.Error("Failed to load timing file", "error", err)
		return outcomeFailed, 0
	}

	q, warnings := r.question(in.session, slide, entry.QuestionID)
	cues := r.cues.Lookup(config.SlideKey{SlideType: string(slide), QuestionID: entry.QuestionID})

	dest := filepath.Join(r.cfg.Paths.ChoreographyDir, filepath.Base(file))
	hash := r.inputHash(data, slide, q, cues)

	if r.unchanged(ctx, file, dest, hash) {
		log.Debug("Inputs unchanged, keeping choreography")
		return outcomeUnchanged, 0
	}

	c, ok := r.registry.Get(slide)
	if !ok {
		log.Warn("Skipping timing file", "error", fmt.Errorf("%w: %q", ErrUnknownSlideType, slide))
		return outcomeSkipped, 0
	}

	input := choreographer.NewInput(rec, slide, r.cfg.Render.FPS)
	input.Question = q
	input.QuestionID = entry.QuestionID
	input.Cues = cues

	res, err := c.Choreograph(input)
	if err != nil {
		log.Error("Choreography failed", "error", err)
		return outcomeFailed, 0
	}
	warnings = append(warnings, res.Warnings...)

	out, err := Encode(res.Choreography)
	if err != nil {
		log.Error("Failed to encode choreography", "error", err)
		return outcomeFailed, len(warnings)
	}
	if err := writeAtomic(dest, out); err != nil {
		log.Error("Failed to write choreography", "path", dest, "error", err)
		return outcomeFailed, len(warnings)
	}

	for _, w := range warnings {
		log.Warn(w.Message, "kind", string(w.Kind), "block", w.BlockID)
	}
	r.record(ctx, log, in.runID, file, dest, hash, slide, warnings)

	log.Info("Choreography generated",
		"highlights", len(res.Choreography.Highlights),
		"animations", len(res.Choreography.Animations),
		"frames", res.Choreography.TotalDurationFrames,
	)
	return outcomeGenerated, len(warnings)
}

// resolveSlideType prefers the manifest's slide type and falls back to the file name.
func resolveSlideType(entry manifest.Entry, stem string) (model.SlideType, bool) {
	if st, ok := model.ParseSlideType(entry.SlideType); ok {
		return st, true
	}
	if entry.SlideType != "" {
		return "", false
	}
	return model.InferSlideType(stem)
}

// question picks the session content for a slide. Intro slides carry none, and
// the case overview is shared by every question, so it reads the first one.
func (r *Runner) question(s *session.Store, slide model.SlideType, id string) (*model.Question, []model.Warning) {
	switch slide {
	case model.SlideIntro:
		return nil, nil
	case model.SlideCase:
		return s.Question("")
	default:
		return s.Question(id)
	}
}

// hashInputs is everything besides the timing bytes that shapes an output.
type hashInputs struct {
	Version   string            `json:"version"`
	SlideType model.SlideType   `json:"slide_type"`
	FPS       int               `json:"fps"`
	Highlight highlight.Options `json:"highlight"`
	Cues      config.CuePhrases `json:"cues"`
	Question  string            `json:"question"`
}

func (r *Runner) inputHash(data []byte, slide model.SlideType, q *model.Question, cues config.CuePhrases) string {
	hi := hashInputs{
		Version:   version.Version,
		SlideType: slide,
		FPS:       r.cfg.Render.FPS,
		Highlight: r.opts,
		Cues:      cues,
	}
	if q != nil {
		// %+v reaches the unexported score and thinking-step fields
		hi.Question = fmt.Sprintf("%+v", *q)
	}
	meta, _ := json.Marshal(hi)

	h := sha256.New()
	h.Write(data)
	h.Write([]byte{0})
	h.Write(meta)
	return hex.EncodeToString(h.Sum(nil))
}

func (r *Runner) unchanged(ctx context.Context, file, dest, hash string) bool {
	if r.force || r.ledger == nil {
		return false
	}
	prev, err := r.ledger.GetOutput(ctx, file)
	if err != nil {
		r.logger.Warn("Failed to read output ledger", "file", filepath.Base(file), "error", err)
		return false
	}
	if prev == nil || prev.InputHash != hash {
		return false
	}
	_, err = os.Stat(dest)
	return err == nil
}

// record stores the output and its warnings. Ledger failures do not undo the
// written file; they only cost change detection on the next run.
func (r *Runner) record(ctx context.Context, log *slog.Logger, runID, file, dest, hash string, slide model.SlideType, warnings []model.Warning) {
	if r.ledger == nil {
		return
	}
	err := r.ledger.SaveOutput(ctx, &model.OutputRecord{
		TimingFile: file,
		InputHash:  hash,
		OutputPath: dest,
		SlideType:  slide,
		RunID:      runID,
		UpdatedAt:  time.Now(),
	})
	if err != nil {
		log.Error("Failed to record output", "error", err)
	}
	if len(warnings) == 0 {
		return
	}
	if err := r.ledger.SaveWarnings(ctx, runID, file, warnings); err != nil {
		log.Error("Failed to record warnings", "error", err)
	}
}
