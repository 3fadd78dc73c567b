package bulkops

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"trackman/internal/history"
	"trackman/internal/logging"
	"trackman/internal/media"
	"trackman/internal/plan"
	"trackman/internal/propedit"
	"trackman/internal/showcache"
	"trackman/internal/textutil"
	"trackman/internal/tracks"
)

var (
	// ErrCancelled indicates the user backed out at a prompt. Nothing was
	// modified.
	ErrCancelled = errors.New("operation cancelled")

	// ErrNoTracks indicates no file in the batch carries a track of the
	// requested type.
	ErrNoTracks = errors.New("no tracks of the requested type")

	// ErrLocked indicates another operation already holds the show lock.
	ErrLocked = errors.New("show is locked by another operation")
)

// excludedPreviewLimit caps how many excluded files the confirmation
// summary lists; the rest collapse into a remainder count.
const excludedPreviewLimit = 10

// Decision is the user's answer at the confirmation prompt.
type Decision int

const (
	Cancel Decision = iota
	Proceed
	ProceedDryRun
	// ProceedWithoutElevation runs the batch but drops every file that
	// would need elevated privileges.
	ProceedWithoutElevation
)

// Prompter supplies the interactive decisions of a run.
type Prompter interface {
	// SelectTrack picks one logical track from the grouped identities.
	// Returning ok=false cancels the operation.
	SelectTrack(grouped []tracks.LogicalTrack) (tracks.Identity, bool)
	// Confirm presents the summary and asks whether to proceed.
	Confirm(summary Summary) Decision
}

// Summary describes what a confirmed run would do.
type Summary struct {
	Show         string
	TrackType    media.TrackType
	Flags        plan.FlagSet
	Identity     tracks.Identity
	FilesWith    []string
	FilesWithout []string
	// Writable and ElevationRequired partition the planned files by
	// whether the current user can write them in place.
	Writable          []string
	ElevationRequired []string
	Mutations         int
}

// Preview truncates a file list for display, returning at most
// excludedPreviewLimit entries and the count of omitted ones.
func Preview(files []string) ([]string, int) {
	if len(files) <= excludedPreviewLimit {
		return files, 0
	}
	return files[:excludedPreviewLimit], len(files) - excludedPreviewLimit
}

// ExcludedPreview returns at most excludedPreviewLimit excluded filenames.
func (s Summary) ExcludedPreview() []string {
	if len(s.FilesWithout) <= excludedPreviewLimit {
		return s.FilesWithout
	}
	return s.FilesWithout[:excludedPreviewLimit]
}

// ExcludedRemainder reports how many excluded files the preview omits.
func (s Summary) ExcludedRemainder() int {
	if len(s.FilesWithout) <= excludedPreviewLimit {
		return 0
	}
	return len(s.FilesWithout) - excludedPreviewLimit
}

// Request names the batch and what to change on it. Files are absolute
// paths in display order.
type Request struct {
	Show      string
	Files     []string
	TrackType media.TrackType
	Flags     plan.FlagSet
	// DryRun forces a dry run regardless of the confirmation answer.
	DryRun bool
	// Elevator, when set, lets the executor retry unwritable files with
	// elevated privileges.
	Elevator propedit.Elevator
	// Progress, when set, is called after each file finishes.
	Progress func(propedit.FileResult)
}

// Result reports what a run did.
type Result struct {
	OperationID string
	DryRun      bool
	PlanSize    int
	Report      propedit.Report
	// ProbeErrors lists files that could not be inspected and were left
	// out of the batch.
	ProbeErrors map[string]error
	// SkippedElevation lists files dropped because they need elevated
	// privileges the user declined to supply.
	SkippedElevation []string
	// Refreshed counts cache entries updated after successful mutations.
	Refreshed int
}

// Orchestrator wires the cache, the flag editor, and the journal together.
type Orchestrator struct {
	cache   *showcache.Store
	client  *propedit.Client
	journal *history.Store
	lockDir string
	logger  *slog.Logger
}

// New builds an orchestrator. The journal may be nil, in which case runs
// are not recorded. Lock files are created under lockDir.
func New(cache *showcache.Store, client *propedit.Client, journal *history.Store, lockDir string, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		cache:   cache,
		client:  client,
		journal: journal,
		lockDir: lockDir,
		logger:  logging.NewComponentLogger(logger, "bulkops"),
	}
}

// Run drives one bulk operation from collection through execution. An
// empty plan (every file already in the desired state) returns a zero
// Result without prompting for confirmation.
func (o *Orchestrator) Run(ctx context.Context, req Request, prompter Prompter) (Result, error) {
	result := Result{ProbeErrors: make(map[string]error)}

	snapshots := o.collect(ctx, req, result.ProbeErrors)
	grouped := tracks.Group(snapshots, req.TrackType)
	if len(grouped) == 0 {
		return result, fmt.Errorf("%w: %s", ErrNoTracks, req.TrackType)
	}

	identity, ok := prompter.SelectTrack(grouped)
	if !ok {
		return result, ErrCancelled
	}

	filesWith, filesWithout := tracks.Partition(snapshots, identity, req.TrackType)
	mutations := plan.Build(filesWith, req.TrackType, identity, req.Flags, o.logger)
	result.PlanSize = len(mutations)
	if len(mutations) == 0 {
		o.logger.Info("nothing to change",
			logging.String(logging.FieldShow, req.Show),
			logging.String("identity", identity.String()))
		return result, nil
	}

	writable, needsElevation := o.client.PartitionWritable(plan.Files(mutations))

	summary := Summary{
		Show:              req.Show,
		TrackType:         req.TrackType,
		Flags:             req.Flags,
		Identity:          identity,
		FilesWith:         paths(filesWith),
		FilesWithout:      paths(filesWithout),
		Writable:          writable,
		ElevationRequired: needsElevation,
		Mutations:         len(mutations),
	}

	decision := prompter.Confirm(summary)
	if decision == Cancel {
		return result, ErrCancelled
	}

	elevator := req.Elevator
	if decision == ProceedWithoutElevation && len(needsElevation) > 0 {
		elevator = nil
		result.SkippedElevation = needsElevation
		keep := make(map[string]bool, len(writable))
		for _, path := range writable {
			keep[path] = true
		}
		kept := mutations[:0]
		for _, m := range mutations {
			if keep[m.FilePath] {
				kept = append(kept, m)
			}
		}
		mutations = kept
		result.PlanSize = len(mutations)
		if len(mutations) == 0 {
			o.logger.Info("every planned file needs elevation, nothing to do",
				logging.String(logging.FieldShow, req.Show))
			return result, nil
		}
	}

	result.OperationID = uuid.NewString()
	result.DryRun = req.DryRun || decision == ProceedDryRun

	if result.DryRun {
		result.Report = o.client.Apply(ctx, mutations, propedit.Options{
			DryRun:   true,
			Progress: req.Progress,
		})
		o.record(ctx, req.Show, result.OperationID, mutations, result.Report)
		return result, nil
	}

	lock, err := o.acquireLock(req.Show)
	if err != nil {
		return result, err
	}
	defer func() { _ = lock.Unlock() }()

	// Snapshot the cache before touching any file so a bad batch can be
	// rolled back to known-good metadata.
	if err := o.cache.Backup(req.Show); err != nil {
		return result, fmt.Errorf("back up cache before mutation: %w", err)
	}

	result.Report = o.client.Apply(ctx, mutations, propedit.Options{
		Elevator: elevator,
		Progress: req.Progress,
	})
	o.record(ctx, req.Show, result.OperationID, mutations, result.Report)

	// Cache refresh runs only on the non-elevated path; elevated files
	// stay stale until an explicit refresh.
	for _, fileResult := range result.Report.Results {
		if fileResult.Err != nil || fileResult.Elevated {
			continue
		}
		if _, err := o.cache.UpdateEpisode(ctx, req.Show, fileResult.Path); err != nil {
			o.logger.Warn("cache refresh failed",
				logging.String(logging.FieldFile, fileResult.Path),
				logging.Error(err))
			continue
		}
		result.Refreshed++
	}

	o.logger.Info("bulk operation finished",
		logging.String(logging.FieldShow, req.Show),
		logging.String("operation_id", result.OperationID),
		logging.Int("mutations", len(mutations)),
		logging.Int("failed_files", len(result.Report.Failed())))
	return result, nil
}

// collect gathers a snapshot per file, consulting the cache first. Files
// that cannot be probed are recorded and left out.
func (o *Orchestrator) collect(ctx context.Context, req Request, probeErrors map[string]error) []tracks.FileSnapshot {
	snapshots := make([]tracks.FileSnapshot, 0, len(req.Files))
	for _, path := range req.Files {
		snap, err := o.cache.SnapshotFor(ctx, req.Show, path)
		if err != nil {
			probeErrors[path] = err
			o.logger.Warn("file skipped, probe failed",
				logging.String(logging.FieldFile, path),
				logging.Error(err))
			continue
		}
		snapshots = append(snapshots, tracks.FileSnapshot{Path: path, Snapshot: snap})
	}
	return snapshots
}

func (o *Orchestrator) acquireLock(show string) (*flock.Flock, error) {
	if err := os.MkdirAll(o.lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(filepath.Join(o.lockDir, textutil.SanitizeFileName(show)+".lock"))
	held, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire show lock: %w", err)
	}
	if !held {
		return nil, fmt.Errorf("%w: %s", ErrLocked, show)
	}
	return lock, nil
}

// record journals every mutation of the batch with its per-file outcome.
func (o *Orchestrator) record(ctx context.Context, show, operationID string, mutations []plan.Mutation, report propedit.Report) {
	if o.journal == nil {
		return
	}

	outcomeByFile := make(map[string]history.Entry, len(report.Results))
	for _, fileResult := range report.Results {
		entry := history.Entry{Outcome: history.OutcomeApplied}
		if report.DryRun {
			entry.Outcome = history.OutcomeDryRun
		} else if fileResult.Err != nil {
			entry.Outcome = history.OutcomeFailed
			entry.Detail = fileResult.Err.Error()
		}
		outcomeByFile[fileResult.Path] = entry
	}

	entries := make([]history.Entry, 0, len(mutations))
	for _, m := range mutations {
		outcome := outcomeByFile[m.FilePath]
		entries = append(entries, history.Entry{
			OperationID: operationID,
			Show:        show,
			FilePath:    m.FilePath,
			TrackID:     m.TrackID,
			Flag:        string(m.Flag),
			Value:       m.Value,
			Outcome:     outcome.Outcome,
			Detail:      outcome.Detail,
		})
	}
	if err := o.journal.RecordBatch(ctx, entries); err != nil {
		o.logger.Warn("journal write failed", logging.Error(err))
	}
}

func paths(files []tracks.FileSnapshot) []string {
	var out []string
	for _, file := range files {
		out = append(out, file.Path)
	}
	return out
}
