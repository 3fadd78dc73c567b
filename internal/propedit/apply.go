package propedit

import (
	"context"
	"errors"

	"trackman/internal/logging"
	"trackman/internal/plan"
)

// Elevator supplies credentials for retrying mutations with elevated
// privileges. A nil Elevator means permission failures are terminal for
// the affected file.
type Elevator interface {
	Secret(ctx context.Context) ([]byte, error)
}

// Options controls how a plan is applied.
type Options struct {
	// DryRun logs every command without executing anything.
	DryRun bool
	// Elevator, when set, is consulted once per batch on the first
	// permission failure; all later mutations on affected files run
	// elevated with the same secret.
	Elevator Elevator
	// Progress, when set, is called after each file finishes.
	Progress func(FileResult)
}

// FileResult records the outcome for one file of a batch.
type FileResult struct {
	Path     string
	Applied  int
	Elevated bool
	Err      error
}

// Report summarizes a batch application.
type Report struct {
	DryRun  bool
	Results []FileResult
}

// Succeeded returns the paths of files whose mutations all applied. A dry
// run succeeds at nothing.
func (r Report) Succeeded() []string {
	if r.DryRun {
		return nil
	}
	var paths []string
	for _, result := range r.Results {
		if result.Err == nil {
			paths = append(paths, result.Path)
		}
	}
	return paths
}

// Failed returns the per-file results that ended in an error.
func (r Report) Failed() []FileResult {
	var failed []FileResult
	for _, result := range r.Results {
		if result.Err != nil {
			failed = append(failed, result)
		}
	}
	return failed
}

// Apply executes a plan file by file. A failing file is recorded and the
// batch moves on; one broken file never aborts the rest. In dry-run mode
// every command is logged and nothing runs.
func (c *Client) Apply(ctx context.Context, mutations []plan.Mutation, opts Options) Report {
	report := Report{DryRun: opts.DryRun}
	byFile := plan.ByFile(mutations)

	var secret []byte
	var secretErr error
	secretFetched := false
	fetchSecret := func() ([]byte, error) {
		if !secretFetched {
			secretFetched = true
			secret, secretErr = opts.Elevator.Secret(ctx)
		}
		return secret, secretErr
	}
	defer func() {
		for i := range secret {
			secret[i] = 0
		}
	}()

	for _, path := range plan.Files(mutations) {
		fileMutations := byFile[path]

		if opts.DryRun {
			for _, m := range fileMutations {
				c.logger.Info("dry run", logging.String("command", c.CommandLine(m)))
			}
			result := FileResult{Path: path}
			report.Results = append(report.Results, result)
			if opts.Progress != nil {
				opts.Progress(result)
			}
			continue
		}

		result := c.applyFile(ctx, path, fileMutations, opts, fetchSecret)
		if result.Err != nil {
			c.logger.Error("file mutation failed",
				logging.String(logging.FieldFile, path),
				logging.Error(result.Err))
		}
		report.Results = append(report.Results, result)
		if opts.Progress != nil {
			opts.Progress(result)
		}
	}
	return report
}

func (c *Client) applyFile(ctx context.Context, path string, mutations []plan.Mutation, opts Options, fetchSecret func() ([]byte, error)) FileResult {
	result := FileResult{Path: path}

	// Probe writability up front so an unwritable file goes straight to
	// elevation instead of burning a failed run per mutation.
	if !c.Writable(path) {
		if opts.Elevator == nil {
			result.Err = ErrPermissionDenied
			return result
		}
		result.Elevated = true
	}

	for _, m := range mutations {
		var err error
		if result.Elevated {
			var sudoSecret []byte
			sudoSecret, err = fetchSecret()
			if err == nil {
				err = c.SetFlagElevated(ctx, m, sudoSecret)
			}
		} else {
			err = c.SetFlag(ctx, m)
			if errors.Is(err, ErrPermissionDenied) && opts.Elevator != nil {
				var sudoSecret []byte
				sudoSecret, err = fetchSecret()
				if err == nil {
					result.Elevated = true
					err = c.SetFlagElevated(ctx, m, sudoSecret)
				}
			}
		}
		if err != nil {
			result.Err = err
			return result
		}
		result.Applied++
	}
	return result
}
