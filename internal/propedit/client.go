// Package propedit drives the mkvpropedit binary to flip default and
// forced flags on Matroska tracks in place.
package propedit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"trackman/internal/logging"
	"trackman/internal/plan"
)

var (
	// ErrPermissionDenied indicates the target file is not writable by the
	// current user. Callers may retry the mutation elevated.
	ErrPermissionDenied = errors.New("file not writable")

	// ErrMutation indicates mkvpropedit failed for any other reason.
	ErrMutation = errors.New("mutation failed")
)

// mkvpropedit prints this when it cannot open the target read-write. It is
// the only reliable signal to distinguish permission problems from other
// failures, since the exit code is the same.
const permissionSignature = "The file could not be opened for writing"

// Executor runs an external command with optional stdin and captured
// output streams.
type Executor interface {
	Run(ctx context.Context, name string, args []string, stdin io.Reader) (stdout, stderr []byte, err error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = stdin
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithWritableProbe overrides the file writability check.
func WithWritableProbe(probe func(path string) error) Option {
	return func(c *Client) {
		if probe != nil {
			c.writable = probe
		}
	}
}

// Client wraps one mkvpropedit binary.
type Client struct {
	binary   string
	logger   *slog.Logger
	exec     Executor
	writable func(path string) error
}

// New constructs a client. An empty binary name falls back to
// "mkvpropedit" resolved via PATH.
func New(binary string, logger *slog.Logger, opts ...Option) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "mkvpropedit"
	}
	client := &Client{
		binary: binary,
		logger: logging.NewComponentLogger(logger, "propedit"),
		exec:   commandExecutor{},
		writable: func(path string) error {
			return unix.Access(path, unix.W_OK)
		},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Writable reports whether the current user can modify the file in place.
func (c *Client) Writable(path string) bool {
	return c.writable(path) == nil
}

// PartitionWritable splits paths into those the current user can write and
// those that would need elevated privileges, preserving order.
func (c *Client) PartitionWritable(paths []string) (writable, needsElevation []string) {
	for _, path := range paths {
		if c.Writable(path) {
			writable = append(writable, path)
		} else {
			needsElevation = append(needsElevation, path)
		}
	}
	return writable, needsElevation
}

// args builds the mkvpropedit invocation for one mutation.
func (c *Client) args(m plan.Mutation) []string {
	value := 0
	if m.Value {
		value = 1
	}
	return []string{
		m.FilePath,
		"--edit", fmt.Sprintf("track:@%d", m.TrackID),
		"--set", fmt.Sprintf("%s=%d", m.Flag, value),
	}
}

// CommandLine renders the full command for one mutation, for dry-run
// display and logs.
func (c *Client) CommandLine(m plan.Mutation) string {
	return c.binary + " " + strings.Join(c.args(m), " ")
}

// SetFlag applies one mutation as the current user.
func (c *Client) SetFlag(ctx context.Context, m plan.Mutation) error {
	_, stderr, err := c.exec.Run(ctx, c.binary, c.args(m), nil)
	return c.classify(m, stderr, err)
}

// SetFlagElevated applies one mutation through sudo, feeding the secret on
// stdin. The secret is not copied and not logged.
func (c *Client) SetFlagElevated(ctx context.Context, m plan.Mutation, secret []byte) error {
	args := append([]string{"-S", "-p", "", c.binary}, c.args(m)...)
	stdin := io.MultiReader(bytes.NewReader(secret), strings.NewReader("\n"))
	_, stderr, err := c.exec.Run(ctx, "sudo", args, stdin)
	return c.classify(m, stderr, err)
}

func (c *Client) classify(m plan.Mutation, stderr []byte, err error) error {
	if err == nil {
		c.logger.Debug("flag set",
			logging.String(logging.FieldFile, m.FilePath),
			logging.Int64(logging.FieldTrackID, m.TrackID),
			logging.String(logging.FieldFlag, string(m.Flag)),
			logging.Bool("value", m.Value))
		return nil
	}
	detail := strings.TrimSpace(string(stderr))
	if strings.Contains(detail, permissionSignature) {
		return fmt.Errorf("%w: %s", ErrPermissionDenied, m.FilePath)
	}
	if detail != "" {
		return fmt.Errorf("%w: %s: %s", ErrMutation, m.FilePath, detail)
	}
	return fmt.Errorf("%w: %s: %v", ErrMutation, m.FilePath, err)
}
