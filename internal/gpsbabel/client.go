// Package gpsbabel wraps the external gpsbabel CLI used to translate GPS
// track formats into GPX.
package gpsbabel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// formatTags maps source file extensions to gpsbabel input format tags.
var formatTags = map[string]string{
	".fit": "garmin_fit",
	".tcx": "gtrnctr",
}

// ErrUnsupportedFormat marks a source file whose format gpsbabel is not
// asked to handle.
var ErrUnsupportedFormat = errors.New("unsupported track format")

// FormatTag returns the gpsbabel input format tag for a source extension
// such as ".fit".
func FormatTag(ext string) (string, error) {
	tag, ok := formatTags[strings.ToLower(ext)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	return tag, nil
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (stderr string, err error)
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

// Client invokes gpsbabel once per file.
type Client struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// New constructs a gpsbabel client. timeoutSeconds bounds each invocation;
// zero disables the bound.
func New(binary string, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("gpsbabel binary required")
	}
	client := &Client{
		binary:  binary,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Convert translates inputPath (in the given gpsbabel input format) to a GPX
// file at outputPath.
func (c *Client) Convert(ctx context.Context, formatTag, inputPath, outputPath string) error {
	if formatTag == "" {
		return errors.New("input format tag required")
	}
	if inputPath == "" || outputPath == "" {
		return errors.New("input and output paths required")
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{
		"-i", formatTag,
		"-f", inputPath,
		"-o", "gpx",
		"-F", outputPath,
	}
	stderr, err := c.exec.Run(runCtx, c.binary, args)
	if err != nil {
		if detail := lastLine(stderr); detail != "" {
			return fmt.Errorf("gpsbabel convert: %w: %s", err, detail)
		}
		return fmt.Errorf("gpsbabel convert: %w", err)
	}
	return nil
}

func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.String(), err
}
