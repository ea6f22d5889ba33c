// Package filesink delivers export bundles to a directory tree, one
// directory per order number.
package filesink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"storymap/internal/core/ports"
	"storymap/internal/pkg/errs"
)

const lockRetryDelay = 50 * time.Millisecond

// Sink writes every bundle to {root}/{orderNumber}. A bundle replaces the
// previous one for the same order as a whole; readers never see a mix of two
// exports or a partially written one.
type Sink struct {
	root string
}

var _ ports.ExportSink = (*Sink)(nil)

// New creates the root directory if needed.
func New(root string) (*Sink, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errs.NewValueIsRequiredError("root")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &Sink{root: root}, nil
}

// Dir returns the directory an order's bundle is delivered to.
func (s *Sink) Dir(orderNumber string) string {
	return filepath.Join(s.root, orderNumber)
}

// Store writes the files to a staging directory and swaps it in. Concurrent
// stores for the same order are serialized through a lock file.
func (s *Sink) Store(ctx context.Context, orderNumber string, files []ports.ExportFile) (err error) {
	if err = checkName("orderNumber", orderNumber); err != nil {
		return err
	}
	if len(files) == 0 {
		return errs.NewValueIsRequiredError("files")
	}
	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		if err = checkName("file", f.Name); err != nil {
			return err
		}
		if _, dup := seen[f.Name]; dup {
			return errs.NewValueIsInvalidErrorWithCause("file", fmt.Errorf("%q appears twice", f.Name))
		}
		seen[f.Name] = struct{}{}
	}

	lock := flock.New(filepath.Join(s.root, "."+orderNumber+".lock"))
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock %s: %w", orderNumber, err)
	}
	if !locked {
		return fmt.Errorf("lock %s: not acquired", orderNumber)
	}
	defer func() { _ = lock.Unlock() }()

	staging, err := os.MkdirTemp(s.root, ".staging-"+orderNumber+"-")
	if err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.RemoveAll(staging)
		}
	}()

	for _, f := range files {
		if err = ctx.Err(); err != nil {
			return err
		}
		if err = os.WriteFile(filepath.Join(staging, f.Name), f.Content, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.Name, err)
		}
	}

	return s.swap(staging, s.Dir(orderNumber))
}

// swap moves staging into place. An existing bundle is moved aside first and
// restored when the rename fails.
func (s *Sink) swap(staging, target string) error {
	previous := target + ".previous"
	_ = os.RemoveAll(previous)

	hadPrevious := true
	if err := os.Rename(target, previous); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("move previous export aside: %w", err)
		}
		hadPrevious = false
	}

	if err := os.Rename(staging, target); err != nil {
		if hadPrevious {
			_ = os.Rename(previous, target)
		}
		return fmt.Errorf("publish export: %w", err)
	}

	if hadPrevious {
		_ = os.RemoveAll(previous)
	}
	return nil
}

func checkName(param, name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errs.NewValueIsRequiredError(param)
	case name == "." || name == ".." || strings.HasPrefix(name, "."),
		strings.ContainsAny(name, `/\`),
		filepath.Base(name) != name:
		return errs.NewValueIsInvalidErrorWithCause(param, fmt.Errorf("%q is not a plain file name", name))
	}
	return nil
}
