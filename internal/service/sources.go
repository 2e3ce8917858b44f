package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/masterdesk/api/internal/client"
)

// resolveSource turns a source reference into a path the engine can
// read. Paths and URIs pass through untouched; bare storage keys are
// pulled down to a temp file when object storage is configured. The
// returned cleanup removes any temp file and is always safe to call.
func resolveSource(ctx context.Context, storage client.StorageClient, ref string) (string, func(), error) {
	noop := func() {}

	if storage == nil || isPathLike(ref) {
		return ref, noop, nil
	}

	body, err := storage.Download(ctx, ref)
	if err != nil {
		return "", noop, fmt.Errorf("fetch source %q: %w", ref, err)
	}
	defer body.Close()

	tmp, err := os.CreateTemp("", "master-src-*.wav")
	if err != nil {
		return "", noop, fmt.Errorf("create temp source file: %w", err)
	}
	cleanup := func() { os.Remove(tmp.Name()) }

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		cleanup()
		return "", noop, fmt.Errorf("stage source %q: %w", ref, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", noop, fmt.Errorf("stage source %q: %w", ref, err)
	}

	return tmp.Name(), cleanup, nil
}

// isPathLike reports whether the reference is already a filesystem path
// or a full URI rather than a bare storage key.
func isPathLike(ref string) bool {
	return strings.Contains(ref, "://") ||
		strings.HasPrefix(ref, "/") ||
		strings.HasPrefix(ref, "./") ||
		strings.HasPrefix(ref, "../")
}
