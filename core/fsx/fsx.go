// Package fsx holds the durable-write primitives shared by the timeline and
// state store: atomic whole-file replacement and locked single-line appends.
package fsx

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	lockTimeout    = 10 * time.Second
	lockRetry      = 10 * time.Millisecond
	lockStaleAfter = 2 * time.Minute
)

// WriteFileAtomic replaces path with content via a temp file and rename so a
// crash never leaves a partially written file behind.
func WriteFileAtomic(path string, content []byte, mode os.FileMode) error {
	cleanPath, err := ValidatePath(path)
	if err != nil {
		return err
	}
	parent := filepath.Dir(cleanPath)
	base := filepath.Base(cleanPath)

	tempFile, err := os.CreateTemp(parent, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(content); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tempFile.Chmod(mode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tempPath, cleanPath); err != nil {
		if runtime.GOOS != "windows" {
			return fmt.Errorf("rename temp file: %w", err)
		}
		if removeErr := os.Remove(cleanPath); removeErr != nil && !os.IsNotExist(removeErr) {
			return fmt.Errorf("remove destination before rename: %w", removeErr)
		}
		if renameErr := os.Rename(tempPath, cleanPath); renameErr != nil {
			return fmt.Errorf("rename temp file after remove: %w", renameErr)
		}
	}
	cleanup = false

	syncDir(parent)
	return nil
}

// AppendLine appends exactly one record line under a cross-process advisory
// lock, adds the trailing newline, and fsyncs before returning.
func AppendLine(path string, line []byte, mode os.FileMode) error {
	cleanPath, err := ValidatePath(path)
	if err != nil {
		return err
	}
	if err := EnsureParentDir(cleanPath); err != nil {
		return err
	}

	payload := make([]byte, 0, len(line)+1)
	payload = append(payload, line...)
	payload = append(payload, '\n')

	if err := WithLock(cleanPath, func() error {
		// #nosec G304 -- append path is validated local relative or absolute.
		file, openErr := os.OpenFile(cleanPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, mode)
		if openErr != nil {
			return fmt.Errorf("open append file: %w", openErr)
		}
		defer func() { _ = file.Close() }()
		if _, writeErr := file.Write(payload); writeErr != nil {
			return fmt.Errorf("append line: %w", writeErr)
		}
		if syncErr := file.Sync(); syncErr != nil {
			return fmt.Errorf("sync append file: %w", syncErr)
		}
		return nil
	}); err != nil {
		return err
	}

	syncDir(filepath.Dir(cleanPath))
	return nil
}

// WithLock runs fn while holding an exclusive lock file next to path. Lock
// files left behind by a crashed process are recovered once stale.
func WithLock(path string, fn func() error) error {
	lockPath := path + ".lock"
	start := time.Now()
	for {
		// #nosec G304 -- lock path is derived from a validated target path.
		lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			_ = lockFile.Close()
			defer func() { _ = os.Remove(lockPath) }()
			return fn()
		}
		if !os.IsExist(err) {
			return fmt.Errorf("acquire lock: %w", err)
		}
		if lockIsStale(lockPath, time.Now().UTC()) {
			_ = os.Remove(lockPath)
			continue
		}
		if time.Since(start) >= lockTimeout {
			return fmt.Errorf("lock timeout on %s", lockPath)
		}
		time.Sleep(lockRetry)
	}
}

// EnsureParentDir creates the parent directory chain for path if absent.
func EnsureParentDir(path string) error {
	parent := filepath.Dir(path)
	if parent == "." || parent == "" {
		return nil
	}
	if err := os.MkdirAll(parent, 0o750); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}
	return nil
}

// ValidatePath accepts local relative or absolute paths and rejects
// traversal outside the working tree.
func ValidatePath(path string) (string, error) {
	cleanPath := filepath.Clean(path)
	if filepath.IsLocal(cleanPath) {
		return cleanPath, nil
	}
	if strings.HasPrefix(cleanPath, string(filepath.Separator)) {
		return cleanPath, nil
	}
	if volume := filepath.VolumeName(cleanPath); volume != "" && strings.HasPrefix(cleanPath, volume+string(filepath.Separator)) {
		return cleanPath, nil
	}
	return "", fmt.Errorf("path must be local relative or absolute")
}

func lockIsStale(lockPath string, now time.Time) bool {
	info, err := os.Stat(lockPath)
	if err != nil {
		return false
	}
	return now.Sub(info.ModTime().UTC()) > lockStaleAfter
}

func syncDir(dir string) {
	if dir == "." || dir == "" {
		return
	}
	// #nosec G304 -- directory path is derived from a validated target path.
	if handle, err := os.Open(dir); err == nil {
		_ = handle.Sync()
		_ = handle.Close()
	}
}
