package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// ErrEmptyPath is returned when a path argument is blank.
var ErrEmptyPath = errors.New("empty path")

// FileExists reports whether anything exists at path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates dirPath and its parents if needed.
func EnsureDir(dirPath string) error {
	return os.MkdirAll(dirPath, 0o755)
}

// WriteTOMLAtomic encodes data into a temp file beside filePath and renames it
// over filePath. Readers see either the old file or the complete new one.
func WriteTOMLAtomic(filePath string, data any) error {
	tmp, err := os.CreateTemp(filepath.Dir(filePath), "."+filepath.Base(filePath)+".*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", filePath, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if err := toml.NewEncoder(tmp).Encode(data); err != nil {
		return fmt.Errorf("encode %s: %w", filePath, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, filePath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", filePath, err)
	}
	committed = true
	return nil
}

// AbsolutePath resolves path against the working directory.
func AbsolutePath(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	return filepath.Abs(path)
}

// ExecutableDir returns the directory holding the running binary, with
// symlinks resolved.
func ExecutableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = resolved
	}
	return filepath.Dir(execPath), nil
}

// WritableDir creates dirPath if missing and checks that a file can be
// written inside it.
func WritableDir(dirPath string) error {
	if err := EnsureDir(dirPath); err != nil {
		return err
	}
	probe, err := os.CreateTemp(dirPath, ".write_test.*")
	if err != nil {
		log.Debugf("Directory %s is not writable: %v", dirPath, err)
		return err
	}
	probe.Close()
	return os.Remove(probe.Name())
}
