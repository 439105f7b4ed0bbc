package ruletable

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
)

// Ensure LockChecker implements the interface.
var _ driven.LockChecker = (*LockChecker)(nil)

// officeLockPrefix starts the owner file Office writes next to an open document.
const officeLockPrefix = "~$"

// LockChecker reports files another program holds open.
type LockChecker struct{}

// NewLockChecker creates a lock checker.
func NewLockChecker() *LockChecker {
	return &LockChecker{}
}

// Check opens path for writing and looks for an Office owner file.
func (c *LockChecker) Check(path string) error {
	name := filepath.Base(path)

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s", domain.ErrFileLocked, name)
	case err != nil:
		return fmt.Errorf("%w: %s: %v", domain.ErrFileLocked, name, err)
	}
	f.Close()

	owner := filepath.Join(filepath.Dir(path), officeLockPrefix+name)
	if _, err := os.Stat(owner); err == nil {
		return fmt.Errorf("%w: %s is open in another program", domain.ErrFileLocked, name)
	}
	// Word and Excel shorten long names in the owner file.
	if r := []rune(name); len(r) > 7 {
		owner = filepath.Join(filepath.Dir(path), officeLockPrefix+string(r[2:]))
		if _, err := os.Stat(owner); err == nil {
			return fmt.Errorf("%w: %s is open in another program", domain.ErrFileLocked, name)
		}
	}
	return nil
}
