// Package lock implements the single-instance run lock: a marker file whose presence
// blocks a second collector from starting.
package lock

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// ErrAlreadyRunning is returned when the marker file already exists.
var ErrAlreadyRunning = errors.New("collector already running")

// RunLock is a held marker file.
type RunLock struct {
	path string
	once sync.Once
}

// Acquire creates the marker at path. It fails with ErrAlreadyRunning if the marker
// exists, whether or not the owning process is still alive.
func Acquire(path string) (*RunLock, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create lock dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%w (lock file %s)", ErrAlreadyRunning, path)
		}
		return nil, fmt.Errorf("create lock file: %w", err)
	}
	_, werr := f.WriteString(strconv.FormatInt(time.Now().Unix(), 10))
	cerr := f.Close()
	if werr != nil || cerr != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write lock file: %w", errors.Join(werr, cerr))
	}
	log.Printf("[INFO] run lock acquired: %s", path)
	return &RunLock{path: path}, nil
}

// Release removes the marker. Safe to call more than once.
func (l *RunLock) Release() {
	l.once.Do(func() {
		if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
			log.Printf("[ERROR] remove lock file %s: %v", l.path, err)
			return
		}
		log.Printf("[INFO] run lock released: %s", l.path)
	})
}
