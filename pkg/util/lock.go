package util

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var ErrAlreadyRunning = errors.New("another bridge instance holds the lock")

// AcquireLock takes the non-blocking single-instance lock at path. Only one
// bridge may own the portmap port at a time.
func AcquireLock(path string) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create directory for lock file %v", path)
	}

	fileLock := flock.New(path)
	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to lock %v", path)
	}
	if !locked {
		return nil, errors.Wrapf(ErrAlreadyRunning, "lock file %v", path)
	}
	logrus.Debugf("Acquired lock file %v", path)
	return fileLock, nil
}

func ReleaseLock(fileLock *flock.Flock) {
	if fileLock == nil {
		return
	}
	if err := fileLock.Unlock(); err != nil {
		logrus.WithError(err).Warnf("Failed to release lock file %v", fileLock.Path())
	}
}
