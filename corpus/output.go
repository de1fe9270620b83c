package corpus

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gomlx/go-nertags/internal/files"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// ErrExists is returned when writing to an existing output without the Overwrite option.
var ErrExists = errors.New("output already exists")

// LockPollPeriod is the minimum time between attempts to acquire an output lock held by someone else.
var LockPollPeriod = time.Second

// WriteLocked creates the file at filePath with the contents written by write.
//
// If filePath exists and overwrite is false, it fails with ErrExists.
//
// The contents are written to filePath+".writing" and then atomically moved to filePath, so a partially
// written file is never visible under its final name. A temporary filePath+".lock" coordinates multiple
// processes (or goroutines) writing the same file at the same time. It is removed once the file was
// written without overwrite, since no later WriteLocked call will then write it again.
func WriteLocked(filePath string, overwrite bool, write func(w io.Writer) error) error {
	if !overwrite && files.Exists(filePath) {
		return errors.Wrapf(ErrExists, "refusing to overwrite %q", filePath)
	}
	if err := os.MkdirAll(filepath.Dir(filePath), files.DefaultDirCreationPerm); err != nil {
		return errors.Wrapf(err, "failed to create directory for file %q", filePath)
	}

	lockPath := filePath + ".lock"
	var mainErr error
	errLock := files.ExecOnFileLock(lockPath, LockPollPeriod, func() {
		if !overwrite && files.Exists(filePath) {
			// Some concurrent other process (or goroutine) already wrote the file.
			mainErr = errors.Wrapf(ErrExists, "refusing to overwrite %q", filePath)
			return
		}
		mainErr = writeThenRename(filePath, write)
		if overwrite || mainErr != nil {
			// Someone may still write filePath: the lock file must stay.
			return
		}
		// File exists and won't be written again, so we no longer need the lock file.
		if err := os.Remove(lockPath); err != nil {
			klog.Warningf("error removing lock file %q: %+v", lockPath, err)
		}
	})
	if mainErr != nil {
		return mainErr
	}
	if errLock != nil {
		return errors.WithMessagef(errLock, "while locking %q to write %q", lockPath, filePath)
	}
	return nil
}

func writeThenRename(filePath string, write func(w io.Writer) error) (err error) {
	tmpPath := filePath + ".writing"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return errors.Wrapf(err, "creating temporary file %q", tmpPath)
	}
	var tmpFileClosed bool
	defer func() {
		// On error, close and remove the unfinished temporary file.
		if !tmpFileClosed {
			if err := tmpFile.Close(); err != nil {
				klog.Errorf("Failed closing temporary file %q: %v", tmpPath, err)
			}
			if err := os.Remove(tmpPath); err != nil {
				klog.Errorf("Failed removing temporary file %q: %v", tmpPath, err)
			}
		}
	}()

	buffered := bufio.NewWriter(tmpFile)
	if err = write(buffered); err != nil {
		return errors.WithMessagef(err, "while writing %q", tmpPath)
	}
	if err = buffered.Flush(); err != nil {
		return errors.Wrapf(err, "failed to flush %q", tmpPath)
	}
	tmpFileClosed = true
	if err = tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "failed to close temporary file %q", tmpPath)
	}
	if err = os.Rename(tmpPath, filePath); err != nil {
		return errors.Wrapf(err, "failed to move %q to %q", tmpPath, filePath)
	}
	return nil
}
