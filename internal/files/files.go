// Package files implements small file system utilities shared by the corpus writers.
package files

import (
	"math/rand"
	"os"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// DefaultDirCreationPerm is used when creating output directories.
const DefaultDirCreationPerm = 0755

// Exists returns true if file or directory exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ExecOnFileLock opens the lockPath file (or creates it if it doesn't yet exist), locks it, and executes fn.
// If the lockPath is already locked, it polls every pollPeriod to 2*pollPeriod (randomly) until it acquires it.
//
// The lockPath is not removed. It's safe to remove it from fn, if one knows that no new calls to
// ExecOnFileLock with the same lockPath are going to be made.
func ExecOnFileLock(lockPath string, pollPeriod time.Duration, fn func()) (err error) {
	fileLock := flock.New(lockPath)
	for {
		locked, err := fileLock.TryLock()
		if err != nil {
			return errors.Wrapf(err, "while trying to lock %q", lockPath)
		}
		if locked {
			break
		}
		time.Sleep(pollPeriod + time.Duration(rand.Int63n(int64(pollPeriod)+1)))
	}

	// Unlock even if fn panics.
	defer func() {
		unlockErr := fileLock.Unlock()
		if unlockErr != nil {
			if err == nil {
				err = errors.Wrapf(unlockErr, "unlocking file %q", lockPath)
			} else {
				klog.Errorf("Error unlocking file %q: %v", lockPath, unlockErr)
			}
		}
	}()
	fn()
	return
}
