package splitter

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"

	"github.com/gofrs/flock"

	"tracksplit/internal/failure"
)

// lockPath maps an output directory to its lock file under lockDir.
func lockPath(lockDir, outputDir string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(outputDir)))
	return filepath.Join(lockDir, hex.EncodeToString(sum[:8])+".lock")
}

// acquireOutputLock takes an exclusive, non-blocking lock for outputDir so two
// runs cannot interleave writes into the same directory.
func acquireOutputLock(lockDir, outputDir string) (*flock.Flock, error) {
	path := lockPath(lockDir, outputDir)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, failure.Wrap(failure.ErrIO, "lock", "acquire", path, err)
	}
	if !ok {
		return nil, failure.Wrap(failure.ErrLocked, "lock", "acquire",
			"another tracksplit run is writing to "+outputDir, nil)
	}
	return lock, nil
}
