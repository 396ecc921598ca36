package levelstore

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// lockRoot takes an advisory exclusive flock on <root>/.lock for the
// lifetime of a run, the same idiom trillian-tessera's posix storage uses
// to serialize distinct processes touching one log directory: an
// uncooperative concurrent run against the same tree root fails fast with a
// StorageError instead of silently interleaving writes, matching spec.md
// §5's assumption that the root directory is exclusive to the run.
func lockRoot(root string) (unlock func() error, err error) {
	path := root + "/.lock"
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", path, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("acquire exclusive lock on %s (another run in progress?): %w", path, err)
	}

	return func() error {
		if err := unix.Flock(int(f.Fd()), unix.LOCK_UN); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}, nil
}
