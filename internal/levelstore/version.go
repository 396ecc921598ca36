package levelstore

import (
	"fmt"
	"os"
	"strings"

	"github.com/blang/semver/v4"
)

// formatVersion is the on-disk layout version for a tree root. Bump it
// whenever a change would make an old tree root unreadable by a newer
// version of this package.
var formatVersion = semver.MustParse("1.0.0")

func formatVersionPath(root string) string {
	return root + "/FORMAT_VERSION"
}

// ensureFormatVersion writes formatVersion to a fresh tree root, or checks
// an existing one is compatible. A mismatch is a StorageError: it means
// this level store would otherwise silently misinterpret an incompatible
// on-disk layout.
func ensureFormatVersion(root string) error {
	path := formatVersionPath(root)

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return os.WriteFile(path, []byte(formatVersion.String()+"\n"), 0o644)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	existing, err := semver.Parse(strings.TrimSpace(string(raw)))
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if existing.Major != formatVersion.Major {
		return fmt.Errorf("tree root %s was written by incompatible format version %s (this binary is %s)", root, existing, formatVersion)
	}
	return nil
}
