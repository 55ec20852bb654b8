package partition

import (
	"fmt"
	"os"
)

// Discover returns the paths of existing partition files for a prefix, in
// index order starting at 1. Numbering is contiguous by construction, so the
// scan stops at the first missing index.
func Discover(dir, prefix string) ([]string, error) {
	var paths []string
	for i := 1; ; i++ {
		path := Path(dir, prefix, i)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				break
			}
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no partitions named %s_*.csv in %s", prefix, dir)
	}
	return paths, nil
}
