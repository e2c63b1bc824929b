package migrate

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var migrationName = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

var gooseMarkers = [][]byte{
	[]byte("-- +goose Up"),
	[]byte("-- +goose Down"),
}

// ValidateDir checks that every .sql file in dir follows the
// YYYYMMDDHHMMSS_snake_case.sql naming scheme, carries both goose direction
// markers, and that no two files share a version. Runs without a database,
// so it can gate CI before any deploy touches Postgres.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("scan %q: %w", dir, err)
	}
	sort.Strings(paths)

	versions := make(map[string]string, len(paths))
	for _, path := range paths {
		name := filepath.Base(path)
		match := migrationName.FindStringSubmatch(name)
		if match == nil {
			return fmt.Errorf("migration %q does not match YYYYMMDDHHMMSS_name.sql", name)
		}
		if earlier, taken := versions[match[1]]; taken {
			return fmt.Errorf("version %s used by both %q and %q", match[1], earlier, name)
		}
		versions[match[1]] = name

		body, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %q: %w", path, err)
		}
		for _, marker := range gooseMarkers {
			if !bytes.Contains(body, marker) {
				return fmt.Errorf("migration %q missing %q marker", name, strings.TrimPrefix(string(marker), "-- "))
			}
		}
	}
	return nil
}
