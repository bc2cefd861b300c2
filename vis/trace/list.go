package trace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var recordExtensions = map[string]bool{".json": true, ".yaml": true, ".yml": true}

// ListSimulations returns the record files in dir, sorted by name.
// Subdirectories and files with other extensions are skipped.
func ListSimulations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: listing %s: %v", ErrFileAccess, dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if recordExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
