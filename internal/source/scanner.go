package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// exportExts are the file extensions treated as gift exports.
var exportExts = map[string]bool{
	".jsonl":  true,
	".ndjson": true,
}

// Scan resolves paths into export files. Files are taken as given;
// directories are walked for .jsonl and .ndjson files. The result is
// sorted by path with duplicates removed.
func Scan(paths ...string) ([]DiscoveredFile, error) {
	seen := make(map[string]struct{})
	var files []DiscoveredFile
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, DiscoveredFile{Path: path, Name: fileName(path)})
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", p, err)
		}
		if !info.IsDir() {
			add(filepath.Clean(p))
			continue
		}
		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // intentionally skip unreadable entries
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if exportExts[strings.ToLower(filepath.Ext(path))] {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", p, err)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func fileName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
