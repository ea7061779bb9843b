// Package snapshot captures directory listings and computes created-entry deltas.
package snapshot

import (
	"os"
	"sort"
)

// Snapshot holds the immediate (non-recursive) entry names of a directory
// at one instant, partitioned into files and subdirectories.
type Snapshot struct {
	Files map[string]struct{}
	Dirs  map[string]struct{}
}

// Take lists the directory. Listing failures (race, permissions, removed
// directory) degrade to an empty snapshot; they must never abort an
// execution report.
func Take(dir string) Snapshot {
	snap := Snapshot{
		Files: make(map[string]struct{}),
		Dirs:  make(map[string]struct{}),
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return snap
	}
	for _, entry := range entries {
		if entry.IsDir() {
			snap.Dirs[entry.Name()] = struct{}{}
			continue
		}
		snap.Files[entry.Name()] = struct{}{}
	}
	return snap
}

// Diff returns the entries present in after but not in before, per
// partition, sorted by name. Removals and renames are not reported.
func Diff(before, after Snapshot) (createdFiles, createdDirs []string) {
	createdFiles = setDifference(after.Files, before.Files)
	createdDirs = setDifference(after.Dirs, before.Dirs)
	return createdFiles, createdDirs
}

func setDifference(after, before map[string]struct{}) []string {
	created := make([]string, 0)
	for name := range after {
		if _, ok := before[name]; !ok {
			created = append(created, name)
		}
	}
	sort.Strings(created)
	return created
}
