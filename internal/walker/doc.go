// Package walker enumerates a dropped directory tree into ingestion
// candidates.
//
// The walk runs filepath.WalkDir on a single goroutine while a small worker
// pool classifies entries by extension, so large trees on slow (NFS) mounts
// don't serialize stat calls behind classification. Unreadable entries are
// logged and skipped; only a root that cannot be read at all fails the walk.
//
// Results are sorted by destination path so batch slicing downstream is
// deterministic between runs over the same tree.
package walker
