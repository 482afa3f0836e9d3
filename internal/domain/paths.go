package domain

import (
	"path/filepath"
	"strings"
)

// IsUnder reports whether path lies inside root (root itself excluded)
func IsUnder(path, root string) bool {
	_, ok := relativeTo(path, root)
	return ok
}

func relativeTo(path, root string) (string, bool) {
	if root == "" || path == "" || !filepath.IsAbs(path) {
		return "", false
	}
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil || rel == "." || filepath.IsAbs(rel) {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

// ToRelative returns absPath relative to root, slash-separated, when it is
// under root. Anything else comes back unchanged, so the result never starts
// with a parent-traversal segment.
func ToRelative(absPath, root string) string {
	rel, ok := relativeTo(absPath, root)
	if !ok {
		return absPath
	}
	return filepath.ToSlash(rel)
}

// ToAbsolute anchors path to root. Absolute paths under root are re-anchored
// (cleaned), absolute paths elsewhere are returned unchanged and relative
// paths are joined onto root.
func ToAbsolute(path, root string) string {
	if path == "" || root == "" {
		return path
	}
	if filepath.IsAbs(path) {
		rel, ok := relativeTo(path, root)
		if !ok {
			return path
		}
		return filepath.Join(root, rel)
	}
	return filepath.Join(root, filepath.FromSlash(path))
}
