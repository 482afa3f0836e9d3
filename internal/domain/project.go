package domain

import (
	"path/filepath"
	"strings"
)

// ProjectRecord binds a project to the file that stores its link tree
type ProjectRecord struct {
	ProjectID         string `json:"projectId"`
	ProjectFilePath   string `json:"projectFilePath"`
	LinkStoreFilePath string `json:"linkStoreFilePath"`
}

// IsEmpty reports whether the record names no project
func (r ProjectRecord) IsEmpty() bool {
	return r.ProjectID == ""
}

// Matches reports whether the record belongs to the (id, path) pair
func (r ProjectRecord) Matches(id, projectFilePath string) bool {
	return r.ProjectID == id && r.ProjectFilePath == projectFilePath
}

// ProjectID derives the case-insensitive project key from the project file
// name: base name, extension stripped, lower-cased.
func ProjectID(projectFilePath string) string {
	base := filepath.Base(filepath.Clean(projectFilePath))
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ToLower(base)
}

// NewProjectRecord creates a record whose link store lives in dirName under
// appDataRoot.
func NewProjectRecord(id, projectFilePath, appDataRoot, dirName string) ProjectRecord {
	return ProjectRecord{
		ProjectID:         id,
		ProjectFilePath:   projectFilePath,
		LinkStoreFilePath: filepath.Join(appDataRoot, dirName, DefaultLinkStoreFileName),
	}
}

// Records is the ordered collection persisted as one settings blob. Lookup
// is a linear scan on (id, path).
type Records []ProjectRecord

// Find returns the index of the record matching (id, path), or -1
func (rs Records) Find(id, projectFilePath string) int {
	for i, r := range rs {
		if r.Matches(id, projectFilePath) {
			return i
		}
	}
	return -1
}

// Upsert replaces the matching record in place or appends it
func (rs Records) Upsert(rec ProjectRecord) Records {
	if i := rs.Find(rec.ProjectID, rec.ProjectFilePath); i >= 0 {
		rs[i] = rec
		return rs
	}
	return append(rs, rec)
}
