package application

import (
	"os"
	"path/filepath"
)

// ProjectRoot is the directory project-relative link paths are anchored to:
// the project file's directory, or the path itself when it is a directory
// (a workspace folder).
func ProjectRoot(projectFilePath string) string {
	if projectFilePath == "" {
		return ""
	}
	if info, err := os.Stat(projectFilePath); err == nil && info.IsDir() {
		return filepath.Clean(projectFilePath)
	}
	return filepath.Dir(projectFilePath)
}
