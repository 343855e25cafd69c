package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SceneEntry is a scene file found in a directory.
type SceneEntry struct {
	Name string // file name without extension
	Path string
}

// ScanSceneDirectory lists the scene files in dir, sorted by name. Hidden
// files and subdirectories are skipped.
func ScanSceneDirectory(dir string) ([]SceneEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("config: scan %s: %w", dir, err)
	}

	var scenes []SceneEntry
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), ".json") {
			continue
		}

		scenes = append(scenes, SceneEntry{
			Name: strings.TrimSuffix(name, filepath.Ext(name)),
			Path: filepath.Join(dir, name),
		})
	}

	return scenes, nil
}
