package cli

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/dp-headlines/internal/logger"
)

var treeIgnore = map[string]bool{
	".git":         true,
	"__pycache__":  true,
	"node_modules": true,
}

// treeLines renders root as an indented listing, directories suffixed with "/".
// Entries in treeIgnore are skipped along with their contents.
func treeLines(root string) ([]string, error) {
	var lines []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		depth := 0
		if rel != "." {
			depth = strings.Count(rel, string(filepath.Separator)) + 1
		}
		if d.IsDir() && rel != "." && treeIgnore[d.Name()] {
			return filepath.SkipDir
		}

		indent := strings.Repeat("    ", depth)
		if d.IsDir() {
			lines = append(lines, indent+"+--"+d.Name()+"/")
		} else {
			lines = append(lines, indent+"+--"+d.Name())
		}
		return nil
	})
	return lines, err
}

// logTree logs the file tree under root, one line per entry
func logTree(log *logger.Logger, root string) {
	log.Info("Printing tree of files/dirs", logger.Fields{"root": root})
	lines, err := treeLines(root)
	if err != nil {
		log.Warn("Could not walk directory", logger.Fields{"root": root, "error": err.Error()})
	}
	for _, line := range lines {
		log.Info(line, nil)
	}
}
