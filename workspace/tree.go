package workspace

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Tree renders the directory structure under the root up to maxDepth levels,
// skipping ignored entries. Directories sort before files.
func (w *Workspace) Tree(maxDepth int) string {
	if maxDepth <= 0 {
		maxDepth = 3
	}
	var sb strings.Builder
	sb.WriteString(w.root)
	sb.WriteString("\n")
	w.buildTree(&sb, w.root, "", 0, maxDepth)
	return strings.TrimRight(sb.String(), "\n")
}

func (w *Workspace) buildTree(sb *strings.Builder, dir, prefix string, depth, maxDepth int) {
	if depth >= maxDepth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	var kept []os.DirEntry
	for _, e := range entries {
		rel, err := filepath.Rel(w.root, filepath.Join(dir, e.Name()))
		if err != nil || w.Ignored(rel) {
			continue
		}
		kept = append(kept, e)
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].IsDir() != kept[j].IsDir() {
			return kept[i].IsDir()
		}
		return kept[i].Name() < kept[j].Name()
	})

	for i, e := range kept {
		connector, childPrefix := "├── ", "│   "
		if i == len(kept)-1 {
			connector, childPrefix = "└── ", "    "
		}
		sb.WriteString(prefix + connector + e.Name() + "\n")
		if e.IsDir() {
			w.buildTree(sb, filepath.Join(dir, e.Name()), prefix+childPrefix, depth+1, maxDepth)
		}
	}
}
