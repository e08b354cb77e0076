// Package workspace confines all agent file operations to a single root
// directory and applies gitignore-style filtering to listings and searches.
package workspace

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultIgnorePatterns are always applied in addition to any ignore files.
var DefaultIgnorePatterns = []string{
	".git", "__pycache__", "*.pyc", ".venv", "venv", "node_modules", ".env",
}

// ErrOutsideWorkspace is returned when a path escapes the workspace root.
var ErrOutsideWorkspace = fmt.Errorf("path is outside the workspace")

// Workspace manages file operations rooted at a single directory.
type Workspace struct {
	root    string
	matcher *ignore.GitIgnore
}

// New creates a Workspace rooted at root. Ignore rules are compiled from the
// built-in defaults, the workspace .gitignore, .cobalt/ignore, and any extra
// patterns from configuration.
func New(root string, extraPatterns []string) (*Workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("workspace root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace root %s is not a directory", abs)
	}
	// Containment compares symlink-resolved paths, so the root must be
	// resolved the same way.
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}

	rules := append([]string{}, DefaultIgnorePatterns...)
	rules = append(rules, readIgnoreFile(filepath.Join(abs, ".gitignore"))...)
	rules = append(rules, readIgnoreFile(filepath.Join(abs, ".cobalt", "ignore"))...)
	rules = append(rules, extraPatterns...)

	return &Workspace{
		root:    abs,
		matcher: ignore.CompileIgnoreLines(rules...),
	}, nil
}

// readIgnoreFile reads one ignore file, returning nil if it does not exist.
func readIgnoreFile(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

// Root returns the absolute workspace root.
func (w *Workspace) Root() string { return w.root }

// Resolve turns a workspace-relative (or absolute) path into an absolute
// path, rejecting anything that escapes the root. Symlinks are resolved
// before the containment check, so a link inside the workspace cannot reach
// outside it.
func (w *Workspace) Resolve(p string) (string, error) {
	full := p
	if !filepath.IsAbs(full) {
		full = filepath.Join(w.root, full)
	}
	full = filepath.Clean(full)

	real, err := resolveExisting(full)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", p, err)
	}
	if real != w.root && !strings.HasPrefix(real, w.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideWorkspace, p)
	}
	return full, nil
}

// resolveExisting evaluates symlinks on the deepest existing ancestor of
// path and rejoins the not-yet-existing remainder, so containment can be
// checked for files that are about to be created. Dangling symlinks are
// followed to where their target would be created.
func resolveExisting(path string) (string, error) {
	const maxHops = 40

	suffix := ""
	cur := path
	for hops := 0; hops < maxHops; hops++ {
		real, err := filepath.EvalSymlinks(cur)
		if err == nil {
			return filepath.Join(real, suffix), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		if fi, lerr := os.Lstat(cur); lerr == nil && fi.Mode()&os.ModeSymlink != 0 {
			target, rerr := os.Readlink(cur)
			if rerr != nil {
				return "", rerr
			}
			if !filepath.IsAbs(target) {
				target = filepath.Join(filepath.Dir(cur), target)
			}
			cur = filepath.Clean(target)
			continue
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", err
		}
		suffix = filepath.Join(filepath.Base(cur), suffix)
		cur = parent
	}
	return "", fmt.Errorf("too many symlinks: %s", path)
}

// Ignored reports whether a workspace-relative path matches the ignore rules.
func (w *Workspace) Ignored(rel string) bool {
	return w.matcher.MatchesPath(rel)
}

// ReadFile returns the content of a file inside the workspace.
func (w *Workspace) ReadFile(p string) (string, error) {
	full, err := w.Resolve(p)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", p, err)
	}
	return string(data), nil
}

// WriteFile writes content to a file inside the workspace, creating parent
// directories as needed.
func (w *Workspace) WriteFile(p string, content string) error {
	full, err := w.Resolve(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create directories for %s: %w", p, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	return nil
}

// FileExists reports whether p names an existing regular file.
func (w *Workspace) FileExists(p string) bool {
	full, err := w.Resolve(p)
	if err != nil {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && info.Mode().IsRegular()
}

// ListFiles returns workspace-relative paths of files matching the glob
// pattern, sorted. With recursive set, the pattern is matched against the
// base name at any depth; otherwise only direct children are considered.
func (w *Workspace) ListFiles(pattern string, recursive bool) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}

	var files []string
	if !recursive {
		matches, err := filepath.Glob(filepath.Join(w.root, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			rel, relErr := filepath.Rel(w.root, m)
			if relErr != nil || w.Ignored(rel) {
				continue
			}
			if info, statErr := os.Stat(m); statErr == nil && info.Mode().IsRegular() {
				files = append(files, rel)
			}
		}
		sort.Strings(files)
		return files, nil
	}

	err := filepath.WalkDir(w.root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		rel, relErr := filepath.Rel(w.root, p)
		if relErr != nil || rel == "." {
			return nil
		}
		if w.Ignored(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if ok, _ := path.Match(pattern, d.Name()); ok {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk workspace: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// FileInfo describes a single file or directory.
type FileInfo struct {
	Path      string
	Size      int64
	Modified  int64
	IsFile    bool
	Extension string
}

// Info returns metadata about a path inside the workspace.
func (w *Workspace) Info(p string) (*FileInfo, error) {
	full, err := w.Resolve(p)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(full)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", p, err)
	}
	return &FileInfo{
		Path:      p,
		Size:      info.Size(),
		Modified:  info.ModTime().Unix(),
		IsFile:    info.Mode().IsRegular(),
		Extension: filepath.Ext(full),
	}, nil
}
