package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/martinemde/cobalt/workspace"
)

// Options configures the core tool set.
type Options struct {
	// SafeMode restricts run_command to an allow-list of binaries.
	SafeMode bool
	// CommandTimeout bounds each run_command invocation. Zero means the
	// 60 second default.
	CommandTimeout time.Duration
}

// RegisterAll registers the full core tool set backed by the workspace.
func RegisterAll(reg *Registry, ws *workspace.Workspace, opts Options) {
	registerReadFile(reg, ws)
	registerCreateFile(reg, ws)
	registerWriteFile(reg, ws)
	registerListFiles(reg, ws)
	registerSearchCode(reg, ws)
	registerAnalyzeCode(reg, ws)
	registerRunCommand(reg, ws, opts)
	registerGetTree(reg, ws)
	registerFileInfo(reg, ws)
}

func registerReadFile(reg *Registry, ws *workspace.Workspace) {
	reg.Register(Registered{
		Definition: Definition{
			Name:        "read_file",
			Description: "Read the contents of a file",
			Params: []Param{
				{Name: "filepath", Type: "string", Description: "Path to the file to read (relative to workspace)", Required: true},
			},
		},
		Execute: func(_ context.Context, args map[string]any) (string, error) {
			filepath, ok := GetStringArg(args, "filepath")
			if !ok || filepath == "" {
				return "", fmt.Errorf("filepath is required")
			}
			return ws.ReadFile(filepath)
		},
	})
}

func registerCreateFile(reg *Registry, ws *workspace.Workspace) {
	reg.Register(Registered{
		Definition: Definition{
			Name:        "create_file",
			Description: "Create a new file with specified content. AI determines the filename.",
			Params: []Param{
				{Name: "filepath", Type: "string", Description: "Path for the new file (relative to workspace, e.g., 'src/calculator.py')", Required: true},
				{Name: "content", Type: "string", Description: "Complete content to write to the file", Required: true},
				{Name: "reason", Type: "string", Description: "Brief explanation of why this file is being created"},
			},
			RequiresConfirmation: true,
		},
		Execute: func(_ context.Context, args map[string]any) (string, error) {
			filepath, ok := GetStringArg(args, "filepath")
			if !ok || filepath == "" {
				return "", fmt.Errorf("filepath is required")
			}
			content, ok := GetStringArg(args, "content")
			if !ok {
				return "", fmt.Errorf("content is required")
			}
			if err := ws.WriteFile(filepath, content); err != nil {
				return "", err
			}
			return fmt.Sprintf("Created %s (%d bytes)", filepath, len(content)), nil
		},
	})
}

func registerWriteFile(reg *Registry, ws *workspace.Workspace) {
	reg.Register(Registered{
		Definition: Definition{
			Name:        "write_file",
			Description: "Write or modify content in an existing file",
			Params: []Param{
				{Name: "filepath", Type: "string", Description: "Path to the file to write (relative to workspace)", Required: true},
				{Name: "content", Type: "string", Description: "Content to write to the file", Required: true},
			},
			RequiresConfirmation: true,
		},
		Execute: func(_ context.Context, args map[string]any) (string, error) {
			filepath, ok := GetStringArg(args, "filepath")
			if !ok || filepath == "" {
				return "", fmt.Errorf("filepath is required")
			}
			content, ok := GetStringArg(args, "content")
			if !ok {
				return "", fmt.Errorf("content is required")
			}
			if err := ws.WriteFile(filepath, content); err != nil {
				return "", err
			}
			return fmt.Sprintf("Successfully wrote %d bytes to %s", len(content), filepath), nil
		},
	})
}

func registerListFiles(reg *Registry, ws *workspace.Workspace) {
	reg.Register(Registered{
		Definition: Definition{
			Name:        "list_files",
			Description: "List files in the workspace matching a pattern",
			Params: []Param{
				{Name: "pattern", Type: "string", Description: "Glob pattern to match files (default: *)"},
				{Name: "recursive", Type: "boolean", Description: "Search recursively (default: true)"},
			},
		},
		Execute: func(_ context.Context, args map[string]any) (string, error) {
			pattern, _ := GetStringArg(args, "pattern")
			recursive := true
			if v, ok := GetBoolArg(args, "recursive"); ok {
				recursive = v
			}
			files, err := ws.ListFiles(pattern, recursive)
			if err != nil {
				return "", err
			}
			if len(files) == 0 {
				return "No files matched the pattern.", nil
			}
			return strings.Join(files, "\n"), nil
		},
	})
}

func registerSearchCode(reg *Registry, ws *workspace.Workspace) {
	reg.Register(Registered{
		Definition: Definition{
			Name:        "search_code",
			Description: "Search for text patterns in code files",
			Params: []Param{
				{Name: "pattern", Type: "string", Description: "Text or regex pattern to search for", Required: true},
				{Name: "file_pattern", Type: "string", Description: "File pattern to search in (default: *)"},
				{Name: "regex", Type: "boolean", Description: "Use regex matching (default: false)"},
			},
		},
		Execute: func(_ context.Context, args map[string]any) (string, error) {
			pattern, ok := GetStringArg(args, "pattern")
			if !ok || pattern == "" {
				return "", fmt.Errorf("pattern is required")
			}
			filePattern, _ := GetStringArg(args, "file_pattern")
			useRegex, _ := GetBoolArg(args, "regex")

			matches, err := ws.Search(pattern, filePattern, useRegex)
			if err != nil {
				return "", err
			}
			if len(matches) == 0 {
				return "No matches found", nil
			}
			var sb strings.Builder
			for _, m := range matches {
				fmt.Fprintf(&sb, "%s:%d: %s\n", m.Path, m.Line, m.Text)
			}
			return strings.TrimRight(sb.String(), "\n"), nil
		},
	})
}

func registerAnalyzeCode(reg *Registry, ws *workspace.Workspace) {
	reg.Register(Registered{
		Definition: Definition{
			Name:        "analyze_code",
			Description: "Analyze code structure and statistics",
			Params: []Param{
				{Name: "file_pattern", Type: "string", Description: "File pattern to analyze (default: *)"},
			},
		},
		Execute: func(_ context.Context, args map[string]any) (string, error) {
			filePattern, _ := GetStringArg(args, "file_pattern")
			stats, err := ws.CountLines(filePattern)
			if err != nil {
				return "", err
			}
			total := stats.TotalLines
			if total == 0 {
				total = 1
			}
			return fmt.Sprintf(`Code Analysis Results:

Total Files: %d
Total Lines: %d
Code Lines: %d
Comment Lines: %d
Blank Lines: %d

Code Ratio: %.1f%%
Comment Ratio: %.1f%%`,
				stats.TotalFiles, stats.TotalLines, stats.CodeLines, stats.CommentLines, stats.BlankLines,
				float64(stats.CodeLines)/float64(total)*100,
				float64(stats.CommentLines)/float64(total)*100), nil
		},
	})
}

func registerGetTree(reg *Registry, ws *workspace.Workspace) {
	reg.Register(Registered{
		Definition: Definition{
			Name:        "get_tree",
			Description: "Get directory tree structure",
			Params: []Param{
				{Name: "max_depth", Type: "integer", Description: "Maximum depth to traverse (default: 3)"},
			},
		},
		Execute: func(_ context.Context, args map[string]any) (string, error) {
			maxDepth, _ := GetIntArg(args, "max_depth")
			return ws.Tree(maxDepth), nil
		},
	})
}

func registerFileInfo(reg *Registry, ws *workspace.Workspace) {
	reg.Register(Registered{
		Definition: Definition{
			Name:        "file_info",
			Description: "Get information about a file",
			Params: []Param{
				{Name: "filepath", Type: "string", Description: "Path to the file", Required: true},
			},
		},
		Execute: func(_ context.Context, args map[string]any) (string, error) {
			filepath, ok := GetStringArg(args, "filepath")
			if !ok || filepath == "" {
				return "", fmt.Errorf("filepath is required")
			}
			info, err := ws.Info(filepath)
			if err != nil {
				return "", err
			}
			kind := "Directory"
			if info.IsFile {
				kind = "File"
			}
			return fmt.Sprintf(`File Information:
Path: %s
Size: %d bytes
Extension: %s
Type: %s`, info.Path, info.Size, info.Extension, kind), nil
		},
	})
}
