package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/martinemde/cobalt/workspace"
)

// DefaultCommandTimeout bounds run_command when no timeout is configured.
const DefaultCommandTimeout = 60 * time.Second

// safeModeAllowList holds the binaries run_command may start in safe mode,
// matched against the first token of the command line.
var safeModeAllowList = []string{
	"python", "python3", "pip", "pip3", "node", "npm", "npx",
	"ls", "dir", "cat", "type", "echo", "git", "pytest", "test", "go",
}

func allowedInSafeMode(base string) bool {
	for _, allowed := range safeModeAllowList {
		if strings.HasPrefix(base, allowed) {
			return true
		}
	}
	return false
}

func registerRunCommand(reg *Registry, ws *workspace.Workspace, opts Options) {
	timeout := opts.CommandTimeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}

	reg.Register(Registered{
		Definition: Definition{
			Name:        "run_command",
			Description: "Execute a terminal/shell command. Use for running tests, installing packages, etc.",
			Params: []Param{
				{Name: "command", Type: "string", Description: "Full command to execute (e.g., 'python test.py' or 'pip install requests')", Required: true},
				{Name: "reason", Type: "string", Description: "Brief explanation of why this command needs to run"},
			},
			RequiresConfirmation: true,
		},
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			command, ok := GetStringArg(args, "command")
			if !ok || strings.TrimSpace(command) == "" {
				return "", fmt.Errorf("command is required")
			}

			fields := strings.Fields(command)
			base := fields[0]
			if opts.SafeMode && !allowedInSafeMode(base) {
				return "", fmt.Errorf("command %q not allowed in safe mode. Allowed: %s",
					base, strings.Join(safeModeAllowList, ", "))
			}

			result, err := runShellCommand(ctx, ws.Root(), command, timeout)
			if err != nil {
				return "", err
			}

			output := result.Stdout
			if result.Stderr != "" {
				output += "\n[stderr]: " + result.Stderr
			}
			if output == "" {
				output = "(no output)"
			}
			if result.TimedOut {
				return "", fmt.Errorf("command timed out after %s", timeout)
			}
			if result.ExitCode != 0 {
				return "", fmt.Errorf("command exited with code %d\n%s", result.ExitCode, output)
			}
			return output, nil
		},
	})
}

// execResult holds the normalized result of a command execution.
type execResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
	Duration time.Duration
}

// runShellCommand executes a command line through the platform shell in the
// given directory, bounded by timeout.
func runShellCommand(ctx context.Context, dir, command string, timeout time.Duration) (*execResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	shell, shellArg := "/bin/sh", "-c"
	if runtime.GOOS == "windows" {
		shell, shellArg = "cmd.exe", "/c"
	}

	cmd := exec.CommandContext(ctx, shell, shellArg, command)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	result := &execResult{
		Stdout:   strings.TrimRight(stdout.String(), "\n"),
		Stderr:   strings.TrimRight(stderr.String(), "\n"),
		Duration: time.Since(start),
	}

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			result.TimedOut = true
			result.ExitCode = -1
			return result, nil
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return nil, fmt.Errorf("run command: %w", err)
	}
	return result, nil
}
