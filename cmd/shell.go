package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/martinemde/cobalt/llm"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive shell",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		return runShell(cmd, rt)
	},
}

const shellHelp = `Commands:
  agent <task>      Run a task with the agent
  test              Verify the model connection
  model [name]      Show or switch the model
  models            List available models
  provider [name]   Toggle or switch provider (lmstudio/ollama)
  tools             List registered tools
  status            Show current settings
  list [pattern]    List workspace files
  search <pattern>  Search workspace files
  tree              Show the directory tree
  analyze [pattern] Show code statistics
  help              Show this help
  exit              Quit`

// runShell is the interactive read-eval loop.
func runShell(cmd *cobra.Command, rt *runtime) error {
	defer rt.logger.Close()

	rt.console.Logo(version)
	rt.console.Print("Type 'help' for commands or 'test' to verify the model connection.")
	rt.console.Print("")

	in := bufio.NewScanner(os.Stdin)
	in.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("cobalt> ")
		if !in.Scan() {
			rt.console.Print("")
			return nil
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, " ", 2)
		command := strings.ToLower(parts[0])
		args := ""
		if len(parts) > 1 {
			args = strings.TrimSpace(parts[1])
		}

		switch command {
		case "exit", "quit", "q":
			rt.console.Info("Goodbye! Happy coding!")
			return nil
		case "help":
			rt.console.Print(shellHelp)
		case "test":
			shellTest(cmd, rt)
		case "model":
			shellModel(cmd, rt, args)
		case "models":
			shellModels(cmd, rt)
		case "provider":
			shellProvider(rt, args)
		case "tools":
			printTools(rt)
		case "status":
			shellStatus(rt)
		case "list":
			shellList(rt, args)
		case "search":
			shellSearch(rt, args)
		case "tree":
			rt.console.Header("Directory Tree")
			rt.console.Print(rt.ws.Tree(0))
		case "analyze":
			shellAnalyze(rt, args)
		case "agent":
			if args == "" {
				rt.console.Error("Usage: agent <task description>")
				continue
			}
			if _, err := rt.newAgent().Run(cmd.Context(), args); err != nil {
				rt.console.Error(err.Error())
			}
		default:
			rt.console.Error("Unknown command: " + command)
			rt.console.Print("Type 'help' for available commands.")
		}
	}
}

// shellTest sends a one-line probe through the configured model.
func shellTest(cmd *cobra.Command, rt *runtime) {
	rt.console.Info("Testing connection to " + rt.cfg.Provider + " at " + rt.cfg.Endpoint + "...")

	req := llm.Request{
		Model: rt.cfg.Model,
		Messages: []llm.Message{
			llm.UserMessage("Say 'Hello from Cobalt!' and nothing else."),
		},
	}
	resp, err := rt.client.Complete(cmd.Context(), req)
	if err != nil {
		rt.console.Error("LLM connection failed")
		rt.console.Error(err.Error())
		return
	}
	rt.console.Success("LLM is working!")
	rt.console.Info("Response: " + strings.TrimSpace(resp.Content))
	rt.console.Info(fmt.Sprintf("Latency: %dms", resp.Latency.Milliseconds()))
	rt.console.Info(fmt.Sprintf("Tokens: %d", resp.InputTokens+resp.OutputTokens))
}

func shellModel(cmd *cobra.Command, rt *runtime, name string) {
	if name == "" {
		shellModels(cmd, rt)
		return
	}
	rt.cfg.Model = name
	if err := rt.rebuildClient(); err != nil {
		rt.console.Error(err.Error())
		return
	}
	rt.console.Success("Model changed to: " + name)
}

func shellModels(cmd *cobra.Command, rt *runtime) {
	rt.console.Header("Available Models")
	models, err := rt.client.ListModels(cmd.Context())
	if err != nil || len(models) == 0 {
		rt.console.Warning("No models found or connection failed")
		return
	}
	for i, model := range models {
		marker := " "
		if model == rt.cfg.Model {
			marker = "*"
		}
		rt.console.Printf("  %s %d. %s", marker, i+1, model)
	}
}

// shellProvider switches between the two local providers and resets the
// endpoint and model to that provider's defaults.
func shellProvider(rt *runtime, name string) {
	old := rt.cfg.Provider
	switch name {
	case "":
		if old == "ollama" {
			name = "lmstudio"
		} else {
			name = "ollama"
		}
	case "lmstudio", "ollama":
	default:
		rt.console.Error("Unknown provider: " + name + " (supported: lmstudio, ollama)")
		return
	}

	rt.cfg.Provider = name
	rt.cfg.Endpoint = ""
	rt.cfg.Model = ""
	rt.cfg.ApplyProviderDefaults()
	if err := rt.rebuildClient(); err != nil {
		rt.console.Error(err.Error())
		return
	}
	rt.console.Success("Provider switched: " + old + " -> " + rt.cfg.Provider)
	rt.console.Info("Endpoint: " + rt.cfg.Endpoint)
	rt.console.Info("Model: " + rt.cfg.Model)
}

func shellStatus(rt *runtime) {
	rt.console.Header("Agent Status")
	rt.console.Printf("  Workspace:   %s", rt.cfg.Workspace)
	rt.console.Printf("  Provider:    %s", rt.cfg.Provider)
	rt.console.Printf("  Model:       %s", rt.cfg.Model)
	rt.console.Printf("  Endpoint:    %s", rt.cfg.Endpoint)
	rt.console.Printf("  Tools:       %d", rt.registry.Count())
	rt.console.Printf("  Max turns:   %d", rt.cfg.MaxTurns)
	rt.console.Printf("  Safe mode:   %v", rt.cfg.SafeMode)
	rt.console.Printf("  Timeout:     %s", rt.cfg.Timeout())
}

func shellList(rt *runtime, pattern string) {
	if pattern == "" {
		pattern = "*"
	}
	files, err := rt.ws.ListFiles(pattern, true)
	if err != nil {
		rt.console.Error(err.Error())
		return
	}
	rt.console.Header("Files matching '" + pattern + "'")
	if len(files) == 0 {
		rt.console.Warning("No files found")
		return
	}
	shown := files
	if len(shown) > 50 {
		shown = shown[:50]
	}
	for _, f := range shown {
		rt.console.Print("  " + f)
	}
	if len(files) > 50 {
		rt.console.Printf("\n  ... and %d more files", len(files)-50)
	}
	rt.console.Printf("\nTotal: %d files", len(files))
}

func shellSearch(rt *runtime, pattern string) {
	if pattern == "" {
		rt.console.Error("Usage: search <pattern>")
		return
	}
	rt.console.Header("Searching for '" + pattern + "'")
	matches, err := rt.ws.Search(pattern, "", false)
	if err != nil {
		rt.console.Error(err.Error())
		return
	}
	if len(matches) == 0 {
		rt.console.Warning("No matches found")
		return
	}
	shown := matches
	if len(shown) > 30 {
		shown = shown[:30]
	}
	for _, m := range shown {
		rt.console.Printf("%s:%d: %s", m.Path, m.Line, m.Text)
	}
	if len(matches) > 30 {
		rt.console.Printf("\n... and %d more results", len(matches)-30)
	}
	rt.console.Printf("\nTotal: %d matches", len(matches))
}

func shellAnalyze(rt *runtime, pattern string) {
	if pattern == "" {
		pattern = "*"
	}
	rt.console.Header("Code Analysis (" + pattern + ")")
	stats, err := rt.ws.CountLines(pattern)
	if err != nil {
		rt.console.Error(err.Error())
		return
	}
	rt.console.Printf("  Total Files:    %d", stats.TotalFiles)
	rt.console.Printf("  Total Lines:    %d", stats.TotalLines)
	rt.console.Printf("  Code Lines:     %d", stats.CodeLines)
	rt.console.Printf("  Comment Lines:  %d", stats.CommentLines)
	rt.console.Printf("  Blank Lines:    %d", stats.BlankLines)
	if stats.TotalLines > 0 {
		rt.console.Printf("  Code Ratio:     %.1f%%", float64(stats.CodeLines)/float64(stats.TotalLines)*100)
		rt.console.Printf("  Comment Ratio:  %.1f%%", float64(stats.CommentLines)/float64(stats.TotalLines)*100)
	}
}
