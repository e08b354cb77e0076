// Package cmd wires the CLI: flags, configuration, and the interactive
// shell and one-shot agent entry points.
package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/martinemde/cobalt/agent"
	"github.com/martinemde/cobalt/config"
	"github.com/martinemde/cobalt/llm"
	"github.com/martinemde/cobalt/logging"
	"github.com/martinemde/cobalt/tools"
	"github.com/martinemde/cobalt/ui"
	"github.com/martinemde/cobalt/workspace"
)

var (
	flagWorkspace   string
	flagProvider    string
	flagEndpoint    string
	flagModel       string
	flagTemperature float64
	flagMaxTokens   int
	flagTimeout     int
	flagMaxTurns    int
	flagSafeMode    bool
	flagAutoConfirm bool
	flagConfig      string
)

var rootCmd = &cobra.Command{
	Use:   "cobalt",
	Short: "Conversational coding agent for local models",
	Long: `Cobalt drives a local LLM (LM Studio or Ollama) through a multi-turn
tool-calling loop: the model requests file and shell operations, destructive
ones are confirmed with you, and results are fed back until the task is done.

Run without arguments for the interactive shell, or use:
  cobalt agent "your task here"`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		return runShell(cmd, rt)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagWorkspace, "workspace", "w", ".", "workspace directory")
	pf.StringVarP(&flagProvider, "provider", "p", "", "model provider (lmstudio or ollama)")
	pf.StringVarP(&flagEndpoint, "endpoint", "e", "", "provider endpoint URL")
	pf.StringVarP(&flagModel, "model", "m", "", "model name")
	pf.Float64VarP(&flagTemperature, "temperature", "t", 0, "sampling temperature")
	pf.IntVar(&flagMaxTokens, "max-tokens", 0, "max tokens per response")
	pf.IntVar(&flagTimeout, "timeout", 0, "request timeout in seconds")
	pf.IntVar(&flagMaxTurns, "max-turns", 0, "max model queries per task")
	pf.BoolVar(&flagSafeMode, "safe-mode", false, "restrict run_command to an allow-list")
	pf.BoolVar(&flagAutoConfirm, "auto-confirm", false, "approve all tool calls without prompting")
	pf.StringVar(&flagConfig, "config", "", "config file (default: <workspace>/.cobalt/config.yaml)")

	rootCmd.AddCommand(agentCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(versionCmd)
}

// runtime bundles everything a command needs after configuration.
type runtime struct {
	cfg      *config.Config
	ws       *workspace.Workspace
	registry *tools.Registry
	client   *llm.Client
	console  *ui.Console
	logger   *logging.Logger
}

// newRuntime loads configuration (flags override environment, environment
// overrides file) and assembles the workspace, tool registry, and model
// client.
func newRuntime(cmd *cobra.Command) (*runtime, error) {
	path := flagConfig
	explicit := path != ""
	if !explicit {
		path = config.DefaultPath(flagWorkspace)
	}
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(cmd, cfg)
	cfg.ApplyProviderDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	root, err := filepath.Abs(cfg.Workspace)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace: %w", err)
	}
	cfg.Workspace = root

	ws, err := workspace.New(root, cfg.IgnorePatterns)
	if err != nil {
		return nil, err
	}

	registry := tools.NewRegistry()
	tools.RegisterAll(registry, ws, tools.Options{
		SafeMode:       cfg.SafeMode,
		CommandTimeout: cfg.Timeout(),
	})

	client, err := llm.New(llm.Options{
		Provider:    cfg.Provider,
		Endpoint:    cfg.Endpoint,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout(),
	})
	if err != nil {
		return nil, err
	}

	return &runtime{
		cfg:      cfg,
		ws:       ws,
		registry: registry,
		client:   client,
		console:  ui.NewConsole(),
		logger:   logging.Get(root),
	}, nil
}

// applyFlagOverrides copies explicitly set flags onto the loaded config.
// Switching providers by flag resets endpoint and model to that provider's
// defaults unless those were also given.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("workspace") {
		cfg.Workspace = flagWorkspace
	}
	if flags.Changed("provider") {
		cfg.Provider = flagProvider
		if !flags.Changed("endpoint") {
			cfg.Endpoint = ""
		}
		if !flags.Changed("model") {
			cfg.Model = ""
		}
	}
	if flags.Changed("endpoint") {
		cfg.Endpoint = flagEndpoint
	}
	if flags.Changed("model") {
		cfg.Model = flagModel
	}
	if flags.Changed("temperature") {
		cfg.Temperature = flagTemperature
	}
	if flags.Changed("max-tokens") {
		cfg.MaxTokens = flagMaxTokens
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds = flagTimeout
	}
	if flags.Changed("max-turns") {
		cfg.MaxTurns = flagMaxTurns
	}
	if flags.Changed("safe-mode") {
		cfg.SafeMode = flagSafeMode
	}
	if flags.Changed("auto-confirm") {
		cfg.AutoConfirm = flagAutoConfirm
	}
}

// newAgent assembles the orchestrator with the configured gate and reporter.
func (rt *runtime) newAgent() *agent.Agent {
	var confirmer agent.Confirmer
	if rt.cfg.AutoConfirm {
		confirmer = agent.AutoConfirmer{}
	} else {
		confirmer = ui.NewInteractiveConfirmer(rt.console, rt.ws)
	}
	opts := agent.Options{
		Workspace:          rt.cfg.Workspace,
		Model:              rt.cfg.Model,
		Temperature:        rt.cfg.Temperature,
		MaxTokens:          rt.cfg.MaxTokens,
		MaxTurns:           rt.cfg.MaxTurns,
		TreatSilenceAsDone: rt.cfg.OnSilence == string(config.SilenceDone),
	}
	return agent.New(rt.client, rt.registry, opts, confirmer, ui.NewReporter(rt.console), rt.logger)
}

// rebuildClient swaps the model client after a provider or model change in
// the shell.
func (rt *runtime) rebuildClient() error {
	client, err := llm.New(llm.Options{
		Provider:    rt.cfg.Provider,
		Endpoint:    rt.cfg.Endpoint,
		Model:       rt.cfg.Model,
		Temperature: rt.cfg.Temperature,
		MaxTokens:   rt.cfg.MaxTokens,
		Timeout:     rt.cfg.Timeout(),
	})
	if err != nil {
		return err
	}
	rt.client = client
	return nil
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
