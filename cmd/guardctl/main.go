// Command guardctl is the thin CLI harness around Browser Guard's core:
// per spec.md §1, the command-line shell is explicitly out of scope for
// the hard core and is kept minimal here, mirroring the teacher's own
// cobra root-command-with-subcommands shape.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/owlsentry/browserguard/pkg/browser"
	"github.com/owlsentry/browserguard/pkg/dag"
	"github.com/owlsentry/browserguard/pkg/guardconfig"
	"github.com/owlsentry/browserguard/pkg/intent"
	"github.com/owlsentry/browserguard/pkg/interpreter"
	"github.com/owlsentry/browserguard/pkg/policy"
)

// statusStyles mirrors the teacher's TUI color palette (pkg/tui/styles.go)
// for the small slice of status words this CLI harness prints.
var statusStyles = map[interpreter.Status]lipgloss.Style{
	interpreter.StatusComplete: lipgloss.NewStyle().Foreground(lipgloss.Color("#73daca")),
	interpreter.StatusAborted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68")),
	interpreter.StatusBlocked:  lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e")),
	interpreter.StatusTimeout:  lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e")),
	interpreter.StatusError:    lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e")),
}

func renderStatus(s interpreter.Status) string {
	style, ok := statusStyles[s]
	if !ok {
		return string(s)
	}
	return style.Render(string(s))
}

var (
	version = "dev"
	cfgFile string
	cfg     guardconfig.Config

	rootCmd = &cobra.Command{
		Use:   "guardctl",
		Short: "Browser Guard - a security mediator for browser-driving agents",
		Long: `guardctl is the thin command-line harness around Browser Guard's core:
intent derivation, plan generation, and secure execution against a mock
browser adapter. The host-agent integration (the real browser driver and
LLM client) is out of scope; this CLI exists to exercise the core
end-to-end from a terminal.`,
	}

	planOut string

	planCmd = &cobra.Command{
		Use:   "plan \"<request>\"",
		Short: "Derive an intent and print its template plan description",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlan,
	}

	runCmd = &cobra.Command{
		Use:   "run \"<request>\"",
		Short: "Derive an intent, build a plan, and execute it against the mock adapter",
		Args:  cobra.ExactArgs(1),
		RunE:  runRun,
	}

	explainCmd = &cobra.Command{
		Use:   "explain <dag.json>",
		Short: "Re-render a saved DAG's plan description",
		Args:  cobra.ExactArgs(1),
		RunE:  runExplain,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .guardctl/config.yaml)")
	planCmd.Flags().StringVar(&planOut, "out", "", "also write the generated DAG as JSON to this path (consumable by 'explain')")

	rootCmd.AddCommand(planCmd, runCmd, explainCmd)
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("guardctl", version)
		},
	})
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
	}

	path := cfgFile
	if path == "" {
		path = ".guardctl/config.yaml"
	}
	viper.SetConfigFile(path)
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()

	loaded, err := guardconfig.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		loaded = guardconfig.Default()
	}
	cfg = loaded
}

// buildPlan derives an Intent from request and builds its template plan —
// the always-available strategy, since this harness has no LLM provider
// credentials wired by default.
func buildPlan(request string) (intent.Intent, dag.DAG, error) {
	i, err := intent.Parse(request)
	if err != nil {
		return intent.Intent{}, dag.DAG{}, fmt.Errorf("guardctl: %w", err)
	}

	engine := policy.New(&i)
	if d := engine.AllowsIntent(i); !d.Allowed {
		return i, dag.DAG{}, fmt.Errorf("guardctl: intent denied: %s", d.Reason)
	}

	plan := dag.Template(i, time.Now())
	if result := dag.Validate(plan); !result.Valid {
		return i, dag.DAG{}, fmt.Errorf("guardctl: generated plan failed validation: %v", result.Issues)
	}
	return i, plan, nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	i, plan, err := buildPlan(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Intent: task_type=%s domains=%v actions=%v\n\n", i.TaskType, i.AllowedDomains, i.AllowedActions)

	if planOut != "" {
		data, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return fmt.Errorf("guardctl: marshal plan: %w", err)
		}
		if err := os.WriteFile(planOut, data, 0o644); err != nil {
			return fmt.Errorf("guardctl: write %s: %w", planOut, err)
		}
	}

	rendered, err := dag.DescribeMarkdown(plan)
	if err != nil {
		fmt.Print(dag.Describe(plan))
		return nil
	}
	fmt.Print(rendered)
	return nil
}

func runRun(cmd *cobra.Command, args []string) error {
	i, plan, err := buildPlan(args[0])
	if err != nil {
		return err
	}

	home := "https://" + i.AllowedDomains[0]
	adapter, err := browser.NewMockAdapter(map[string]browser.Observation{
		home:            {URL: home, Title: "mock page", VisibleText: "welcome"},
		home + "/login": {URL: home + "/login", Title: "mock login", VisibleText: "sign in"},
	}, nil, plan.Nodes[plan.EntryPoint].Action.Target)
	if err != nil {
		return fmt.Errorf("guardctl: %w", err)
	}

	engine := policy.New(&i)
	confirmGate := policy.NewTerminalConfirmGate(time.Duration(cfg.Engine.ConfirmTimeoutSeconds) * time.Second)

	result := interpreter.Execute(context.Background(), plan, adapter, engine, interpreter.Options{
		Strict:      cfg.Engine.StrictOutcomes,
		ConfirmGate: confirmGate,
	})

	fmt.Printf("status: %s\n", renderStatus(result.Status))
	if result.Reason != "" {
		fmt.Printf("reason: %s\n", result.Reason)
	}
	fmt.Printf("steps: %d  duration: %dms\n", len(result.Trace), result.DurationMs)
	for k, v := range result.Data {
		fmt.Printf("  %s = %s\n", k, v)
	}
	return nil
}

func runExplain(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("guardctl: read %s: %w", args[0], err)
	}
	var d dag.DAG
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("guardctl: parse %s: %w", args[0], err)
	}

	rendered, err := dag.DescribeMarkdown(d)
	if err != nil {
		fmt.Print(dag.Describe(d))
		return nil
	}
	fmt.Print(rendered)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
