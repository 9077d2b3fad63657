// Package commands provides CLI commands for chatloop.
package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// Version info (set at build time)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootFlags holds the values of the root command's flags
type rootFlags struct {
	configPath   string
	provider     string
	model        string
	baseURL      string
	template     string
	proxy        string
	timeout      time.Duration
	verbose      bool
	strictErrors bool
	noMarkdown   bool
	copy         bool
}

// NewRootCmd creates the chatloop command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "chatloop",
		Short: "Interactive terminal chat with an LLM backend",
		Long: `chatloop is an interactive command-line chat client. It keeps the running
conversation, sends it to the configured backend on every line, and prints the
reply while a spinner runs.

At startup pick a prompt template by code (or pass --template). Then type:
  /clear   forget the conversation, including the system prompt
  exit     close the backend and quit

Examples:
  chatloop                              Start a chat with the configured provider
  chatloop -p ollama -m llama3.2        Chat with a local Ollama model
  chatloop -t cursor --proxy socks5://127.0.0.1:10811
  chatloop templates                    List prompt templates`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "chatloop %s (built %s)\n", Version, BuildTime)
				return nil
			}
			return runChat(cmd, deps, flags)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Config file (default ~/.chatloop/config.json)")
	pf.StringVarP(&flags.provider, "provider", "p", "", "Backend provider (openai, gemini, ollama, echo)")
	pf.StringVarP(&flags.model, "model", "m", "", "Model to use (e.g., gpt-4o-mini)")
	pf.StringVar(&flags.baseURL, "base-url", "", "Provider endpoint override")
	pf.BoolVar(&flags.verbose, "verbose", false, "Write debug logs to the log file")

	f := cmd.Flags()
	f.StringVarP(&flags.template, "template", "t", "", "Prompt template code; skips the selection prompt")
	f.StringVar(&flags.proxy, "proxy", "", "Proxy URL (http://, https://, socks5://)")
	f.DurationVar(&flags.timeout, "timeout", 0, "Per-request timeout (0 disables)")
	f.BoolVar(&flags.strictErrors, "strict-errors", false, "Print failures to stderr instead of recording them as replies")
	f.BoolVar(&flags.noMarkdown, "no-markdown", false, "Print replies without markdown rendering")
	f.BoolVar(&flags.copy, "copy", false, "Copy every reply to the clipboard")
	f.BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(newTemplatesCmd(deps, flags))
	cmd.AddCommand(newProvidersCmd(deps))
	cmd.AddCommand(newConfigCmd(deps, flags))
	cmd.AddCommand(newVersionCmd(deps))

	return cmd
}

var rootCmd = NewRootCmd(nil)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newVersionCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(deps.Stdout, "chatloop %s (built %s)\n", Version, BuildTime)
			return nil
		},
	}
}
