package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/diogo/chatloop/internal/config"
	apierrors "github.com/diogo/chatloop/internal/errors"
	"github.com/diogo/chatloop/internal/prompts"
)

func newTemplatesCmd(deps *Dependencies, flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List prompt templates",
		Long: `List the prompt templates offered at startup.

Builtin templates can be overridden or extended in ~/.chatloop/templates.yaml:

  templates:
    - code: reviewer
      description: Go code reviewer
      text: |
        You review Go code for correctness and style.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry(flags)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "CODE\tDESCRIPTION")
			_, _ = fmt.Fprintln(w, "----\t-----------")
			for _, t := range registry.Templates() {
				_, _ = fmt.Fprintf(w, "%s\t%s\n", t.Code, t.Description)
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <code>",
		Short: "Show a template's system prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry(flags)
			if err != nil {
				return err
			}

			t, ok := registry.Lookup(args[0])
			if !ok {
				return fmt.Errorf("%w: %q", apierrors.ErrTemplateNotFound, args[0])
			}

			fmt.Fprintf(deps.Stdout, "Code: %s\n", t.Code)
			if t.Description != "" {
				fmt.Fprintf(deps.Stdout, "Description: %s\n", t.Description)
			}
			fmt.Fprintf(deps.Stdout, "\nSystem Prompt:\n%s\n", t.Text)
			return nil
		},
	})

	return cmd
}

func loadRegistry(flags *rootFlags) (*prompts.Registry, error) {
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}
	return prompts.Load(cfg.TemplatesFile)
}
