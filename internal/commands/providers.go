package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/diogo/chatloop/internal/config"
	"github.com/diogo/chatloop/internal/models"
)

func newProvidersCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List chat backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "PROVIDER\tDEFAULT MODEL\tAPI KEY")
			_, _ = fmt.Fprintln(w, "--------\t-------------\t-------")
			for _, p := range config.AvailableProviders() {
				key := "-"
				if env := models.APIKeyEnv(p); env != "" {
					key = env
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", p, models.DefaultModelFor(p), key)
			}
			return w.Flush()
		},
	}
}
