package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/centrinote/centrinote/internal/client/prefs"
)

func NewPrefsCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Read and change local preferences",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print a preference value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := deps.Prefs.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(deps.Out, v)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a preference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.Prefs.Set(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			deps.formatter().Success(fmt.Sprintf("%s = %s", args[0], args[1]))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "unset <key>",
		Short: "Reset a preference to its default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.Prefs.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			deps.formatter().Success(fmt.Sprintf("%s reset", args[0]))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := deps.Prefs.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, e := range entries {
				// session values are credentials
				if e.Key.Namespace != prefs.NamespacePreferences {
					continue
				}
				v := e.Value
				if e.IsDefault {
					v += " (default)"
				}
				fmt.Fprintf(deps.Out, "%s = %s\n", e.Key.Name, v)
			}
			return nil
		},
	})

	return cmd
}
