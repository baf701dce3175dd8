package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/centrinote/centrinote/internal/client/api"
	"github.com/centrinote/centrinote/internal/server/models"
)

func NewZoomCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zoom",
		Short: "Link or unlink your Zoom identity",
	}

	cmd.AddCommand(newZoomConnectCmd(deps))
	cmd.AddCommand(&cobra.Command{
		Use:   "disconnect",
		Short: "Unlink the Zoom identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.Server.Disconnect(cmd.Context()); err != nil {
				return err
			}
			deps.formatter().Success("Zoom disconnected")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the linked Zoom identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			formatter := deps.formatter()

			state, err := deps.Server.ConnectionState(ctx)
			if err != nil {
				return err
			}
			switch state {
			case models.StateUnconnected:
				formatter.Info("Zoom is not connected")
				return nil
			case models.StateDisconnected:
				formatter.Warning("Zoom was disconnected; run 'centrinote zoom connect' to link it again")
				return nil
			}

			c, err := deps.Server.Connection(ctx)
			if err != nil {
				return err
			}
			if c == nil {
				formatter.Info("Zoom is not connected")
				return nil
			}
			formatter.Connection(c)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Show which Zoom integrations the server has configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.Server.ZoomConfig(cmd.Context())
			if err != nil {
				return err
			}
			formatter := deps.formatter()
			formatter.Check("meeting sdk", cfg.SDKConfigured)
			formatter.Check("rest api", cfg.APIConfigured)
			formatter.Field("api mode", cfg.APIMode)
			return nil
		},
	})

	return cmd
}

func newZoomConnectCmd(deps *Dependencies) *cobra.Command {
	var in api.ConnectRequest

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Link a Zoom identity to your account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if in.Email == "" {
				if in.Email, err = GetSimpleText(deps.input(), "Zoom email", deps.Out); err != nil {
					return err
				}
			}
			if in.DisplayName == "" {
				if in.DisplayName, err = GetSimpleText(deps.input(), "Display name", deps.Out); err != nil {
					return err
				}
			}

			c, err := deps.Server.Connect(cmd.Context(), in)
			if err != nil {
				return err
			}
			formatter := deps.formatter()
			formatter.Success(fmt.Sprintf("Zoom connected as %s", c.Email))
			formatter.Connection(c)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "Zoom account email")
	cmd.Flags().StringVar(&in.DisplayName, "name", "", "display name")
	cmd.Flags().StringVar(&in.Role, "role", "", "role on the Zoom account (host or attendee)")
	cmd.Flags().StringVar(&in.AccountID, "account-id", "", "Zoom account id")
	return cmd
}
