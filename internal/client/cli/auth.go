package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/centrinote/centrinote/internal/client/services"
	"github.com/centrinote/centrinote/internal/common"
)

func NewLoginCmd(deps *Dependencies) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with your Centrinote account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := deps.formatter()

			if email == "" {
				var err error
				if email, err = GetSimpleText(deps.input(), "Email", deps.Out); err != nil {
					return err
				}
			}
			if email == "" {
				return fmt.Errorf("%w: email is required", common.ErrorValidation)
			}

			password, err := GetPassword("Password", deps.Out)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			s, err := deps.Session.Login(cmd.Context(), email, string(password))
			if err != nil {
				return err
			}
			formatter.Success(fmt.Sprintf("Logged in as %s", s.Email))
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return cmd
}

func NewLogoutCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			deps.formatter().Success("Logged out")
			return nil
		},
	}
}

func NewStatusCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the session and what the server has configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			formatter := deps.formatter()

			if _, err := deps.Session.Session(ctx); err != nil {
				if errors.Is(err, services.ErrNotLoggedIn) {
					formatter.Info("Not logged in")
					return nil
				}
				return err
			}

			st, err := deps.Server.AuthStatus(ctx)
			if err != nil {
				return err
			}
			formatter.Success("Logged in")
			formatter.Field("user", st.UserID)
			if st.Email != "" {
				formatter.Field("email", st.Email)
			}
			formatter.Field("expires", st.ExpiresAt.Local().Format("2006-01-02 15:04"))
			formatter.Field("server", deps.Config.ServerURL)

			cfg, err := deps.Server.ZoomConfig(ctx)
			if err != nil {
				return err
			}
			formatter.Check("meeting sdk configured", cfg.SDKConfigured)
			formatter.Check(fmt.Sprintf("zoom api configured (%s)", cfg.APIMode), cfg.APIConfigured)
			return nil
		},
	}
}
