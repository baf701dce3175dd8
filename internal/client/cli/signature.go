package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/centrinote/centrinote/internal/client/services"
	"github.com/centrinote/centrinote/internal/common"
	"github.com/centrinote/centrinote/internal/server/zoom"
)

func parseRole(s string) (zoom.Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "participant", "attendee":
		return zoom.RoleParticipant, nil
	case "1", "host":
		return zoom.RoleHost, nil
	default:
		return 0, fmt.Errorf("%w: role must be host or participant", common.ErrorValidation)
	}
}

func NewSignatureCmd(deps *Dependencies) *cobra.Command {
	var (
		roleName string
		local    bool
	)

	cmd := &cobra.Command{
		Use:   "signature <meeting-number>",
		Short: "Generate a Meeting SDK join signature",
		Long:  "Asks the server for a Meeting SDK signature. With --local the signature is made on this machine from zoom_sdk_key and zoom_sdk_secret in the config; the secret is prompted for when it is not set.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := parseRole(roleName)
			if err != nil {
				return err
			}

			if !local {
				sig, err := deps.Server.Signature(cmd.Context(), args[0], role)
				if err != nil {
					return err
				}
				printSignature(deps, sig.Signature, sig.SDKKey, sig.ExpiresAt)
				return nil
			}

			secret := deps.Config.ZoomSDKSecret
			if secret == "" && deps.Config.ZoomSDKKey != "" {
				pw, err := GetPassword("Zoom SDK secret", deps.Out)
				if err != nil {
					return err
				}
				secret = string(pw)
				common.WipeByteArray(pw)
			}

			sig, claims, err := services.LocalSignature(deps.Config.ZoomSDKKey, secret, args[0], role, nil)
			if err != nil {
				return err
			}
			printSignature(deps, sig, claims.SDKKey, time.Unix(claims.TokenExp, 0))
			return nil
		},
	}

	cmd.Flags().StringVarP(&roleName, "role", "r", "participant", "host or participant")
	cmd.Flags().BoolVar(&local, "local", false, "sign locally with the configured SDK credentials")
	return cmd
}

func printSignature(deps *Dependencies, sig, key string, expires time.Time) {
	fmt.Fprintln(deps.Out, sig)
	formatter := deps.formatter()
	formatter.Field("sdk key", key)
	formatter.Field("expires", expires.Local().Format("2006-01-02 15:04"))
}
