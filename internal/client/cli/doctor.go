package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/centrinote/centrinote/internal/client/services"
	"github.com/centrinote/centrinote/internal/server/models"
)

// gRPC health service names reported by the server.
const (
	healthServiceMeetings = "centrinote.meetings"
	healthServiceDatabase = "centrinote.database"
)

func NewDoctorCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check connectivity and configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := deps.formatter()
			ok := true

			check := func(name string, pass bool, detail string) {
				f.Check(fmt.Sprintf("%s: %s", name, detail), pass)
				ok = ok && pass
			}

			if err := deps.Server.Health(ctx); err != nil {
				check("HTTP API", false, err.Error())
			} else {
				check("HTTP API", true, deps.Config.ServerURL)
			}

			if deps.Probe != nil {
				for _, svc := range []struct{ name, service string }{
					{"gRPC health", ""},
					{"Database", healthServiceDatabase},
					{"Meeting SDK", healthServiceMeetings},
				} {
					serving, err := deps.Probe.Serving(ctx, svc.service)
					switch {
					case err != nil:
						check(svc.name, false, err.Error())
					case serving:
						check(svc.name, true, "serving")
					default:
						check(svc.name, false, "not serving")
					}
				}
			}

			if deps.Config.SupabaseAnonKey == "" {
				check("Supabase anon key", false, "not set. Set CENTRINOTE_SUPABASE_ANON_KEY or add to config")
			} else {
				check("Supabase anon key", true, "configured")
			}

			loggedIn := true
			if _, err := deps.Session.Session(ctx); err != nil {
				loggedIn = false
				if errors.Is(err, services.ErrNotLoggedIn) {
					check("Session", false, "not logged in. Run 'centrinote login'")
				} else {
					check("Session", false, err.Error())
				}
			} else {
				check("Session", true, "logged in")
			}

			if loggedIn {
				state, err := deps.Server.ConnectionState(ctx)
				switch {
				case err != nil:
					check("Zoom connection", false, err.Error())
				case state == models.StateConnected:
					check("Zoom connection", true, string(state))
				default:
					check("Zoom connection", false, string(state)+". Run 'centrinote zoom connect'")
				}
			}

			if ok {
				f.Success("Everything looks good")
			} else {
				f.Warning("Some checks failed")
			}
			return nil
		},
	}
}
