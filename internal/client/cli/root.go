// Package cli is the cobra command tree of the centrinote CLI.
package cli

import (
	"bufio"
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/centrinote/centrinote/internal/client/api"
	"github.com/centrinote/centrinote/internal/client/config"
	"github.com/centrinote/centrinote/internal/client/output"
	"github.com/centrinote/centrinote/internal/client/prefs"
	"github.com/centrinote/centrinote/internal/client/supabase"
	"github.com/centrinote/centrinote/internal/server/models"
	"github.com/centrinote/centrinote/internal/server/zoom"
	"github.com/centrinote/centrinote/internal/version"
)

// Session is the local login state.
type Session interface {
	Login(ctx context.Context, email, password string) (*supabase.Session, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (*supabase.Session, error)
}

// Preferences is the local key/value store.
type Preferences interface {
	Get(ctx context.Context, name string) (string, error)
	Set(ctx context.Context, name, value string) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]prefs.Entry, error)
}

// Server is the Centrinote HTTP API.
type Server interface {
	Health(ctx context.Context) error
	AuthStatus(ctx context.Context) (*api.AuthStatus, error)
	ZoomConfig(ctx context.Context) (*api.ZoomConfig, error)
	Signature(ctx context.Context, meetingNumber string, role zoom.Role) (*api.Signature, error)
	Connection(ctx context.Context) (*models.Connection, error)
	Connect(ctx context.Context, in api.ConnectRequest) (*models.Connection, error)
	Disconnect(ctx context.Context) error
	ConnectionState(ctx context.Context) (models.ConnectionState, error)
	ListMeetings(ctx context.Context) ([]*models.Meeting, error)
	CreateMeeting(ctx context.Context, in api.CreateMeetingRequest) (*models.Meeting, error)
	GetMeeting(ctx context.Context, id string) (*models.Meeting, error)
	DeleteMeeting(ctx context.Context, id string) error
	BulkDeleteMeetings(ctx context.Context, ids []string) (*api.BulkDeleteReport, error)
	RecordingDownloadURL(ctx context.Context, meetingID string) (*api.PresignedURL, error)
}

// Recordings uploads recording files.
type Recordings interface {
	UploadRecording(ctx context.Context, meetingID, path string) (string, error)
}

// HealthProbe asks the server's gRPC health service about one service.
type HealthProbe interface {
	Serving(ctx context.Context, service string) (bool, error)
}

// Dependencies are the collaborators commands run against. Init, when set,
// is called after flag parsing and before any command runs, so it can build
// the remaining fields from the final Config.
type Dependencies struct {
	Config *config.Config
	In     io.Reader
	Out    io.Writer

	Session    Session
	Prefs      Preferences
	Server     Server
	Recordings Recordings
	Probe      HealthProbe

	Init func(ctx context.Context, deps *Dependencies) error

	reader *bufio.Reader
}

func (d *Dependencies) input() *bufio.Reader {
	if d.reader == nil {
		d.reader = bufio.NewReader(d.In)
	}
	return d.reader
}

func (d *Dependencies) formatter() *output.Formatter {
	return output.NewFormatter(d.Out)
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "centrinote",
		Short:         "Manage Zoom meetings and recordings through Centrinote",
		Long:          "A CLI for the Centrinote server: sign in, link a Zoom identity, schedule meetings, generate SDK signatures and upload recordings.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if deps.Init == nil {
				return nil
			}
			return deps.Init(cmd.Context(), deps)
		},
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Full("centrinote") + "\n")
	rootCmd.SetOut(deps.Out)
	rootCmd.SetIn(deps.In)

	// --config is read before cobra runs; it is declared here so cobra accepts it.
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&deps.Config.ServerURL, "server", deps.Config.ServerURL, "Centrinote server URL")

	rootCmd.AddCommand(NewLoginCmd(deps))
	rootCmd.AddCommand(NewLogoutCmd(deps))
	rootCmd.AddCommand(NewStatusCmd(deps))
	rootCmd.AddCommand(NewPrefsCmd(deps))
	rootCmd.AddCommand(NewZoomCmd(deps))
	rootCmd.AddCommand(NewMeetingsCmd(deps))
	rootCmd.AddCommand(NewSignatureCmd(deps))
	rootCmd.AddCommand(NewDoctorCmd(deps))

	return rootCmd
}
