package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/centrinote/centrinote/internal/client/api"
	"github.com/centrinote/centrinote/internal/common"
	"github.com/centrinote/centrinote/internal/server/zoom"
)

// startLayouts are the accepted --start formats; the last two are local time.
var startLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04"}

func parseStart(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(startLayouts[0], s); err == nil {
		return &t, nil
	}
	for _, layout := range startLayouts[1:] {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: start must look like 2026-03-07 15:00 or RFC 3339", common.ErrorValidation)
}

func NewMeetingsCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "meetings",
		Aliases: []string{"meeting", "m"},
		Short:   "Schedule, list and delete meetings",
	}

	cmd.AddCommand(newMeetingsCreateCmd(deps))
	cmd.AddCommand(newMeetingsListCmd(deps))
	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one meeting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := deps.Server.GetMeeting(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			deps.formatter().Meeting(m)
			return nil
		},
	})
	cmd.AddCommand(newMeetingsDeleteCmd(deps))
	cmd.AddCommand(newMeetingsBulkDeleteCmd(deps))
	cmd.AddCommand(&cobra.Command{
		Use:   "upload-recording <id> <file>",
		Short: "Upload a recording file for a meeting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := deps.formatter()
			formatter.Info(fmt.Sprintf("Uploading %s...", args[1]))
			key, err := deps.Recordings.UploadRecording(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			formatter.Success(fmt.Sprintf("Recording stored: %s", key))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "recording-url <id>",
		Short: "Print a temporary download link for a meeting's recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := deps.Server.RecordingDownloadURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(deps.Out, u.URL)
			return nil
		},
	})

	return cmd
}

func newMeetingsCreateCmd(deps *Dependencies) *cobra.Command {
	var (
		in        api.CreateMeetingRequest
		start     string
		recording string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Schedule a meeting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if in.StartTime, err = parseStart(start); err != nil {
				return err
			}
			if recording != "" {
				in.Settings = &zoom.MeetingSettings{AutoRecording: recording}
			}

			m, err := deps.Server.CreateMeeting(cmd.Context(), in)
			if err != nil {
				return err
			}
			formatter := deps.formatter()
			if m.IsFallback() {
				formatter.Warning("Zoom API unavailable; created an offline meeting")
			} else {
				formatter.Success("Meeting created")
			}
			formatter.Meeting(m)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.Topic, "topic", "t", "", "meeting topic")
	cmd.Flags().StringVar(&start, "start", "", "start time, e.g. \"2026-03-07 15:00\" (default now)")
	cmd.Flags().IntVarP(&in.Duration, "duration", "d", 0, "duration in minutes (default 60)")
	cmd.Flags().StringVar(&in.Timezone, "timezone", "", "IANA timezone name")
	cmd.Flags().StringVar(&in.Password, "password", "", "meeting passcode (at most 10 characters)")
	cmd.Flags().StringVar(&in.Agenda, "agenda", "", "agenda")
	cmd.Flags().StringVar(&recording, "auto-recording", "", "local, cloud or none")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

func newMeetingsListCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your meetings",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := deps.formatter()

			meetings, err := deps.Server.ListMeetings(cmd.Context())
			if err != nil {
				return err
			}
			if len(meetings) == 0 {
				formatter.Info("No meetings found")
				return nil
			}

			formatter.MeetingListHeader(len(meetings))
			for _, m := range meetings {
				formatter.MeetingListItem(m)
			}
			return nil
		},
	}
}

func newMeetingsDeleteCmd(deps *Dependencies) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a meeting here and on Zoom",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := Confirm(deps.input(), fmt.Sprintf("Delete meeting %s?", args[0]), deps.Out)
				if err != nil || !ok {
					return err
				}
			}
			if err := deps.Server.DeleteMeeting(cmd.Context(), args[0]); err != nil {
				return err
			}
			deps.formatter().Success("Meeting deleted")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newMeetingsBulkDeleteCmd(deps *Dependencies) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "bulk-delete <id>...",
		Short: "Delete several meetings, reporting each result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := Confirm(deps.input(), fmt.Sprintf("Delete %d meetings?", len(args)), deps.Out)
				if err != nil || !ok {
					return err
				}
			}

			report, err := deps.Server.BulkDeleteMeetings(cmd.Context(), args)
			if err != nil {
				return err
			}

			formatter := deps.formatter()
			for _, r := range report.Results {
				switch {
				case r.Error != "":
					formatter.Error(fmt.Sprintf("%s: %s", r.ID, r.Error))
				case r.RemoteError != "":
					formatter.Warning(fmt.Sprintf("%s: deleted locally, Zoom said: %s", r.ID, r.RemoteError))
				default:
					formatter.Success(r.ID)
				}
			}
			formatter.Info(fmt.Sprintf("%d deleted, %d failed", report.SuccessCount, report.ErrorCount))
			if report.ErrorCount > 0 {
				return fmt.Errorf("%d of %d deletions failed", report.ErrorCount, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
