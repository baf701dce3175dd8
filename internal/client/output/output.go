package output

import (
	"fmt"
	"io"
	"time"

	"github.com/centrinote/centrinote/internal/server/models"
)

type Formatter struct {
	w io.Writer
}

func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

func (f *Formatter) Error(msg string) {
	fmt.Fprintf(f.w, "❌ %s\n", msg)
}

func (f *Formatter) Info(msg string) {
	fmt.Fprintf(f.w, "ℹ️  %s\n", msg)
}

func (f *Formatter) Success(msg string) {
	fmt.Fprintf(f.w, "✅ %s\n", msg)
}

func (f *Formatter) Warning(msg string) {
	fmt.Fprintf(f.w, "⚠️  %s\n", msg)
}

// Field prints an indented "name: value" line.
func (f *Formatter) Field(name, value string) {
	fmt.Fprintf(f.w, "  %s: %s\n", name, value)
}

func (f *Formatter) Check(name string, ok bool) {
	if ok {
		fmt.Fprintf(f.w, "  ✅ %s\n", name)
	} else {
		fmt.Fprintf(f.w, "  ❌ %s\n", name)
	}
}

func (f *Formatter) MeetingListHeader(n int) {
	fmt.Fprintf(f.w, "📅 Meetings (%d):\n\n", n)
}

func (f *Formatter) MeetingListItem(m *models.Meeting) {
	marker := ""
	if m.IsFallback() {
		marker = " (offline)"
	}
	if m.RecordingKey != "" {
		marker += " 🎥"
	}
	fmt.Fprintf(f.w, "  %s  %s  %s  %s%s\n",
		m.ID, formatTime(m.StartTime), m.MeetingNumber, m.Topic, marker)
}

func (f *Formatter) Meeting(m *models.Meeting) {
	fmt.Fprintf(f.w, "📅 %s\n", m.Topic)
	f.Field("id", m.ID)
	f.Field("meeting number", m.MeetingNumber)
	f.Field("start", formatTime(m.StartTime))
	f.Field("duration", fmt.Sprintf("%d min", m.Duration))
	f.Field("status", m.Status)
	f.Field("source", string(m.Source))
	f.Field("join url", m.JoinURL)
	if m.StartURL != "" {
		f.Field("start url", m.StartURL)
	}
	if m.Password != "" {
		f.Field("password", m.Password)
	}
	if m.RecordingKey != "" {
		f.Field("recording", m.RecordingKey)
	}
}

func (f *Formatter) Connection(c *models.Connection) {
	fmt.Fprintf(f.w, "🔗 %s <%s>\n", c.DisplayName, c.Email)
	if c.Role != "" {
		f.Field("role", c.Role)
	}
	if c.AccountID != "" {
		f.Field("account", c.AccountID)
	}
	f.Field("connected", formatTime(c.LastConnectedAt))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
