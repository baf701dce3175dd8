package zoom

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/centrinote/centrinote/internal/common"
)

// FallbackNumberDigits is the width of a synthesized meeting number.
const FallbackNumberDigits = 10

// NewMeetingNumber fabricates a meeting number for a placeholder meeting.
func NewMeetingNumber() (string, error) {
	n, err := common.RandomDigits(FallbackNumberDigits)
	if err != nil {
		return "", fmt.Errorf("meeting number: %w", err)
	}
	return n, nil
}

// JoinURL builds the participant link for a meeting number, embedding the
// password when one is set.
func JoinURL(base, number, password string) string {
	u := strings.TrimRight(base, "/") + "/j/" + number
	if password != "" {
		u += "?pwd=" + url.QueryEscape(password)
	}
	return u
}

// HostURL builds the host start link for a meeting number.
func HostURL(base, number string) string {
	return strings.TrimRight(base, "/") + "/s/" + number
}
