package campus

import (
	"net/mail"
	"strings"
	"time"
)

const (
	minAge         = 8
	maxAge         = 50
	adultAge       = 18
	bookingPending = "pending"
)

type Booking struct {
	ID               string    `json:"id"`
	Reference        string    `json:"reference"`
	SessionID        string    `json:"session_id"`
	ParticipantName  string    `json:"participant_name"`
	ParticipantEmail string    `json:"participant_email"`
	ParticipantPhone string    `json:"participant_phone,omitempty"`
	ParticipantAge   int       `json:"participant_age"`
	GuardianName     string    `json:"guardian_name,omitempty"`
	GuardianEmail    string    `json:"guardian_email,omitempty"`
	GuardianPhone    string    `json:"guardian_phone,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// Validate trims and checks the participant fields: name and a well-formed
// email are required, age within [8, 50], and guardian name plus email for
// minors. The returned map holds one message per offending field.
func (b *Booking) Validate() map[string]string {
	problems := map[string]string{}

	b.ParticipantName = strings.TrimSpace(b.ParticipantName)
	b.ParticipantEmail = strings.TrimSpace(b.ParticipantEmail)
	b.ParticipantPhone = strings.TrimSpace(b.ParticipantPhone)
	b.GuardianName = strings.TrimSpace(b.GuardianName)
	b.GuardianEmail = strings.TrimSpace(b.GuardianEmail)
	b.GuardianPhone = strings.TrimSpace(b.GuardianPhone)
	b.Notes = strings.TrimSpace(b.Notes)

	if b.ParticipantName == "" {
		problems["participant_name"] = "required"
	}
	if b.ParticipantEmail == "" {
		problems["participant_email"] = "required"
	} else if _, err := mail.ParseAddress(b.ParticipantEmail); err != nil {
		problems["participant_email"] = "invalid email"
	}

	if b.ParticipantAge < minAge || b.ParticipantAge > maxAge {
		problems["participant_age"] = "must be between 8 and 50"
	} else if b.ParticipantAge < adultAge {
		if b.GuardianName == "" {
			problems["guardian_name"] = "required for participants under 18"
		}
		if b.GuardianEmail == "" {
			problems["guardian_email"] = "required for participants under 18"
		} else if _, err := mail.ParseAddress(b.GuardianEmail); err != nil {
			problems["guardian_email"] = "invalid email"
		}
	}

	return problems
}
