package campus

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	StatusOpen      = "open"
	StatusFull      = "full"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Session is one training-camp slot on the schedule.
type Session struct {
	ID                  string          `json:"id"`
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	SessionType         string          `json:"session_type"` // morning, afternoon, evening, full_day
	StartDate           time.Time       `json:"start_date"`
	EndDate             time.Time       `json:"end_date"`
	Location            string          `json:"location"`
	CoachName           string          `json:"coach_name"`
	MaxParticipants     int             `json:"max_participants"`
	CurrentParticipants int             `json:"current_participants"`
	Price               decimal.Decimal `json:"price"`
	Featured            bool            `json:"is_featured"`
	Status              string          `json:"status"`
}

func (s Session) IsFull() bool {
	return s.CurrentParticipants >= s.MaxParticipants
}

func (s Session) IsPast(now time.Time) bool {
	return s.EndDate.Before(now)
}

func (s Session) AvailableSpots() int {
	n := s.MaxParticipants - s.CurrentParticipants
	if n < 0 {
		return 0
	}
	return n
}

// Bookable reports whether a new booking may be taken for the session.
func (s Session) Bookable(now time.Time) bool {
	return s.Status == StatusOpen && !s.IsFull() && !s.IsPast(now)
}
