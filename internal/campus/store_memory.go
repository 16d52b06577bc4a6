package campus

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type MemStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	bookings map[string]Booking // by reference
}

func NewMemStore() *MemStore {
	s := &MemStore{
		sessions: map[string]Session{},
		bookings: map[string]Booking{},
	}
	for _, sess := range seedSessions(time.Now()) {
		s.sessions[sess.ID] = sess
	}
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) ListSessions(ctx context.Context) ([]Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (s *MemStore) GetSession(ctx context.Context, id string) (Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	return sess, ok, nil
}

func (s *MemStore) CreateBooking(ctx context.Context, b Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[b.SessionID]
	if !ok || sess.IsFull() {
		return ErrSessionFull
	}

	sess.CurrentParticipants++
	s.sessions[b.SessionID] = sess
	s.bookings[b.Reference] = b
	return nil
}

func (s *MemStore) GetBooking(ctx context.Context, reference string) (Booking, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[reference]
	return b, ok, nil
}

func seedSessions(now time.Time) []Session {
	day := func(d int) time.Time { return now.AddDate(0, 0, d).Truncate(time.Hour) }

	return []Session{
		{
			ID:              "cs_morning_w1",
			Title:           "Summer Campus Bilbao — Morning",
			Description:     "Technical goalkeeper work: footwork, handling, distribution",
			SessionType:     "morning",
			StartDate:       day(14),
			EndDate:         day(18),
			Location:        "Bilbao",
			CoachName:       "Iker Ortiz",
			MaxParticipants: 24,
			Price:           decimal.NewFromInt(180),
			Featured:        true,
			Status:          StatusOpen,
		},
		{
			ID:              "cs_afternoon_w1",
			Title:           "Summer Campus Bilbao — Afternoon",
			Description:     "Positioning, 1v1 and crosses under match pressure",
			SessionType:     "afternoon",
			StartDate:       day(14),
			EndDate:         day(18),
			Location:        "Bilbao",
			CoachName:       "Maite Zabala",
			MaxParticipants: 24,
			Price:           decimal.NewFromInt(180),
			Status:          StatusOpen,
		},
		{
			ID:                  "cs_fullday_w2",
			Title:               "Summer Campus Bilbao — Full Day Intensive",
			Description:         "Full-day intensive with video analysis",
			SessionType:         "full_day",
			StartDate:           day(21),
			EndDate:             day(25),
			Location:            "Bilbao",
			CoachName:           "Iker Ortiz",
			MaxParticipants:     16,
			CurrentParticipants: 16,
			Price:               decimal.NewFromInt(320),
			Status:              StatusOpen,
		},
		{
			ID:              "cs_evening_past",
			Title:           "Spring Clinic — Evening",
			Description:     "Evening clinic for club keepers",
			SessionType:     "evening",
			StartDate:       day(-30),
			EndDate:         day(-26),
			Location:        "Bilbao",
			CoachName:       "Maite Zabala",
			MaxParticipants: 20,
			Price:           decimal.NewFromInt(90),
			Status:          StatusCompleted,
		},
	}
}
