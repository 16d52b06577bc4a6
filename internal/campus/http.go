package campus

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"KeeperStore/pkg/kit"
)

const maxBodyBytes = 1 << 20

type Server struct {
	Store Store
	Log   *zap.Logger
}

// sessionView adds the derived availability fields the storefront renders.
type sessionView struct {
	Session
	IsFull         bool `json:"is_full"`
	IsPast         bool `json:"is_past"`
	AvailableSpots int  `json:"available_spots"`
}

type scheduleResponse struct {
	Sessions []sessionView `json:"sessions"`
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Store.Ping(ctx); err != nil {
			if s.Log != nil {
				s.Log.Warn("readyz failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/campus/schedule", s.schedule)
	r.Get("/campus/bookings/{reference}", s.getBooking)

	return r
}

func (s *Server) schedule(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.Store.ListSessions(r.Context())
	if err != nil {
		if s.Log != nil {
			s.Log.Error("list sessions failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	q := r.URL.Query()
	featuredOnly := q.Get("featured_only") == "true"
	includePast := q.Get("include_past") != "false"

	now := time.Now()
	views := make([]sessionView, 0, len(sessions))
	for _, sess := range sessions {
		if featuredOnly && !sess.Featured {
			continue
		}
		if !includePast && sess.IsPast(now) {
			continue
		}
		views = append(views, sessionView{
			Session:        sess,
			IsFull:         sess.IsFull(),
			IsPast:         sess.IsPast(now),
			AvailableSpots: sess.AvailableSpots(),
		})
	}

	kit.WriteJSON(w, http.StatusOK, scheduleResponse{Sessions: views})
}

type bookingReq struct {
	SessionID        string `json:"session_id"`
	ParticipantName  string `json:"participant_name"`
	ParticipantEmail string `json:"participant_email"`
	ParticipantPhone string `json:"participant_phone"`
	ParticipantAge   int    `json:"participant_age"`
	GuardianName     string `json:"guardian_name"`
	GuardianEmail    string `json:"guardian_email"`
	GuardianPhone    string `json:"guardian_phone"`
	Notes            string `json:"notes"`
}

type bookingResponse struct {
	ID               string `json:"id"`
	Reference        string `json:"reference"`
	ParticipantEmail string `json:"participant_email"`
	SessionID        string `json:"session_id"`
	Status           string `json:"status"`
}

func (s *Server) createBooking(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req bookingReq
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	if strings.TrimSpace(req.SessionID) == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "session_id required", nil)
		return
	}

	b := Booking{
		ID:               "bk_" + uuid.NewString(),
		Reference:        newReference(),
		SessionID:        strings.TrimSpace(req.SessionID),
		ParticipantName:  req.ParticipantName,
		ParticipantEmail: req.ParticipantEmail,
		ParticipantPhone: req.ParticipantPhone,
		ParticipantAge:   req.ParticipantAge,
		GuardianName:     req.GuardianName,
		GuardianEmail:    req.GuardianEmail,
		GuardianPhone:    req.GuardianPhone,
		Notes:            req.Notes,
		Status:           bookingPending,
		CreatedAt:        time.Now().UTC(),
	}

	if problems := b.Validate(); len(problems) > 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid booking", problems)
		return
	}

	sess, found, err := s.Store.GetSession(r.Context(), b.SessionID)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("get session failed", zap.Error(err), zap.String("session_id", b.SessionID))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "session not found", map[string]any{"session_id": b.SessionID})
		return
	}
	if !sess.Bookable(time.Now()) {
		kit.WriteError(w, r, http.StatusConflict, "session not bookable", map[string]any{"status": sess.Status})
		return
	}

	if err := s.Store.CreateBooking(r.Context(), b); err != nil {
		if errors.Is(err, ErrSessionFull) {
			kit.WriteError(w, r, http.StatusConflict, "session full", nil)
			return
		}
		if s.Log != nil {
			s.Log.Error("create booking failed", zap.Error(err), zap.String("session_id", b.SessionID))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusCreated, bookingResponse{
		ID:               b.ID,
		Reference:        b.Reference,
		ParticipantEmail: b.ParticipantEmail,
		SessionID:        b.SessionID,
		Status:           b.Status,
	})
}

func (s *Server) getBooking(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "reference")

	b, found, err := s.Store.GetBooking(r.Context(), ref)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("get booking failed", zap.Error(err), zap.String("reference", ref))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"reference": ref})
		return
	}
	kit.WriteJSON(w, http.StatusOK, b)
}

// newReference builds the short code participants quote in emails.
func newReference() string {
	id := uuid.NewString()
	return "TK-" + strings.ToUpper(id[:8])
}
