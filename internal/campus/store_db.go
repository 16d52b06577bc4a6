package campus

import (
	"context"
	"database/sql"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 5 * time.Second
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

const sessionCols = `
	id, title, description, session_type, start_date, end_date,
	location, coach_name, max_participants, current_participants,
	price, is_featured, status
`

func scanSession(row interface{ Scan(...any) error }) (Session, error) {
	var sess Session
	err := row.Scan(
		&sess.ID, &sess.Title, &sess.Description, &sess.SessionType,
		&sess.StartDate, &sess.EndDate, &sess.Location, &sess.CoachName,
		&sess.MaxParticipants, &sess.CurrentParticipants,
		&sess.Price, &sess.Featured, &sess.Status,
	)
	return sess, err
}

func (s *PostgresStore) ListSessions(ctx context.Context) ([]Session, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sessionCols+`
		FROM campus_sessions
		ORDER BY start_date ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Session, 0, 8)
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetSession(ctx context.Context, id string) (Session, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	sess, err := scanSession(s.db.QueryRowContext(ctx, `
		SELECT `+sessionCols+`
		FROM campus_sessions
		WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}
	return sess, true, nil
}

func (s *PostgresStore) CreateBooking(ctx context.Context, b Booking) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Take the spot and store the booking in one transaction; the guarded
	// update is what keeps the session from overbooking under concurrency.
	res, err := tx.ExecContext(ctx, `
		UPDATE campus_sessions
		SET current_participants = current_participants + 1
		WHERE id = $1 AND current_participants < max_participants
	`, b.SessionID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionFull
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO campus_bookings (
			id, reference, session_id,
			participant_name, participant_email, participant_phone, participant_age,
			guardian_name, guardian_email, guardian_phone,
			notes, status, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		b.ID, b.Reference, b.SessionID,
		b.ParticipantName, b.ParticipantEmail, b.ParticipantPhone, b.ParticipantAge,
		b.GuardianName, b.GuardianEmail, b.GuardianPhone,
		b.Notes, b.Status, b.CreatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *PostgresStore) GetBooking(ctx context.Context, reference string) (Booking, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var b Booking
	err := s.db.QueryRowContext(ctx, `
		SELECT id, reference, session_id,
			participant_name, participant_email, participant_phone, participant_age,
			guardian_name, guardian_email, guardian_phone,
			notes, status, created_at
		FROM campus_bookings
		WHERE reference = $1
	`, reference).Scan(
		&b.ID, &b.Reference, &b.SessionID,
		&b.ParticipantName, &b.ParticipantEmail, &b.ParticipantPhone, &b.ParticipantAge,
		&b.GuardianName, &b.GuardianEmail, &b.GuardianPhone,
		&b.Notes, &b.Status, &b.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return Booking{}, false, nil
	}
	if err != nil {
		return Booking{}, false, err
	}
	return b, true, nil
}
