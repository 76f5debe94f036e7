package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/staffsync/attendance-backend-go/internal/domain/attendance"
	"github.com/staffsync/attendance-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `id, user_id, date, login_time, logout_time, status, work_type, notes, created_at, updated_at`

// Create implements attendance.Repository. The UNIQUE (user_id, date)
// constraint is the uniqueness invariant's single source of truth; a
// violation is reported as ErrDuplicateRecord for the engine to absorb.
func (r *attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	query := `
		INSERT INTO attendance (id, user_id, date, login_time, logout_time, status, work_type, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		rec.ID,
		rec.UserID,
		rec.Date,
		rec.LoginTime,
		rec.LogoutTime,
		string(rec.Status),
		string(rec.WorkType),
		rec.Notes,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		if database.IsUniqueViolation(err) {
			return attendance.Record{}, attendance.ErrDuplicateRecord
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return rec, nil
}

// GetByID implements attendance.Repository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance WHERE id = $1 LIMIT 1`

	rec, err := scanRecord(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	return rec, nil
}

// GetByUserAndDate implements attendance.Repository.
func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.Record, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance WHERE user_id = $1 AND date = $2 LIMIT 1`

	rec, err := scanRecord(r.db.QueryRow(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}

	return rec, nil
}

// Update implements attendance.Repository.
func (r *attendanceRepository) Update(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	query := `
		UPDATE attendance
		SET login_time = $2, logout_time = $3, status = $4, work_type = $5, notes = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		rec.ID,
		rec.LoginTime,
		rec.LogoutTime,
		string(rec.Status),
		string(rec.WorkType),
		rec.Notes,
	).Scan(&rec.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	return rec, nil
}

// ListByDate implements attendance.Repository.
func (r *attendanceRepository) ListByDate(ctx context.Context, date time.Time, filter attendance.ListFilter) ([]attendance.RecordWithUser, error) {
	query := `
		SELECT a.id, a.user_id, a.date, a.login_time, a.logout_time, a.status, a.work_type, a.notes,
		       a.created_at, a.updated_at, u.name, u.department
		FROM attendance a
		JOIN users u ON u.id = a.user_id
		WHERE a.date = $1
	`
	args := []interface{}{date}

	if filter.Department != "" {
		args = append(args, filter.Department)
		query += fmt.Sprintf(" AND u.department = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND a.status = $%d", len(args))
	}

	query += " ORDER BY u.name"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance by date: %w", err)
	}
	defer rows.Close()

	var records []attendance.RecordWithUser
	for rows.Next() {
		var rec attendance.RecordWithUser
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.Date, &rec.LoginTime, &rec.LogoutTime,
			&rec.Status, &rec.WorkType, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt,
			&rec.UserName, &rec.UserDepartment,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// ListByUserSince implements attendance.Repository.
func (r *attendanceRepository) ListByUserSince(ctx context.Context, userID string, from time.Time) ([]attendance.Record, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance WHERE user_id = $1 AND date >= $2 ORDER BY date DESC`

	rows, err := r.db.Query(ctx, query, userID, from)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance by user: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.Date, &rec.LoginTime, &rec.LogoutTime,
			&rec.Status, &rec.WorkType, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// ListAbsenteeUserIDs implements attendance.Repository. A single
// set-difference query; never one round trip per user.
func (r *attendanceRepository) ListAbsenteeUserIDs(ctx context.Context, date time.Time) ([]string, error) {
	query := `
		SELECT u.id
		FROM users u
		LEFT JOIN attendance a ON a.user_id = u.id AND a.date = $1
		WHERE u.role = 'staff' AND u.status = 'active' AND a.id IS NULL
		ORDER BY u.id
	`

	rows, err := r.db.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list absentee user ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Date, &rec.LoginTime, &rec.LogoutTime,
		&rec.Status, &rec.WorkType, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}
