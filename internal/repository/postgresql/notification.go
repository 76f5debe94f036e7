package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/staffsync/attendance-backend-go/internal/domain/notification"
	"github.com/staffsync/attendance-backend-go/internal/pkg/database"
)

type notificationRepository struct {
	db *database.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepository{db: db}
}

const notificationColumns = `id, user_id, message, type, status, sent_at, error_message, created_at`

// Create implements notification.Repository.
func (r *notificationRepository) Create(ctx context.Context, entry *notification.Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Status == "" {
		entry.Status = notification.StatusPending
	}

	query := `
		INSERT INTO notifications (id, user_id, message, type, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Message,
		string(entry.Type),
		string(entry.Status),
	).Scan(&entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification entry: %w", err)
	}

	return nil
}

// GetByID implements notification.Repository.
func (r *notificationRepository) GetByID(ctx context.Context, id string) (*notification.Entry, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1 LIMIT 1`

	var e notification.Entry
	err := r.db.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.UserID, &e.Message, &e.Type, &e.Status,
		&e.SentAt, &e.ErrorMessage, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notification.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get notification entry: %w", err)
	}

	return &e, nil
}

// MarkSent implements notification.Repository. The status guard makes the
// call idempotent: terminal rows match zero rows and stay untouched.
func (r *notificationRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	query := `
		UPDATE notifications
		SET status = 'sent', sent_at = $2, error_message = NULL
		WHERE id = $1 AND status = 'pending'
	`

	if _, err := r.db.Exec(ctx, query, id, sentAt); err != nil {
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}

	return nil
}

// MarkFailed implements notification.Repository. Idempotent like MarkSent.
func (r *notificationRepository) MarkFailed(ctx context.Context, id string, errorMessage string) error {
	query := `
		UPDATE notifications
		SET status = 'failed', error_message = $2
		WHERE id = $1 AND status = 'pending'
	`

	if _, err := r.db.Exec(ctx, query, id, errorMessage); err != nil {
		return fmt.Errorf("failed to mark notification failed: %w", err)
	}

	return nil
}

// ListPending implements notification.Repository. Oldest first so the
// catch-up cycle preserves per-user ordering (login before logout).
func (r *notificationRepository) ListPending(ctx context.Context, limit int) ([]*notification.Entry, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE status = 'pending' ORDER BY created_at ASC LIMIT $1`

	return r.list(ctx, query, limit)
}

// ListByUser implements notification.Repository.
func (r *notificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*notification.Entry, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`

	return r.list(ctx, query, userID, limit)
}

func (r *notificationRepository) list(ctx context.Context, query string, args ...interface{}) ([]*notification.Entry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notification entries: %w", err)
	}
	defer rows.Close()

	var entries []*notification.Entry
	for rows.Next() {
		var e notification.Entry
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Message, &e.Type, &e.Status,
			&e.SentAt, &e.ErrorMessage, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}
