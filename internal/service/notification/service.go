package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/staffsync/attendance-backend-go/internal/domain/notification"
	"github.com/staffsync/attendance-backend-go/internal/domain/user"
)

const (
	defaultQueueSize   = 256
	defaultSendTimeout = 15 * time.Second
	catchUpBatchSize   = 100
)

// Config tunes the dispatcher.
type Config struct {
	// QueueSize bounds the in-process dispatch channel. When full, entries
	// stay pending in the store and are picked up by the catch-up cycle.
	QueueSize int
	// SendTimeout bounds one delivery attempt.
	SendTimeout time.Duration
}

type service struct {
	repo   notification.Repository
	users  user.Repository
	sender notification.Sender
	logger *slog.Logger

	sendTimeout time.Duration

	// pending carries entry ids in enqueue order to the single dispatcher
	// goroutine. One consumer keeps per-user delivery ordered.
	pending chan string
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewService creates the notification queue and starts its dispatcher.
func NewService(repo notification.Repository, users user.Repository, sender notification.Sender, cfg Config, logger *slog.Logger) notification.Service {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}

	s := &service{
		repo:        repo,
		users:       users,
		sender:      sender,
		logger:      logger,
		sendTimeout: cfg.SendTimeout,
		pending:     make(chan string, cfg.QueueSize),
		stopCh:      make(chan struct{}),
	}

	s.wg.Add(1)
	go s.dispatchLoop()

	return s
}

// Enqueue implements notification.Queue. The entry is persisted as pending
// before this returns; delivery is asynchronous.
func (s *service) Enqueue(ctx context.Context, userID, message string, typ notification.Type) (*notification.Entry, error) {
	if !typ.Valid() {
		return nil, notification.ErrInvalidType
	}

	entry := &notification.Entry{
		UserID:  userID,
		Message: message,
		Type:    typ,
		Status:  notification.StatusPending,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to persist notification: %w", err)
	}

	select {
	case s.pending <- entry.ID:
	default:
		// Channel full; the catch-up cycle will deliver it from the store.
		s.logger.Warn("notification dispatch queue full, deferring to catch-up",
			slog.String("entry_id", entry.ID))
	}

	return entry, nil
}

// DispatchPending implements notification.Service. It drains the store's
// pending backlog oldest first, re-attempting entries that never made it
// through the live channel (process restarts, full queue).
func (s *service) DispatchPending(ctx context.Context) (int, error) {
	entries, err := s.repo.ListPending(ctx, catchUpBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending notifications: %w", err)
	}

	for _, entry := range entries {
		s.deliver(ctx, entry)
	}

	return len(entries), nil
}

// ListForUser implements notification.Service.
func (s *service) ListForUser(ctx context.Context, userID string, limit int) (notification.ListResponse, error) {
	if limit <= 0 || limit > catchUpBatchSize {
		limit = catchUpBatchSize
	}

	entries, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return notification.ListResponse{}, err
	}

	resp := notification.ListResponse{Notifications: make([]notification.EntryResponse, 0, len(entries))}
	for _, entry := range entries {
		resp.Notifications = append(resp.Notifications, entry.ToResponse())
	}
	resp.Total = len(resp.Notifications)
	return resp, nil
}

// Stop implements notification.Service. It stops the dispatcher and waits
// for the in-flight delivery to finish. Entries still queued stay pending
// in the store.
func (s *service) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *service) dispatchLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.stopCh:
			return
		case id := <-s.pending:
			entry, err := s.repo.GetByID(context.Background(), id)
			if err != nil {
				s.logger.Error("failed to load queued notification",
					slog.String("entry_id", id),
					slog.Any("error", err))
				continue
			}
			s.deliver(context.Background(), entry)
		}
	}
}

// deliver attempts one delivery and records the terminal outcome. Entries
// already terminal are skipped, which makes redelivery attempts harmless.
func (s *service) deliver(ctx context.Context, entry *notification.Entry) {
	if entry.Status.Terminal() {
		return
	}

	recipient, err := s.users.GetByID(ctx, entry.UserID)
	if err != nil {
		s.fail(ctx, entry, fmt.Sprintf("recipient lookup failed: %v", err))
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	if err := s.sender.Send(sendCtx, recipient.Phone, entry.Message); err != nil {
		s.fail(ctx, entry, err.Error())
		return
	}

	sentAt := time.Now().UTC()
	if err := s.repo.MarkSent(ctx, entry.ID, sentAt); err != nil {
		s.logger.Error("failed to mark notification sent",
			slog.String("entry_id", entry.ID),
			slog.Any("error", err))
		return
	}

	s.logger.Info("notification delivered",
		slog.String("entry_id", entry.ID),
		slog.String("user_id", entry.UserID),
		slog.String("type", string(entry.Type)))
}

func (s *service) fail(ctx context.Context, entry *notification.Entry, reason string) {
	s.logger.Warn("notification delivery failed",
		slog.String("entry_id", entry.ID),
		slog.String("user_id", entry.UserID),
		slog.String("reason", reason))

	if err := s.repo.MarkFailed(ctx, entry.ID, reason); err != nil {
		s.logger.Error("failed to mark notification failed",
			slog.String("entry_id", entry.ID),
			slog.Any("error", err))
	}
}
