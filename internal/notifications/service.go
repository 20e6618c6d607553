package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sterlingmedical/medsupply-backend/pkg/db/models"
	"github.com/sterlingmedical/medsupply-backend/pkg/enums"
	pkgerrors "github.com/sterlingmedical/medsupply-backend/pkg/errors"
	"github.com/sterlingmedical/medsupply-backend/pkg/pagination"
)

// NotificationDTO is one toast feed entry.
type NotificationDTO struct {
	ID        uuid.UUID                  `json:"id"`
	Severity  enums.NotificationSeverity `json:"severity"`
	Message   string                     `json:"message"`
	IsRead    bool                       `json:"is_read"`
	CreatedAt time.Time                  `json:"created_at"`
}

// ListInput paginates the feed.
type ListInput struct {
	UnreadOnly bool
	Limit      int
	Cursor     string
}

// ListResult is one page plus the cursor for the next.
type ListResult struct {
	Notifications []NotificationDTO `json:"notifications"`
	NextCursor    string            `json:"next_cursor,omitempty"`
}

// Service exposes the notification sink and the back-office feed. Notify is
// a fire-and-forget one-way call: callers do not wait on acknowledgement
// and treat failures as non-fatal.
type Service interface {
	Notify(ctx context.Context, severity enums.NotificationSeverity, message string) error
	List(ctx context.Context, input ListInput) (*ListResult, error)
	MarkRead(ctx context.Context, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context) error
}

type repository interface {
	Create(ctx context.Context, notification *models.Notification) error
	List(ctx context.Context, unreadOnly bool, limit int, cursor *pagination.Cursor) ([]models.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context) error
}

type service struct {
	repo repository
}

// NewService builds a notification service backed by the provided repository.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notification repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Notify(ctx context.Context, severity enums.NotificationSeverity, message string) error {
	if !severity.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid severity")
	}
	if strings.TrimSpace(message) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}
	notification := &models.Notification{
		Severity: severity,
		Message:  message,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store notification")
	}
	return nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, input.UnreadOnly, input.Limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	limit := pagination.NormalizeLimit(input.Limit)
	result := &ListResult{Notifications: make([]NotificationDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			break
		}
		result.Notifications = append(result.Notifications, NotificationDTO{
			ID:        rows[i].ID,
			Severity:  rows[i].Severity,
			Message:   rows[i].Message,
			IsRead:    rows[i].IsRead,
			CreatedAt: rows[i].CreatedAt,
		})
	}
	if len(rows) > limit {
		last := result.Notifications[len(result.Notifications)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

func (s *service) MarkRead(ctx context.Context, notificationID uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, notificationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context) error {
	if err := s.repo.MarkAllRead(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return nil
}
