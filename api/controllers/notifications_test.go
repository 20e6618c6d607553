package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/sterlingmedical/medsupply-backend/internal/notifications"
	"github.com/sterlingmedical/medsupply-backend/pkg/enums"
)

type stubNotificationsService struct {
	lastInput notifications.ListInput
}

func (s *stubNotificationsService) Notify(ctx context.Context, severity enums.NotificationSeverity, message string) error {
	return nil
}

func (s *stubNotificationsService) List(ctx context.Context, input notifications.ListInput) (*notifications.ListResult, error) {
	s.lastInput = input
	return &notifications.ListResult{Notifications: []notifications.NotificationDTO{}}, nil
}

func (s *stubNotificationsService) MarkRead(ctx context.Context, notificationID uuid.UUID) error {
	return nil
}

func (s *stubNotificationsService) MarkAllRead(ctx context.Context) error {
	return nil
}

func TestAdminListNotificationsForwardsUnreadFilter(t *testing.T) {
	svc := &stubNotificationsService{}
	handler := AdminListNotifications(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/notifications?unread_only=true&limit=10", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !svc.lastInput.UnreadOnly {
		t.Fatal("expected unread filter to reach the service")
	}
	if svc.lastInput.Limit != 10 {
		t.Fatalf("expected limit 10 got %d", svc.lastInput.Limit)
	}
}

func TestAdminListNotificationsRejectsBadBool(t *testing.T) {
	handler := AdminListNotifications(&stubNotificationsService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/notifications?unread_only=maybe", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
