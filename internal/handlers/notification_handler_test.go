package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bookxchange/backend/internal/models"
	"github.com/bookxchange/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockNotificationLedger mocks the NotificationLedger interface
type MockNotificationLedger struct {
	mock.Mock
}

func (m *MockNotificationLedger) GetUnread(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, time.Time, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Notification), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockNotificationLedger) MarkReadUpTo(ctx context.Context, userID primitive.ObjectID, cutoff time.Time) ([]models.Notification, time.Time, error) {
	args := m.Called(ctx, userID, cutoff)
	return args.Get(0).([]models.Notification), args.Get(1).(time.Time), args.Error(2)
}

func TestGetNotifications(t *testing.T) {
	userID := primitive.NewObjectID()
	ts := time.Date(2021, 1, 25, 14, 56, 59, 0, time.UTC)
	unread := []models.Notification{
		{Text: "Jett liked your book, The Guest List", UserID: primitive.NewObjectID(), Timestamp: ts},
	}

	ledger := new(MockNotificationLedger)
	ledger.On("GetUnread", mock.Anything, userID).Return(unread, ts, nil)

	h := NewNotificationHandler(ledger)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users/notifications", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("userID", userID)

	require.NoError(t, h.GetNotifications(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Jett liked your book, The Guest List")
	assert.Contains(t, rec.Body.String(), "latestTimestamp")
	ledger.AssertExpectations(t)
}

func TestMarkNotificationsRead(t *testing.T) {
	userID := primitive.NewObjectID()
	cutoff := time.Date(2021, 1, 20, 14, 56, 59, 0, time.UTC)

	ledger := new(MockNotificationLedger)
	ledger.On("MarkReadUpTo", mock.Anything, userID, cutoff).
		Return([]models.Notification{}, time.Time{}, nil)

	h := NewNotificationHandler(ledger)

	e := echo.New()
	e.Validator = validators.NewValidator()
	body := `{"timestamp":"2021-01-20T14:56:59Z"}`
	req := httptest.NewRequest(http.MethodPost, "/users/notifications", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("userID", userID)

	require.NoError(t, h.MarkNotificationsRead(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	ledger.AssertExpectations(t)
}
