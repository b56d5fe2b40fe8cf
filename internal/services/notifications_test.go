package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/gym-api/internal/models"
)

func fixtures() (*models.User, *models.Notification) {
	member := &models.User{Base: models.NewBase(time.Now()), Username: "alice", Role: models.RoleMember}
	n := &models.Notification{Base: models.NewBase(time.Now()), Member: member.ID, Message: "Fee due Friday", Type: "Fee Reminder"}
	return member, n
}

func TestDeliver_PostsPayload(t *testing.T) {
	received := make(chan deliveryPayload, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var p deliveryPayload
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		received <- p
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	svc := NewNotificationService(srv.URL)
	require.True(t, svc.Enabled())

	member, n := fixtures()
	svc.Deliver(member, n)

	select {
	case p := <-received:
		assert.Equal(t, n.ID.Hex(), p.NotificationID)
		assert.Equal(t, member.ID.Hex(), p.MemberID)
		assert.Equal(t, "alice", p.Username)
		assert.Equal(t, "Fee Reminder", p.Type)
		assert.Equal(t, "Fee due Friday", p.Message)
	case <-time.After(5 * time.Second):
		t.Fatal("webhook was not called")
	}
}

func TestPost_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewNotificationService(srv.URL).post(context.Background(), deliveryPayload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestDisabled(t *testing.T) {
	svc := NewNotificationService("")
	assert.False(t, svc.Enabled())

	var nilSvc *NotificationService
	assert.False(t, nilSvc.Enabled())

	member, n := fixtures()
	svc.Deliver(member, n)
	nilSvc.Deliver(member, n)
}
