package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/harentsoaR/gym-api/internal/models"
)

// NotificationService pushes newly created notifications to an outbound
// webhook (a mailer, SMS gateway or chat bridge). With no URL configured it
// does nothing.
type NotificationService struct {
	webhookURL string
	client     *http.Client
}

func NewNotificationService(webhookURL string) *NotificationService {
	return &NotificationService{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type deliveryPayload struct {
	NotificationID string    `json:"notificationId"`
	MemberID       string    `json:"memberId"`
	Username       string    `json:"username"`
	Type           string    `json:"type"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (s *NotificationService) Enabled() bool {
	return s != nil && s.webhookURL != ""
}

// Deliver sends in a goroutine so it doesn't block the API response.
func (s *NotificationService) Deliver(member *models.User, n *models.Notification) {
	if !s.Enabled() {
		return
	}
	payload := deliveryPayload{
		NotificationID: n.ID.Hex(),
		MemberID:       member.ID.Hex(),
		Username:       member.Username,
		Type:           n.Type,
		Message:        n.Message,
		CreatedAt:      n.CreatedAt,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.post(ctx, payload); err != nil {
			log.Warn().Err(err).Str("notification_id", payload.NotificationID).Msg("notification delivery failed")
			return
		}
		log.Debug().Str("notification_id", payload.NotificationID).Msg("notification delivered")
	}()
}

func (s *NotificationService) post(ctx context.Context, payload deliveryPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}
