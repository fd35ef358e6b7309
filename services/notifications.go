package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ExpoPushMessage represents a push notification message
type ExpoPushMessage struct {
	To    string                 `json:"to"`
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Data  map[string]interface{} `json:"data,omitempty"`
	Sound string                 `json:"sound,omitempty"`
	Badge int                    `json:"badge,omitempty"`
}

// ExpoPushResponse represents the response from the Expo push service
type ExpoPushResponse struct {
	Data []struct {
		Status string `json:"status"`
		ID     string `json:"id"`
		Error  string `json:"message,omitempty"`
	} `json:"data"`
}

// NotificationService sends push notifications through Expo
type NotificationService struct {
	ExpoPushURL string
	client      *http.Client
}

func NewNotificationService() *NotificationService {
	return &NotificationService{
		ExpoPushURL: "https://exp.host/--/api/v2/push/send",
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// SendPushNotification sends a push notification to a single device
func (ns *NotificationService) SendPushNotification(pushToken, title, body string, data map[string]interface{}) error {
	if pushToken == "" {
		return fmt.Errorf("push token is empty")
	}

	message := ExpoPushMessage{
		To:    pushToken,
		Title: title,
		Body:  body,
		Data:  data,
		Sound: "default",
		Badge: 1,
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	resp, err := ns.client.Post(ns.ExpoPushURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to send push notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("expo push returned %d: %s", resp.StatusCode, string(raw))
	}

	var pushResp ExpoPushResponse
	if err := json.NewDecoder(resp.Body).Decode(&pushResp); err != nil {
		return fmt.Errorf("failed to decode push response: %w", err)
	}

	for _, item := range pushResp.Data {
		if item.Status == "error" {
			return fmt.Errorf("expo push rejected message: %s", item.Error)
		}
	}
	return nil
}
