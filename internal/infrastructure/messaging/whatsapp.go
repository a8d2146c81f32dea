package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/osworks/backend/internal/infrastructure/config"
	"github.com/osworks/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// WhatsAppNotifier sends text messages through the WhatsApp Cloud API
type WhatsAppNotifier struct {
	accessToken   string
	phoneNumberID string
	baseURL       string
	client        *http.Client
}

// NewWhatsAppNotifier creates a WhatsApp Cloud API notifier
func NewWhatsAppNotifier(cfg config.WhatsAppConfig) *WhatsAppNotifier {
	version := cfg.APIVersion
	if version == "" {
		version = "v20.0"
	}
	return &WhatsAppNotifier{
		accessToken:   cfg.AccessToken,
		phoneNumberID: cfg.PhoneNumberID,
		baseURL:       "https://graph.facebook.com/" + version,
		client:        &http.Client{Timeout: 30 * time.Second},
	}
}

type textMessage struct {
	MessagingProduct string      `json:"messaging_product"`
	To               string      `json:"to"`
	Type             string      `json:"type"`
	Text             messageBody `json:"text"`
}

type messageBody struct {
	Body string `json:"body"`
}

// Send delivers a text message. The phone number is normalized before
// the call; a number that cannot be normalized is an error the worker
// turns into a skip upstream by checking the phone first.
func (n *WhatsAppNotifier) Send(ctx context.Context, input SendInput) error {
	to, err := NormalizePhone(input.Phone)
	if err != nil {
		return fmt.Errorf("normalize phone: %w", err)
	}

	payload, err := json.Marshal(textMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             messageBody{Body: input.Body},
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", n.baseURL, n.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+n.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("whatsapp api error: status=%d body=%s", resp.StatusCode, string(body))
	}

	logger.L(ctx).Info("whatsapp message sent",
		zap.String("kind", input.Kind),
		zap.String("client_id", input.ClientID.String()),
		zap.String("ref_id", input.RefID.String()),
	)
	return nil
}
