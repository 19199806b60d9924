// internal/services/sms_service.go
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aryanmiramini/shopyar-backend/internal/config"
)

// SMSSender is the outbound SMS contract. The gateway client below talks to a
// Kavenegar-style REST API; tests substitute a recorder.
type SMSSender interface {
	SendOTP(phone, code string) error
	SendShippingUpdate(phone, orderNumber, trackingNumber string) error
}

type SMSService struct {
	config *config.Config
	client *http.Client
}

func NewSMSService(cfg *config.Config) *SMSService {
	return &SMSService{
		config: cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SMSService) SendOTP(phone, code string) error {
	return s.send(phone, fmt.Sprintf("کد ورود شاپیار: %s", code))
}

func (s *SMSService) SendShippingUpdate(phone, orderNumber, trackingNumber string) error {
	return s.send(phone, fmt.Sprintf("سفارش %s ارسال شد. کد رهگیری: %s", orderNumber, trackingNumber))
}

func (s *SMSService) send(phone, message string) error {
	if s.config.SMS.GatewayURL == "" {
		// Local development without a gateway
		logrus.WithFields(logrus.Fields{"phone": phone, "message": message}).Info("SMS gateway not configured, skipping send")
		return nil
	}

	payload, err := json.Marshal(map[string]string{
		"receptor": phone,
		"sender":   s.config.SMS.Sender,
		"message":  message,
	})
	if err != nil {
		return fmt.Errorf("failed to encode sms payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.config.SMS.GatewayURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "ApiKey "+s.config.SMS.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}

	return nil
}
