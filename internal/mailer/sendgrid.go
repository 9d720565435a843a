package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	sendGridEndpoint = "https://api.sendgrid.com/v3/mail/send"
	defaultTimeout   = 15 * time.Second
)

// SendGridMailer delivers OTP emails through the SendGrid v3 API using a
// dynamic template carrying the recipient name and passcode.
type SendGridMailer struct {
	http       *http.Client
	endpoint   string
	apiKey     string
	fromEmail  string
	templateID string
}

// NewSendGridMailer creates a new SendGridMailer
func NewSendGridMailer(apiKey, fromEmail, templateID string) *SendGridMailer {
	return &SendGridMailer{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		endpoint:   sendGridEndpoint,
		apiKey:     apiKey,
		fromEmail:  fromEmail,
		templateID: templateID,
	}
}

type sendGridAddress struct {
	Email string `json:"email"`
}

type sendGridPersonalization struct {
	To           []sendGridAddress      `json:"to"`
	TemplateData map[string]interface{} `json:"dynamic_template_data"`
}

type sendGridPayload struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	TemplateID       string                    `json:"template_id"`
}

// SendOTP posts the templated OTP mail. Any non-2xx response is an error.
func (m *SendGridMailer) SendOTP(ctx context.Context, email, name string, otp int) error {
	payload := sendGridPayload{
		Personalizations: []sendGridPersonalization{
			{
				To: []sendGridAddress{{Email: email}},
				TemplateData: map[string]interface{}{
					"name": name,
					"otp":  otp,
				},
			},
		},
		From:       sendGridAddress{Email: m.fromEmail},
		TemplateID: m.templateID,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create mail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.http.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send mail: sendgrid returned %d: %s", resp.StatusCode, detail)
	}
	return nil
}
