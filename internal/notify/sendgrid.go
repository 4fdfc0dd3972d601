package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SendGridConfig configures the SendGrid v3 mail sender.
type SendGridConfig struct {
	APIKey           string        `env:"API_KEY"`
	BaseURL          string        `env:"BASE_URL" envDefault:"https://api.sendgrid.com"`
	DefaultFromEmail string        `env:"FROM_EMAIL"`
	DefaultFromName  string        `env:"FROM_NAME" envDefault:"Studio"`
	Timeout          time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

// SendGridSender posts to /v3/mail/send. It does not retry.
type SendGridSender struct {
	cfg        SendGridConfig
	httpClient *http.Client
}

// NewSendGridSender validates cfg and fills defaults.
func NewSendGridSender(cfg SendGridConfig) (*SendGridSender, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("sendgrid: api key required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.sendgrid.com"
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &SendGridSender{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type emailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type mailSendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             emailAddress      `json:"from"`
	Subject          string            `json:"subject"`
	Content          []mailContent     `json:"content"`
}

type personalization struct {
	To []emailAddress `json:"to"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type errorResponse struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// HTTPError is a non-2xx SendGrid response.
type HTTPError struct {
	StatusCode int
	Body       string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("sendgrid http %d: %s", e.StatusCode, e.Message)
	}
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		msg = "<empty body>"
	}
	if len(msg) > 500 {
		msg = msg[:500] + "..."
	}
	return fmt.Sprintf("sendgrid http %d: %s", e.StatusCode, msg)
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) Result {
	wire, err := s.buildRequest(msg)
	if err != nil {
		return Result{Err: err}
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(wire); err != nil {
		return Result{Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/v3/mail/send", &buf)
	if err != nil {
		return Result{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Result{Err: fmt.Errorf("sendgrid: %w", err)}
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return Result{Err: fmt.Errorf("sendgrid: reading response: %w", readErr)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		he := &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
		var er errorResponse
		if json.Unmarshal(raw, &er) == nil && len(er.Errors) > 0 {
			he.Message = strings.TrimSpace(er.Errors[0].Message)
		}
		return Result{Err: he}
	}

	return Result{
		Success:   true,
		MessageID: strings.TrimSpace(resp.Header.Get("X-Message-Id")),
	}
}

func (s *SendGridSender) buildRequest(msg Message) (mailSendRequest, error) {
	from := emailAddress{
		Email: strings.TrimSpace(s.cfg.DefaultFromEmail),
		Name:  strings.TrimSpace(s.cfg.DefaultFromName),
	}
	if from.Email == "" {
		return mailSendRequest{}, fmt.Errorf("sendgrid: from email required")
	}
	to := strings.TrimSpace(msg.To)
	if to == "" {
		return mailSendRequest{}, fmt.Errorf("sendgrid: recipient required")
	}
	subject := strings.TrimSpace(msg.Subject)
	if subject == "" {
		return mailSendRequest{}, fmt.Errorf("sendgrid: subject required")
	}

	var contents []mailContent
	if t := strings.TrimSpace(msg.Text); t != "" {
		contents = append(contents, mailContent{Type: "text/plain", Value: t})
	}
	if h := strings.TrimSpace(msg.HTML); h != "" {
		contents = append(contents, mailContent{Type: "text/html", Value: h})
	}
	if len(contents) == 0 {
		return mailSendRequest{}, fmt.Errorf("sendgrid: text or html content required")
	}

	return mailSendRequest{
		Personalizations: []personalization{{To: []emailAddress{{Email: to}}}},
		From:             from,
		Subject:          subject,
		Content:          contents,
	}, nil
}
