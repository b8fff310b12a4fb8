package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sushka2023/sushka-shop-backend/pkg/config"
	pkgerrors "github.com/sushka2023/sushka-shop-backend/pkg/errors"
	"github.com/sushka2023/sushka-shop-backend/pkg/logger"
)

var (
	errAPIURLRequired = errors.New("mail api url is required")
	errFromRequired   = errors.New("mail from address is required")
	errLoggerRequired = errors.New("mail logger is required")
)

// Message is one transactional email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers transactional email. Satisfied by Client and by test fakes.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Client posts messages to the transactional mail provider.
type Client struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	from       string
	logger     *logger.Logger
}

// NewClient initializes the mail wrapper and validates its configuration.
func NewClient(ctx context.Context, cfg config.MailConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}

	apiURL := strings.TrimSpace(cfg.APIURL)
	if apiURL == "" {
		return nil, errAPIURLRequired
	}
	from := strings.TrimSpace(cfg.FromAddress)
	if from == "" {
		return nil, errFromRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     apiURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		from:       from,
		logger:     logg,
	}

	logg.Info(ctx, "mail client initialized")
	return c, nil
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html,omitempty"`
	Text    string `json:"text,omitempty"`
}

// Send delivers one message. The recipient address is never logged.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "mail recipient is required")
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "mail subject is required")
	}

	body, err := json.Marshal(sendRequest{
		From:    c.from,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode mail request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build mail request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	ctx = c.logger.WithFields(ctx, map[string]any{"operation": "mail_send", "subject": msg.Subject})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(ctx, "mail delivery failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call mail provider")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode >= 400 {
		err := fmt.Errorf("mail provider returned status %d", resp.StatusCode)
		c.logger.Error(ctx, "mail delivery failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call mail provider")
	}

	c.logger.Info(ctx, "mail delivered")
	return nil
}
