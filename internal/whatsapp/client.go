// Package whatsapp talks to the Z-API WhatsApp gateway.
package whatsapp

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

	"github.com/BruksfildServices01/horacerta/internal/domain/chat"
	"github.com/BruksfildServices01/horacerta/pkg/logging"
)

const (
	defaultListTitle   = "Opções"
	defaultButtonLabel = "Escolher"
)

// Config controls how the client behaves.
type Config struct {
	BaseURL      string
	ClientToken  string
	DelaySeconds int
	Timeout      time.Duration
	HTTPClient   *http.Client
	Logger       *logging.Logger
}

type Client struct {
	baseURL     string
	clientToken string
	delay       int
	httpClient  *http.Client
	logger      *logging.Logger
}

func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("whatsapp: base URL is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL:     baseURL,
		clientToken: cfg.ClientToken,
		delay:       cfg.DelaySeconds,
		httpClient:  httpClient,
		logger:      logger,
	}, nil
}

// ===============================
// Outbound payloads
// ===============================

type textRequest struct {
	Phone        string `json:"phone"`
	Message      string `json:"message"`
	DelayMessage int    `json:"delayMessage,omitempty"`
}

type optionItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type optionList struct {
	Title       string       `json:"title"`
	ButtonLabel string       `json:"buttonLabel"`
	Options     []optionItem `json:"options"`
}

type optionListRequest struct {
	Phone        string     `json:"phone"`
	Message      string     `json:"message"`
	DelayMessage int        `json:"delayMessage,omitempty"`
	OptionList   optionList `json:"optionList"`
}

type buttonItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type buttonListRequest struct {
	Phone        string `json:"phone"`
	Message      string `json:"message"`
	DelayMessage int    `json:"delayMessage,omitempty"`
	ButtonList   struct {
		Buttons []buttonItem `json:"buttons"`
	} `json:"buttonList"`
}

type contactRequest struct {
	Phone        string `json:"phone"`
	ContactName  string `json:"contactName"`
	ContactPhone string `json:"contactPhone"`
	DelayMessage int    `json:"delayMessage,omitempty"`
}

type pixRequest struct {
	Phone  string `json:"phone"`
	PixKey string `json:"pixKey"`
	Type   string `json:"type"`
}

// ===============================
// chat.Messenger
// ===============================

func (c *Client) SendText(ctx context.Context, phone, message string) error {
	return c.post(ctx, "/send-text", textRequest{Phone: phone, Message: message, DelayMessage: c.delay})
}

func (c *Client) SendOptionList(ctx context.Context, phone, message string, options []chat.Option) error {
	req := optionListRequest{
		Phone:        phone,
		Message:      message,
		DelayMessage: c.delay,
		OptionList: optionList{
			Title:       defaultListTitle,
			ButtonLabel: defaultButtonLabel,
		},
	}
	for _, o := range options {
		req.OptionList.Options = append(req.OptionList.Options, optionItem{
			ID: o.ID, Title: o.Title, Description: o.Description,
		})
	}
	return c.post(ctx, "/send-option-list", req)
}

func (c *Client) SendButtonList(ctx context.Context, phone, message string, buttons []chat.Button) error {
	req := buttonListRequest{Phone: phone, Message: message, DelayMessage: c.delay}
	for _, b := range buttons {
		req.ButtonList.Buttons = append(req.ButtonList.Buttons, buttonItem{ID: b.ID, Label: b.Label})
	}
	return c.post(ctx, "/send-button-list", req)
}

func (c *Client) SendContact(ctx context.Context, phone string, contact chat.Contact) error {
	return c.post(ctx, "/send-contact", contactRequest{
		Phone:        phone,
		ContactName:  contact.Name,
		ContactPhone: contact.Phone,
		DelayMessage: c.delay,
	})
}

// SendPaymentRequest sends the PIX copy-and-paste code as a pay button.
func (c *Client) SendPaymentRequest(ctx context.Context, phone, pixCode string) error {
	return c.post(ctx, "/send-button-pix", pixRequest{Phone: phone, PixKey: pixCode, Type: "EVP"})
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("whatsapp: marshal %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("whatsapp: build %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.clientToken != "" {
		req.Header.Set("Client-Token", c.clientToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("whatsapp: send rejected", "path", path, "status", resp.StatusCode)
		return fmt.Errorf("whatsapp: %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

var _ chat.Messenger = (*Client)(nil)
