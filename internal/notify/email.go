package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/BruksfildServices01/horacerta/pkg/logging"
)

type EmailMessage struct {
	To      string
	Subject string
	Body    string
}

type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// sesAPI is the slice of the SES client the sender uses.
type sesAPI interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type SESConfig struct {
	FromEmail string
	FromName  string
}

// SESSender sends emails via AWS SES.
type SESSender struct {
	client    sesAPI
	fromEmail string
	fromName  string
	logger    *logging.Logger
}

func NewSESSender(client sesAPI, cfg SESConfig, logger *logging.Logger) *SESSender {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = "HoraCerta"
	}
	return &SESSender{
		client:    client,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}
}

func (s *SESSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("notify: SES client not configured")
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(msg.Body), Charset: aws.String("UTF-8")},
				},
			},
		},
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("notify: SES send failed", "error", err, "to", msg.To)
		return fmt.Errorf("notify: SES send failed: %w", err)
	}

	s.logger.Info("notify: email sent", "to", msg.To, "message_id", aws.ToString(out.MessageId))
	return nil
}

// NopSender drops every message; used when SES is not configured.
type NopSender struct{}

func (NopSender) Send(context.Context, EmailMessage) error { return nil }

// CredentialsEmail is the welcome mail carrying a generated password.
func CredentialsEmail(to, name, password, siteURL string) EmailMessage {
	var b strings.Builder
	fmt.Fprintf(&b, "Olá, %s!\n\n", name)
	b.WriteString("Sua conta foi criada pelo nosso atendimento no WhatsApp.\n\n")
	fmt.Fprintf(&b, "Login: %s\nSenha: %s\n\n", to, password)
	fmt.Fprintf(&b, "Acesse %s para acompanhar seus agendamentos.\n", siteURL)

	return EmailMessage{
		To:      to,
		Subject: "Seus dados de acesso",
		Body:    b.String(),
	}
}

var (
	_ EmailSender = (*SESSender)(nil)
	_ EmailSender = NopSender{}
)
