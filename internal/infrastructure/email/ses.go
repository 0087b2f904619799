package email

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/repositories"
)

const charset = "UTF-8"

// SESAPI is the subset of the SES v2 client used by the mailer
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESMailer sends email through Amazon SES
type SESMailer struct {
	client SESAPI
	logger *zap.Logger
}

// NewSESMailer builds the SES client from an AWS config
func NewSESMailer(awsCfg aws.Config, logger *zap.Logger) *SESMailer {
	return NewSESMailerWithClient(sesv2.NewFromConfig(awsCfg), logger)
}

func NewSESMailerWithClient(client SESAPI, logger *zap.Logger) *SESMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SESMailer{client: client, logger: logger}
}

// Send implements repositories.Mailer
func (m *SESMailer) Send(ctx context.Context, msg repositories.Message) error {
	if msg.From == "" || len(msg.To) == 0 {
		return fmt.Errorf("email needs a sender and at least one recipient")
	}

	body := &types.Body{}
	if msg.HTMLBody != "" {
		body.Html = &types.Content{Data: aws.String(msg.HTMLBody), Charset: aws.String(charset)}
	}
	if msg.TextBody != "" {
		body.Text = &types.Content{Data: aws.String(msg.TextBody), Charset: aws.String(charset)}
	}

	out, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.From),
		Destination:      &types.Destination{ToAddresses: msg.To},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String(charset)},
				Body:    body,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}

	m.logger.Debug("Email accepted by SES", zap.String("message_id", aws.ToString(out.MessageId)))
	return nil
}

// LogMailer writes emails to the log instead of sending them. Used when no
// sender is configured in development.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, msg repositories.Message) error {
	m.logger.Info("📧 Email (not sent)",
		zap.String("from", msg.From),
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("html_bytes", len(msg.HTMLBody)),
	)
	return nil
}
