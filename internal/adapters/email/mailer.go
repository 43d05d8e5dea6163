package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"evently/internal/domain"
)

const (
	ProviderSES  = "ses"
	ProviderNoop = "noop"

	charsetUTF8 = "UTF-8"
)

var errMissingRegion = errors.New("ses region is required")

// SESConfig carries the AWS settings used when Provider is "ses".
// Endpoint points the client at a local SES emulator when set.
type SESConfig struct {
	Region             string
	AccessKeyID        string
	SecretAccessKey    string
	InsecureSkipVerify bool
	Endpoint           string
}

type MailerConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	SES         SESConfig
}

// sender renders the From header, quoting the display name when needed.
func (c MailerConfig) sender() string {
	if c.FromName == "" {
		return c.FromAddress
	}
	return (&mail.Address{Name: c.FromName, Address: c.FromAddress}).String()
}

// NewMailer picks a domain.Mailer for the configured provider. Ticket
// confirmations fall back to being logged when no provider is set.
func NewMailer(config MailerConfig, logger *slog.Logger) (domain.Mailer, error) {
	switch config.Provider {
	case ProviderSES:
		client, err := newSESClient(config.SES, logger)
		if err != nil {
			return nil, err
		}
		return &sesSender{api: client, from: config.sender(), logger: logger}, nil
	case ProviderNoop, "":
	default:
		logger.Warn("unsupported email provider, confirmations will only be logged", "provider", config.Provider)
	}
	return &logMailer{logger: logger}, nil
}

func newSESClient(cfg SESConfig, logger *slog.Logger) (*ses.Client, error) {
	if cfg.Region == "" {
		return nil, errMissingRegion
	}
	if cfg.InsecureSkipVerify {
		logger.Warn("SES TLS verification disabled")
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		MinVersion:         tls.VersionTLS12,
	}

	awsCfg := aws.Config{
		Region:     cfg.Region,
		HTTPClient: &http.Client{Transport: transport},
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	}

	return ses.NewFromConfig(awsCfg, func(o *ses.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

type sesSender struct {
	api    *ses.Client
	from   string
	logger *slog.Logger
}

func (s *sesSender) Send(ctx context.Context, to, subject, html, text string) error {
	out, err := s.api.SendEmail(ctx, sendEmailInput(s.from, to, subject, html, text))
	if err != nil {
		return fmt.Errorf("ses send to %s: %w", to, err)
	}
	s.logger.InfoContext(ctx, "confirmation email sent", "message_id", aws.ToString(out.MessageId))
	return nil
}

func utf8Content(s string) *types.Content {
	if s == "" {
		return nil
	}
	return &types.Content{Data: aws.String(s), Charset: aws.String(charsetUTF8)}
}

func sendEmailInput(from, to, subject, html, text string) *ses.SendEmailInput {
	return &ses.SendEmailInput{
		Source:      aws.String(from),
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message: &types.Message{
			Subject: utf8Content(subject),
			Body: &types.Body{
				Html: utf8Content(html),
				Text: utf8Content(text),
			},
		},
	}
}

// logMailer records what would have been sent.
type logMailer struct {
	logger *slog.Logger
}

func (l *logMailer) Send(ctx context.Context, to, subject, _, _ string) error {
	l.logger.InfoContext(ctx, "email delivery disabled", "to", to, "subject", subject)
	return nil
}
