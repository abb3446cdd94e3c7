package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	pkglogger "github.com/groundbook/groundbook/pkg/logger"
)

// SESCodeSender delivers OTP codes by email through AWS SES
type SESCodeSender struct {
	sesClient   *ses.Client
	fromAddress string
	logger      *slog.Logger
}

// NewSESCodeSender creates a new AWS SES code sender
func NewSESCodeSender(region, fromAddress string, logger *slog.Logger) (*SESCodeSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SESCodeSender{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		logger:      logger,
	}, nil
}

// Deliver sends the verification code to the recipient. The code goes only
// to the named address and is never logged here.
func (s *SESCodeSender) Deliver(ctx context.Context, email, code, purposeText string, expiryMinutes int) error {
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2>Email Verification</h2>
        <p>Your verification code for %s:</p>
        <p style="font-size: 2rem; font-weight: bold; letter-spacing: 5px; text-align: center;
                  background: #f8f9fa; padding: 12px; border-radius: 8px;">%s</p>
        <p>This code is valid for %d minutes.</p>
        <p>If you did not request this code, you can ignore this email.</p>
        <p style="color: #666; font-size: 12px; margin-top: 20px;">
            This is an automated message. Please do not reply.</p>
    </div>
</body>
</html>
`, purposeText, code, expiryMinutes)

	textBody := fmt.Sprintf(`Email Verification

Your verification code for %s: %s

This code is valid for %d minutes.
If you did not request this code, you can ignore this email.
`, purposeText, code, expiryMinutes)

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(fmt.Sprintf("Your %s code", purposeText)),
			},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(htmlBody)},
				Text: &types.Content{Data: aws.String(textBody)},
			},
		},
	}

	result, err := s.sesClient.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("failed to send verification code via SES",
			slog.String("email", pkglogger.SanitizedEmail(email)),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("verification code sent",
		slog.String("email", pkglogger.SanitizedEmail(email)),
		slog.String("message_id", *result.MessageId))

	return nil
}

// LogCodeSender writes codes to the log stream instead of sending email.
// Development stand-in for the transactional email integration; never
// enable outside local environments.
type LogCodeSender struct {
	logger *slog.Logger
}

func NewLogCodeSender(logger *slog.Logger) *LogCodeSender {
	return &LogCodeSender{logger: logger}
}

func (s *LogCodeSender) Deliver(ctx context.Context, email, code, purposeText string, expiryMinutes int) error {
	s.logger.Info("OTP code (dev delivery)",
		slog.String("email", email),
		slog.String("code", code),
		slog.String("purpose", purposeText),
		slog.Int("expiry_minutes", expiryMinutes))
	return nil
}
