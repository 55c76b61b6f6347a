package smtp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

const codeSubject = "StudyBuddy - Email Verification Code"

var codeTemplate = template.Must(template.New("code").Parse(`<html>
  <body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background-color: #6366f1; color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
      <h1 style="margin: 0; font-size: 28px;">StudyBuddy</h1>
      <p style="margin: 10px 0 0 0; font-size: 16px;">Email Verification</p>
    </div>
    <div style="background-color: #f8f9fa; padding: 30px; border-radius: 0 0 10px 10px; border: 1px solid #e9ecef;">
      <h2 style="color: #333; margin-top: 0;">Verify Your Email</h2>
      <p style="color: #666; font-size: 16px; line-height: 1.5;">
        Thank you for joining StudyBuddy! To complete your registration, please use the verification code below:
      </p>
      <div style="background-color: white; border: 2px solid #6366f1; border-radius: 8px; padding: 20px; text-align: center; margin: 25px 0;">
        <span style="font-size: 32px; font-weight: bold; color: #6366f1; letter-spacing: 5px;">{{.Code}}</span>
      </div>
      <p style="color: #666; font-size: 14px; line-height: 1.5;">
        This code will expire in <strong>{{.Minutes}} minutes</strong>. If you didn't request this verification, please ignore this email.
      </p>
      <hr style="border: none; border-top: 1px solid #e9ecef; margin: 25px 0;">
      <p style="color: #999; font-size: 12px; text-align: center;">
        This is an automated message from StudyBuddy. Please do not reply to this email.
      </p>
    </div>
  </body>
</html>
`))

func renderCode(code string, ttl time.Duration) (string, error) {
	var buf bytes.Buffer
	err := codeTemplate.Execute(&buf, struct {
		Code    string
		Minutes int
	}{code, int(ttl / time.Minute)})
	if err != nil {
		return "", fmt.Errorf("render code email: %w", err)
	}
	return buf.String(), nil
}

// ErrDeliveryUnavailable is returned while the breaker is open.
var ErrDeliveryUnavailable = errors.New("email delivery temporarily unavailable")

// breakerThreshold consecutive SMTP failures open the breaker for breakerTimeout.
const (
	breakerThreshold = 5
	breakerTimeout   = 30 * time.Second
)

// CodeSender emails one-time codes through a Mailer guarded by a circuit breaker.
type CodeSender struct {
	mailer  Mailer
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker[struct{}]
}

func NewCodeSender(m Mailer, ttl time.Duration) *CodeSender {
	return &CodeSender{
		mailer: m,
		ttl:    ttl,
		breaker: gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
			Name:        "smtp",
			MaxRequests: 1,
			Timeout:     breakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= breakerThreshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			},
		}),
	}
}

func (s *CodeSender) SendCode(ctx context.Context, email, code string) error {
	body, err := renderCode(code, s.ttl)
	if err != nil {
		return err
	}
	_, err = s.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, s.mailer.SendHTML(ctx, email, codeSubject, body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrDeliveryUnavailable
	}
	return err
}

// LogSender writes codes to the log instead of sending them. Used when no SMTP host is configured.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) SendCode(_ context.Context, email, code string) error {
	s.logger.Info("dev mode: one-time code", "email", email, "code", code)
	return nil
}
