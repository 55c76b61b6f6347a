package smtp

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	nsmtp "net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendHTML(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}

func TestRenderCode(t *testing.T) {
	body, err := renderCode("042137", 10*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, body, ">042137</span>")
	assert.Contains(t, body, "<strong>10 minutes</strong>")
}

func TestCodeSender_SendsRenderedEmail(t *testing.T) {
	m := &mockMailer{}
	m.On("SendHTML", mock.Anything, "a@m.nthu.edu.tw", codeSubject, mock.MatchedBy(func(body string) bool {
		return strings.Contains(body, "123456")
	})).Return(nil)

	require.NoError(t, NewCodeSender(m, 10*time.Minute).SendCode(context.Background(), "a@m.nthu.edu.tw", "123456"))
	m.AssertExpectations(t)
}

func TestCodeSender_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	m := &mockMailer{}
	m.On("SendHTML", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection refused"))
	s := NewCodeSender(m, 10*time.Minute)

	for i := 0; i < breakerThreshold; i++ {
		err := s.SendCode(context.Background(), "a@b.tw", "000001")
		assert.ErrorContains(t, err, "connection refused")
	}
	err := s.SendCode(context.Background(), "a@b.tw", "000001")
	assert.ErrorIs(t, err, ErrDeliveryUnavailable)
	m.AssertNumberOfCalls(t, "SendHTML", breakerThreshold)
}

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, s.SendCode(context.Background(), "a@b.tw", "654321"))
	assert.Contains(t, buf.String(), `"code":"654321"`)
	assert.Contains(t, buf.String(), `"email":"a@b.tw"`)
}

func TestMailer_SendHTML(t *testing.T) {
	var gotAddr string
	var gotMsg []byte
	m := &mailer{host: "smtp.example.com", port: "587", from: "noreply@example.com",
		send: func(addr string, _ nsmtp.Auth, _ string, _ []string, msg []byte) error {
			gotAddr, gotMsg = addr, msg
			return nil
		}}

	require.NoError(t, m.SendHTML(context.Background(), "a@b.tw", "Hello", "<p>hi</p>"))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Contains(t, string(gotMsg), "Content-Type: text/html")
	assert.True(t, strings.HasSuffix(string(gotMsg), "\r\n\r\n<p>hi</p>"))
}

func TestMailer_SendHTML_CancelledContext(t *testing.T) {
	m := &mailer{send: func(string, nsmtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be called")
		return nil
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.SendHTML(ctx, "a@b.tw", "s", "b"), context.Canceled)
}
