package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"go-admin-boilerplate/internal/core/config"
)

// Mailer 发送失败不能影响调用方的成功响应，由调用方 fire-and-forget
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, link string) error
}

type SMTPMailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewSMTPMailer(c config.Mail) *SMTPMailer {
	return &SMTPMailer{host: c.Host, port: c.Port, user: c.Username, pass: c.Password, from: c.From}
}

func (m *SMTPMailer) SendPasswordReset(_ context.Context, to, link string) error {
	msg := []byte("From: " + m.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: Password Reset\r\n" +
		"\r\n" +
		"A password reset was requested for your account.\r\n" +
		"Follow this link to choose a new password: " + link + "\r\n" +
		"If you did not request this, you can ignore this message.\r\n")

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}
	return smtp.SendMail(addr, auth, m.from, []string{to}, msg)
}

// LogMailer 开发环境不真发信，只打日志；不打链接本体
type LogMailer struct{ l *zap.Logger }

func NewLogMailer(l *zap.Logger) *LogMailer { return &LogMailer{l: l} }

func (m *LogMailer) SendPasswordReset(_ context.Context, to, _ string) error {
	m.l.Info("password reset mail (not sent, mail disabled)", zap.String("to", to))
	return nil
}
