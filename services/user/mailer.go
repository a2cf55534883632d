package user

import (
	"context"

	"go.uber.org/zap"
)

// Mailer is the narrow interface to the mail collaborator. Delivery details
// live entirely behind it.
type Mailer interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

// LogMailer records outgoing mail in the log instead of delivering it; the
// default outside production.
type LogMailer struct {
	Logger *zap.Logger
}

func (m *LogMailer) SendWelcome(ctx context.Context, to, name string) error {
	m.Logger.Info("welcome mail", zap.String("to", to), zap.String("name", name))
	return nil
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	m.Logger.Info("password reset mail", zap.String("to", to), zap.String("url", resetURL))
	return nil
}
