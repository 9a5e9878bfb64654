package services

import (
	"context"

	"go.uber.org/zap"
)

// Mailer delivers invoice emails. Actual delivery sits outside this
// service's scope; implementations plug in at bootstrap.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer is the default Mailer: it records the send in the log and
// reports success. Useful for development and tests.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, to, subject, _ string) error {
	m.log.Info("email dispatched", zap.String("to", to), zap.String("subject", subject))
	return nil
}
