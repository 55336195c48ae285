package verification

import (
	"context"
	"log/slog"
)

// CodeSender delivers the plaintext code out of band. Transport (email, SMS)
// is an external collaborator; this service only hands the code over.
type CodeSender interface {
	Send(ctx context.Context, email, code string) error
}

// LogSender writes codes to the log instead of delivering them. Default for
// development and tests; production wires a real delivery adapter.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, email, code string) error {
	s.logger.InfoContext(ctx, "verification code issued",
		"email", email,
		"code", code,
	)
	return nil
}
