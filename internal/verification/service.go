package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"sportsreg/internal/platform/metrics"
	dErrors "sportsreg/pkg/domain-errors"
	"sportsreg/pkg/platform/sentinel"
)

const codeDigits = 6

// TokenIssuer mints the session token handed out when a challenge reaches
// Verified. Implemented by internal/token.
type TokenIssuer interface {
	Issue(email, role string, ttl time.Duration) (string, error)
}

// Service drives the verification gate: Unverified -> CodeSent -> Verified.
// The two transitions are discrete calls with no blocking wait between them;
// the code travels out of band through the injected sender.
type Service struct {
	store      Store
	sender     CodeSender
	tokens     TokenIssuer
	codeTTL    time.Duration
	sessionTTL time.Duration
	logger     *slog.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewService(
	store Store,
	sender CodeSender,
	tokens TokenIssuer,
	codeTTL, sessionTTL time.Duration,
	logger *slog.Logger,
	m *metrics.Metrics,
) (*Service, error) {
	if store == nil {
		return nil, errors.New("challenge store is required")
	}
	if sender == nil {
		return nil, errors.New("code sender is required")
	}
	if tokens == nil {
		return nil, errors.New("token issuer is required")
	}
	return &Service{
		store:      store,
		sender:     sender,
		tokens:     tokens,
		codeTTL:    codeTTL,
		sessionTTL: sessionTTL,
		logger:     logger,
		metrics:    m,
		now:        time.Now,
	}, nil
}

// RequestCode creates a challenge for the email and hands the plaintext code
// to the sender. Requesting again for the same email supersedes the earlier
// challenge; requesting for a different email starts a fresh identity.
func (s *Service) RequestCode(ctx context.Context, email, role string, client ClientInfo) (string, error) {
	if email == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "email is required")
	}

	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash code: %w", err)
	}

	now := s.now()
	challenge := Challenge{
		CorrelationID: uuid.NewString(),
		Email:         email,
		Role:          role,
		CodeHash:      hash,
		State:         StateCodeSent,
		Device:        ParseUserAgent(client.UserAgent),
		IP:            client.IP,
		CreatedAt:     now,
	}
	if s.codeTTL > 0 {
		challenge.ExpiresAt = now.Add(s.codeTTL)
	}

	if err := s.store.Save(ctx, challenge); err != nil {
		return "", fmt.Errorf("save challenge: %w", err)
	}
	if err := s.sender.Send(ctx, email, code); err != nil {
		return "", fmt.Errorf("send code: %w", err)
	}

	s.metrics.IncrementCodeRequested()
	s.logger.InfoContext(ctx, "verification code requested",
		"correlation_id", challenge.CorrelationID,
		"role", role,
		"device", challenge.Device,
	)
	return challenge.CorrelationID, nil
}

// VerifyCode checks the submitted code against the challenge. A mismatch is
// invalid_code and the challenge stays in CodeSent so the caller may retry;
// a match moves the gate to Verified and issues a session token.
func (s *Service) VerifyCode(ctx context.Context, correlationID, code string) (Session, error) {
	challenge, err := s.store.Find(ctx, correlationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncrementCodeAttempt("expired")
			return Session{}, dErrors.New(dErrors.CodeInvalidCode, "unknown or expired verification request")
		}
		return Session{}, fmt.Errorf("find challenge: %w", err)
	}

	now := s.now()
	if challenge.Expired(now) {
		s.metrics.IncrementCodeAttempt("expired")
		return Session{}, dErrors.New(dErrors.CodeInvalidCode, "verification code has expired")
	}
	if challenge.State == StateVerified {
		return Session{}, dErrors.New(dErrors.CodeConflict, "email is already verified")
	}

	if bcrypt.CompareHashAndPassword(challenge.CodeHash, []byte(code)) != nil {
		s.metrics.IncrementCodeAttempt("invalid")
		s.logger.WarnContext(ctx, "verification code mismatch",
			"correlation_id", correlationID,
		)
		return Session{}, dErrors.New(dErrors.CodeInvalidCode, "verification code does not match")
	}

	challenge.State = StateVerified
	if err := s.store.Save(ctx, challenge); err != nil {
		return Session{}, fmt.Errorf("mark verified: %w", err)
	}

	token, err := s.tokens.Issue(challenge.Email, challenge.Role, s.sessionTTL)
	if err != nil {
		return Session{}, fmt.Errorf("issue session token: %w", err)
	}

	s.metrics.IncrementCodeAttempt("verified")
	s.logger.InfoContext(ctx, "email verified",
		"correlation_id", correlationID,
		"role", challenge.Role,
	)
	return Session{
		Token:     token,
		Email:     challenge.Email,
		Role:      challenge.Role,
		ExpiresAt: now.Add(s.sessionTTL),
	}, nil
}

// IsVerified reports whether the email has completed verification. The
// stepper consults this before letting a wizard advance past the gate.
func (s *Service) IsVerified(ctx context.Context, email string) (bool, error) {
	challenge, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("find challenge by email: %w", err)
	}
	return challenge.State == StateVerified, nil
}

func generateCode() (string, error) {
	// rand.Int keeps each digit uniform; reducing raw bytes mod 10 would skew
	// toward the low digits.
	max := big.NewInt(10)
	code := make([]byte, codeDigits)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = '0' + byte(n.Int64())
	}
	return string(code), nil
}
