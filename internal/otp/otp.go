// Package otp implements the one-time-passcode exchange that gates
// record-creating actions (bookings, ground submissions) behind proof that
// the submitter controls the stated email address.
package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	pkglogger "github.com/groundbook/groundbook/pkg/logger"
)

// DefaultExpiry is how long a code stays valid after issuance.
const DefaultExpiry = 10 * time.Minute

// Sender delivers a code to an email address. The purposeText is display
// copy only ("booking confirmation", "ground registration") and must never
// influence what the sender accepts.
type Sender interface {
	Deliver(ctx context.Context, email, code, purposeText string, expiryMinutes int) error
}

// record is one in-flight code for one email address. At most one record
// per email exists; a new send unconditionally replaces the old one.
type record struct {
	code      string
	issuedAt  time.Time
	expiresAt time.Time
	verified  bool
	purpose   string
}

// SendResult reports the outcome of Send/Resend.
type SendResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ExpiryMinutes int    `json:"expiry_minutes,omitempty"`
}

// VerifyResult reports the outcome of Verify.
type VerifyResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Service owns the in-memory record store. Records live only for the
// lifetime of the process; a restart forces callers to start the exchange
// over. There is no background sweep: expiry is evaluated lazily on Verify
// and IsVerified, and an expired record lingers until it is overwritten,
// purged by an expired Verify attempt, or explicitly cleared.
type Service struct {
	mu      sync.Mutex
	records map[string]*record

	sender  Sender
	expiry  time.Duration
	logger  *slog.Logger
	now     func() time.Time
	genCode func() (string, error)
}

// NewService creates a Service with the given delivery channel.
func NewService(sender Sender, logger *slog.Logger) *Service {
	return &Service{
		records: make(map[string]*record),
		sender:  sender,
		expiry:  DefaultExpiry,
		logger:  logger,
		now:     time.Now,
		genCode: generateCode,
	}
}

// SetClock overrides the time source. Test hook.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// SetCodeGenerator overrides code generation. Test hook.
func (s *Service) SetCodeGenerator(gen func() (string, error)) { s.genCode = gen }

// generateCode returns a uniformly random 6-digit code in [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// purposeText maps the opaque purpose label to the wording used in the
// delivery message. The label is display-only and never read on verify.
func purposeText(purpose string) string {
	switch purpose {
	case "booking":
		return "booking confirmation"
	case "", "verification":
		return "verification"
	default:
		return purpose
	}
}

// Send issues a fresh code for email, replacing any prior record, and
// dispatches it through the configured Sender. Delivery failure is reported
// in the result rather than returned as an error; the record stays in place
// so a retry send simply replaces it.
func (s *Service) Send(ctx context.Context, email, purpose string) SendResult {
	if purpose == "" {
		purpose = "verification"
	}

	code, err := s.genCode()
	if err != nil {
		s.logger.Error("failed to generate OTP code", slog.Any("error", err))
		return SendResult{Success: false, Message: "Failed to send OTP. Please try again."}
	}

	now := s.now()
	s.mu.Lock()
	s.records[email] = &record{
		code:      code,
		issuedAt:  now,
		expiresAt: now.Add(s.expiry),
		verified:  false,
		purpose:   purpose,
	}
	s.mu.Unlock()

	expiryMinutes := int(s.expiry / time.Minute)
	if err := s.sender.Deliver(ctx, email, code, purposeText(purpose), expiryMinutes); err != nil {
		s.logger.Error("failed to dispatch OTP",
			slog.String("email", pkglogger.SanitizedEmail(email)),
			slog.Any("error", err))
		return SendResult{Success: false, Message: "Failed to send OTP. Please try again."}
	}

	s.logger.Info("OTP sent",
		slog.String("email", pkglogger.SanitizedEmail(email)),
		slog.String("purpose", purpose))

	return SendResult{
		Success:       true,
		Message:       fmt.Sprintf("OTP sent to %s. Please check your email.", email),
		ExpiryMinutes: expiryMinutes,
	}
}

// Verify checks the submitted code against the live record for email.
// Decision order matters: expiry is enforced (with record deletion) before
// the code comparison, so a correct-but-late code fails with the expiry
// message. A mismatch leaves the record intact for a retry.
func (s *Service) Verify(email, submitted string) VerifyResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.records[email]
	if !ok {
		return VerifyResult{Success: false, Message: "No OTP found for this email. Please request a new OTP."}
	}

	if s.now().After(stored.expiresAt) {
		delete(s.records, email)
		return VerifyResult{Success: false, Message: "OTP has expired. Please request a new OTP."}
	}

	if stored.code != strings.TrimSpace(submitted) {
		return VerifyResult{Success: false, Message: "Invalid OTP. Please try again."}
	}

	stored.verified = true
	return VerifyResult{Success: true, Message: "Email verified successfully!"}
}

// IsVerified reports whether email holds a live, verified record. Expiry is
// re-checked here, not just at verification time, so a verified record stops
// counting the moment it expires. Does not mutate state.
func (s *Service) IsVerified(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.records[email]
	return ok && stored.verified && !s.now().After(stored.expiresAt)
}

// Clear deletes the record for email unconditionally. Called by the gated
// action's success path so a spent code cannot be reused.
func (s *Service) Clear(email string) {
	s.mu.Lock()
	delete(s.records, email)
	s.mu.Unlock()
}

// Resend invalidates any existing code for email and issues a new one.
// Functionally a delete followed by Send; kept separate to document caller
// intent.
func (s *Service) Resend(ctx context.Context, email, purpose string) SendResult {
	s.mu.Lock()
	delete(s.records, email)
	s.mu.Unlock()

	return s.Send(ctx, email, purpose)
}
