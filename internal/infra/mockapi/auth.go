package mockapi

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sourabhrustagi/taskgate/internal/core/domain"
)

// The simulated backend accepts a fixed verification code, the way dev
// backends usually do for phone auth.
const devCode = "123456"

const codeTTLSeconds = 300

// SendCode records a pending verification for phone. The pending code
// lives only in process memory, never in the durable store.
func (s *Store) SendCode(ctx context.Context, phone string) (*domain.SendCodeResult, error) {
	if err := s.simulate(ctx, "sendCode"); err != nil {
		return nil, err
	}
	if phone == "" {
		return nil, &domain.ValidationError{Fields: map[string]string{"phone": "required"}}
	}

	s.codeMu.Lock()
	s.codes[phone] = devCode
	s.codeMu.Unlock()

	return &domain.SendCodeResult{
		Success:          true,
		Message:          "verification code sent",
		ExpiresInSeconds: codeTTLSeconds,
	}, nil
}

// VerifyCode checks the code for a pending phone and issues a session
// on match. A mismatch is a Success=false result, not an error; the
// pending code stays valid for another try.
func (s *Store) VerifyCode(ctx context.Context, phone, code string) (*domain.VerifyCodeResult, error) {
	if err := s.simulate(ctx, "verifyCode"); err != nil {
		return nil, err
	}

	s.codeMu.Lock()
	pending, ok := s.codes[phone]
	s.codeMu.Unlock()

	if !ok {
		return &domain.VerifyCodeResult{
			Success: false,
			Message: "no verification pending for this phone",
		}, nil
	}
	if code != pending {
		return &domain.VerifyCodeResult{
			Success: false,
			Message: "incorrect verification code",
		}, nil
	}

	s.codeMu.Lock()
	delete(s.codes, phone)
	s.codeMu.Unlock()

	now := s.now()
	session := &domain.Session{
		User: domain.User{
			ID:    "user_" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(phone)).String(),
			Phone: phone,
			Name:  "Taskgate User",
			Email: fmt.Sprintf("%s@example.com", phone),
		},
		AccessToken:  "mock_access_" + uuid.New().String(),
		RefreshToken: "mock_refresh_" + uuid.New().String(),
		ExpiresAt:    now.Add(time.Hour),
	}
	return &domain.VerifyCodeResult{
		Success: true,
		Message: "verified",
		Session: session,
	}, nil
}

// RefreshSession issues a fresh token pair for a mock session.
func (s *Store) RefreshSession(ctx context.Context, session domain.Session) (*domain.Session, error) {
	if err := s.simulate(ctx, "refreshToken"); err != nil {
		return nil, err
	}
	refreshed := session
	refreshed.AccessToken = "mock_access_" + uuid.New().String()
	refreshed.RefreshToken = "mock_refresh_" + uuid.New().String()
	refreshed.ExpiresAt = s.now().Add(time.Hour)
	return &refreshed, nil
}

// Logout tears down nothing server-side in the simulation; the result
// exists so mock and real mode stay shape-compatible.
func (s *Store) Logout(ctx context.Context) (*domain.Ack, error) {
	if err := s.simulate(ctx, "logout"); err != nil {
		return nil, err
	}
	return &domain.Ack{Success: true, Message: "logged out"}, nil
}
