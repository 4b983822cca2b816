package gateway

import (
	"context"
	"log/slog"

	"github.com/sourabhrustagi/taskgate/internal/core/domain"
)

// SendCode requests a verification code for phone and records the
// pending phone in transient state only.
func (g *Gateway) SendCode(ctx context.Context, phone string) (*domain.SendCodeResult, error) {
	if phone == "" {
		return nil, &domain.ValidationError{Fields: map[string]string{"phone": "required"}}
	}

	result, err := call(ctx, g, "sendCode", false,
		func(ctx context.Context) (*domain.SendCodeResult, error) {
			return g.mock.SendCode(ctx, phone)
		},
		func(ctx context.Context) (*domain.SendCodeResult, error) {
			return g.real.SendCode(ctx, phone)
		},
	)
	if err != nil {
		return nil, err
	}
	if result.Success {
		g.creds.SetPendingPhone(phone)
	}
	return result, nil
}

// VerifyCode checks the code for the pending phone and persists the
// issued session on success. A mismatch comes back as a Success=false
// result with a user-facing reason; the pending state is kept so the
// caller can try again.
func (g *Gateway) VerifyCode(ctx context.Context, phone, code string) (*domain.VerifyCodeResult, error) {
	if phone == "" {
		phone = g.creds.PendingPhone()
	}
	if phone == "" || code == "" {
		fields := map[string]string{}
		if phone == "" {
			fields["phone"] = "required"
		}
		if code == "" {
			fields["code"] = "required"
		}
		return nil, &domain.ValidationError{Fields: fields}
	}

	result, err := call(ctx, g, "verifyCode", false,
		func(ctx context.Context) (*domain.VerifyCodeResult, error) {
			return g.mock.VerifyCode(ctx, phone, code)
		},
		func(ctx context.Context) (*domain.VerifyCodeResult, error) {
			return g.real.VerifyCode(ctx, phone, code)
		},
	)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return result, nil
	}

	if result.Session != nil {
		if err := g.creds.Save(ctx, result.Session); err != nil {
			return nil, err
		}
	}
	g.creds.ClearPendingPhone()
	slog.Info("signed in", "user", phone)
	return result, nil
}

// Logout clears local credentials unconditionally. The remote
// invalidation call is best-effort; local state wins even when it
// fails.
func (g *Gateway) Logout(ctx context.Context) (*domain.Ack, error) {
	_, err := call(ctx, g, "logout", false,
		func(ctx context.Context) (*domain.Ack, error) {
			return g.mock.Logout(ctx)
		},
		func(ctx context.Context) (*domain.Ack, error) {
			return g.real.Logout(ctx)
		},
	)
	if err != nil {
		slog.Warn("remote logout failed, clearing local session anyway", "error", err)
	}

	g.creds.ClearPendingPhone()
	if err := g.creds.Clear(ctx); err != nil {
		slog.Warn("failed to delete stored credentials", "error", err)
	}
	return &domain.Ack{Success: true, Message: "logged out"}, nil
}

// CurrentUser returns the signed-in user, or nil when anonymous.
func (g *Gateway) CurrentUser(ctx context.Context) (*domain.User, error) {
	s, err := g.creds.Session(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	user := s.User
	return &user, nil
}
