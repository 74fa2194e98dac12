package ports

import (
	"context"

	"github.com/staybook/portal/internal/core/domain"
)

// AuthGateway forwards authentication flows to the remote backend. Expected
// domain outcomes come back as envelope codes; only transport failures are
// returned as errors.
type AuthGateway interface {
	Register(ctx context.Context, reg domain.Registration) (domain.Envelope[domain.Empty], error)
	VerifyEmail(ctx context.Context, email, code string) (domain.Envelope[domain.Empty], error)
	ResendVerificationCode(ctx context.Context, email string) (domain.Envelope[domain.Empty], error)
	Login(ctx context.Context, w SessionWriter, email, password string) (domain.Envelope[domain.LoginData], error)
	ForgotPassword(ctx context.Context, email string) (domain.Envelope[domain.Empty], error)
	ResetPassword(ctx context.Context, token, newPassword string) (domain.Envelope[domain.Empty], error)
	Logout(ctx context.Context, w SessionWriter) error
}
