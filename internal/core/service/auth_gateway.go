package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/staybook/portal/internal/core/domain"
	"github.com/staybook/portal/internal/core/ports"
	"github.com/staybook/portal/internal/pkg/metrics"
)

// Transport performs one POST against the backend and decodes the normalized
// envelope into out. Transport-level failures are returned as errors wrapping
// domain.ErrTransport or domain.ErrMalformedResponse.
type Transport interface {
	Post(ctx context.Context, path string, query url.Values, body, out any) error
}

type authGateway struct {
	transport Transport
	log       zerolog.Logger
}

// NewAuthGateway returns an AuthGateway backed by transport.
func NewAuthGateway(transport Transport, log zerolog.Logger) ports.AuthGateway {
	return &authGateway{transport: transport, log: log}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (g *authGateway) Register(ctx context.Context, reg domain.Registration) (domain.Envelope[domain.Empty], error) {
	return post[domain.Empty](ctx, g, "register", "/auth/register", nil, reg)
}

func (g *authGateway) VerifyEmail(ctx context.Context, email, code string) (domain.Envelope[domain.Empty], error) {
	q := url.Values{"email": {email}, "verificationCode": {code}}
	return post[domain.Empty](ctx, g, "verify_email", "/auth/verify-email", q, nil)
}

func (g *authGateway) ResendVerificationCode(ctx context.Context, email string) (domain.Envelope[domain.Empty], error) {
	q := url.Values{"email": {email}}
	return post[domain.Empty](ctx, g, "resend_verification", "/auth/resend-verification", q, nil)
}

func (g *authGateway) ForgotPassword(ctx context.Context, email string) (domain.Envelope[domain.Empty], error) {
	return post[domain.Empty](ctx, g, "forgot_password", "/auth/forgot-password", nil, emailRequest{Email: email})
}

func (g *authGateway) ResetPassword(ctx context.Context, token, newPassword string) (domain.Envelope[domain.Empty], error) {
	body := resetPasswordRequest{Token: token, NewPassword: newPassword}
	return post[domain.Empty](ctx, g, "reset_password", "/auth/reset-password", nil, body)
}

// Login authenticates against the backend. Only a 200 envelope writes the
// token and identity through w; every other code is returned untouched.
func (g *authGateway) Login(ctx context.Context, w ports.SessionWriter, email, password string) (domain.Envelope[domain.LoginData], error) {
	env, err := post[domain.LoginData](ctx, g, "login", "/auth/login", nil, loginRequest{Email: email, Password: password})
	if err != nil {
		return env, err
	}
	if !env.OK() {
		g.log.Debug().Int("return_code", env.ReturnCode).Msg("login rejected")
		return env, nil
	}

	data := env.ReturnData
	if data == nil || data.Token == "" || data.User == nil {
		return domain.Envelope[domain.LoginData]{}, fmt.Errorf("login: %w: missing token or user", domain.ErrMalformedResponse)
	}
	data.User.NormalizeRole()

	if err := w.SaveToken(ctx, data.Token); err != nil {
		return env, fmt.Errorf("login: %w", err)
	}
	if err := w.SaveIdentity(ctx, data.User); err != nil {
		if clearErr := w.ClearToken(ctx); clearErr != nil {
			g.log.Error().Err(clearErr).Msg("failed to roll back token after identity write failure")
		}
		return env, fmt.Errorf("login: %w", err)
	}

	g.log.Info().Int64("user_id", data.User.ID).Str("role", string(data.User.Role)).Msg("login succeeded")
	return env, nil
}

// Logout purges the stored token. It never calls the backend.
func (g *authGateway) Logout(ctx context.Context, w ports.SessionWriter) error {
	if err := w.ClearToken(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func post[T any](ctx context.Context, g *authGateway, op, path string, q url.Values, body any) (domain.Envelope[T], error) {
	start := time.Now()
	var env domain.Envelope[T]
	err := g.transport.Post(ctx, path, q, body, &env)
	metrics.GatewayRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues(op, "transport_error").Inc()
		g.log.Error().Err(err).Str("operation", op).Msg("auth gateway call failed")
		return domain.Envelope[T]{}, fmt.Errorf("%s: %w", op, err)
	}

	metrics.GatewayRequestsTotal.WithLabelValues(op, strconv.Itoa(env.ReturnCode)).Inc()
	return env, nil
}
