package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/shoplytics/backend/internal/domain/shared"
	"github.com/shoplytics/backend/internal/domain/tenant"
	"github.com/shoplytics/backend/internal/infrastructure/auth"
)

// TenantService handles tenant registration and dashboard authentication
type TenantService struct {
	tenantRepo tenant.Repository
	jwtService *auth.JWTService
	logger     *zap.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(tenantRepo tenant.Repository, jwtService *auth.JWTService, logger *zap.Logger) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates a new tenant with generated webhook credentials
func (s *TenantService) Register(ctx context.Context, input RegisterInput) (*TenantResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	webhookSecret, err := randomToken("shpss_", 24)
	if err != nil {
		return nil, err
	}
	apiKey, err := randomToken("slk_", 24)
	if err != nil {
		return nil, err
	}

	t, err := tenant.NewTenant(input.Name, input.Email, string(hash), input.StoreDomain, webhookSecret, apiKey)
	if err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Create(ctx, t); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			s.logger.Warn("Registration rejected, email or store domain taken",
				zap.String("email", t.Email),
				zap.String("store_domain", t.StoreDomain))
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A tenant with this email or store domain already exists")
		}
		return nil, err
	}

	s.logger.Info("Tenant registered",
		zap.String("tenant_id", t.ID.String()),
		zap.String("store_domain", t.StoreDomain))

	return toTenantResponse(t), nil
}

// Login verifies credentials and issues a dashboard token. The error is
// identical for an unknown email and a wrong password.
func (s *TenantService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	t, err := s.tenantRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login attempt for unknown email", zap.String("email", input.Email))
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(t.PasswordHash), []byte(input.Password)); err != nil {
		s.logger.Warn("Invalid password attempt", zap.String("tenant_id", t.ID.String()))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	token, err := s.jwtService.GenerateToken(t.ID, t.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("Tenant logged in", zap.String("tenant_id", t.ID.String()))

	return &LoginResult{
		Token:  token,
		Tenant: toTenantResponse(t),
	}, nil
}

// WebhookInfo returns the credentials a tenant needs to configure its
// Shopify webhook subscriptions
func (s *TenantService) WebhookInfo(ctx context.Context, tenantID uuid.UUID) (*WebhookInfoResponse, error) {
	t, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	return &WebhookInfoResponse{
		StoreDomain:   t.StoreDomain,
		WebhookSecret: t.WebhookSecret,
		APIKey:        t.APIKey,
		Endpoints: []string{
			"/webhook/customers",
			"/webhook/products",
			"/webhook/orders",
			"/webhook/carts",
			"/webhook/checkouts",
		},
	}, nil
}

func randomToken(prefix string, bytes int) (string, error) {
	buf := make([]byte, bytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return prefix + hex.EncodeToString(buf), nil
}

func toTenantResponse(t *tenant.Tenant) *TenantResponse {
	return &TenantResponse{
		ID:          t.ID,
		Name:        t.Name,
		Email:       t.Email,
		StoreDomain: t.StoreDomain,
		APIKey:      t.APIKey,
		CreatedAt:   t.CreatedAt,
	}
}
