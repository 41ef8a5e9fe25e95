package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"ticket-scanner-server/internal/domain"
	"ticket-scanner-server/internal/repository"
	"ticket-scanner-server/pkg/hash"
	"ticket-scanner-server/pkg/jwt"

	"go.uber.org/zap"
)

const (
	ValidateTicketPath = "eventtickets/validate"
	ValidateTokenPath  = "eventtickets/authenticator/validatetoken"
)

type AuthConfig struct {
	Token     jwt.Options
	Header    string
	BaseURL   string
	SiteTitle string
	Icon      string
}

// Principal is the user/device pair a bearer token was verified for.
type Principal struct {
	User   *domain.User
	Device *domain.Device
}

type AuthService struct {
	userRepo repository.UserRepository
	devices  *DeviceService
	cfg      AuthConfig
	logger   *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, devices *DeviceService, cfg AuthConfig, logger *zap.Logger) *AuthService {
	if cfg.Token.Issuer == "" {
		cfg.Token.Issuer = cfg.BaseURL
	}
	return &AuthService{
		userRepo: userRepo,
		devices:  devices,
		cfg:      cfg,
		logger:   logger,
	}
}

// Issue signs a fresh token for the user/device pair. It does not store it.
func (s *AuthService) Issue(user *domain.User, device *domain.Device) (string, error) {
	token, err := jwt.GenerateToken(user.ID, device.ID, s.cfg.Token)
	if err != nil {
		if errors.Is(err, jwt.ErrMissingSecret) {
			return "", fmt.Errorf("%w: %v", ErrServerMisconfigured, err)
		}
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Digest is the stored form of a token for the given user.
func (s *AuthService) Digest(user *domain.User, token string) string {
	return hash.TokenDigest(token, user.Salt)
}

// Login checks credentials and the check-in permission, then registers the
// device with a freshly issued token. Nothing is written unless every check
// passes and the token could be signed.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := hash.Compare(user.Password, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.HasPermission(domain.PermissionHandleCheckIn) {
		return nil, ErrPermissionDenied
	}

	brand := req.Brand
	if brand == "" {
		brand = "-"
	}
	model := req.Model
	if model == "" {
		model = "-"
	}

	device, err := s.devices.resolve(ctx, req.UniqueID, brand, model)
	if err != nil {
		return nil, err
	}

	token, err := s.Issue(user, device)
	if err != nil {
		return nil, err
	}

	device.Token = s.Digest(user, token)
	device.OwnerID = user.ID

	if err := s.devices.Save(ctx, device); err != nil {
		return nil, err
	}

	s.logger.Info("scanner logged in",
		zap.String("user_id", user.ID),
		zap.String("device_id", device.ID),
		zap.String("unique_id", device.UniqueID),
	)

	return s.ResponseData(user, device, token), nil
}

// LoginPayload issues a token for a device whose token was cleared and
// returns the payload a scanner app can be provisioned with.
func (s *AuthService) LoginPayload(ctx context.Context, userID, deviceID string) (*domain.LoginResponse, error) {
	device, err := s.devices.FindOwned(ctx, userID, deviceID)
	if err != nil {
		return nil, err
	}

	if device.Token != "" {
		return nil, ErrTokenAlreadyIssued
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	token, err := s.Issue(user, device)
	if err != nil {
		return nil, err
	}

	device.Token = s.Digest(user, token)
	if err := s.devices.Save(ctx, device); err != nil {
		return nil, err
	}

	return s.ResponseData(user, device, token), nil
}

func (s *AuthService) ResponseData(user *domain.User, device *domain.Device, token string) *domain.LoginResponse {
	return &domain.LoginResponse{
		ID:                device.ID,
		Name:              user.Name(),
		Type:              domain.LoginTypeAccount,
		Title:             s.cfg.SiteTitle,
		Image:             s.cfg.BaseURL + s.cfg.Icon,
		Token:             token,
		ValidatePath:      joinLinks(s.cfg.BaseURL, ValidateTicketPath),
		ValidateTokenPath: joinLinks(s.cfg.BaseURL, ValidateTokenPath),
	}
}

// Authenticate reads the bearer token from the configured header. It never
// returns an error: every failure is reported as unauthenticated.
func (s *AuthService) Authenticate(ctx context.Context, r *http.Request) (*Principal, bool) {
	token := BearerToken(r.Header.Get(s.header()))
	if token == "" {
		return nil, false
	}
	return s.AuthenticateToken(ctx, token)
}

// AuthenticateToken accepts a token only if it verifies and is the token
// currently stored for its device.
func (s *AuthService) AuthenticateToken(ctx context.Context, token string) (*Principal, bool) {
	claims, err := jwt.ValidateToken(token, s.cfg.Token)
	if err != nil {
		if errors.Is(err, jwt.ErrMissingSecret) {
			s.logger.Error("token verification unavailable", zap.Error(err))
		} else {
			s.logger.Debug("token rejected", zap.Error(err))
		}
		return nil, false
	}

	device, err := s.devices.FindByID(ctx, claims.Data.DeviceID)
	if err != nil {
		s.logger.Debug("token device lookup failed", zap.String("device_id", claims.Data.DeviceID), zap.Error(err))
		return nil, false
	}

	user, err := s.userRepo.FindByID(ctx, claims.Data.UserID)
	if err != nil {
		s.logger.Debug("token user lookup failed", zap.String("user_id", claims.Data.UserID), zap.Error(err))
		return nil, false
	}

	if device.Token == "" || device.Token != s.Digest(user, token) {
		return nil, false
	}

	return &Principal{User: user, Device: device}, true
}

func (s *AuthService) header() string {
	if s.cfg.Header == "" {
		return "X-Authorization"
	}
	return s.cfg.Header
}

// BearerToken extracts the token from a "Bearer <token>" header value.
func BearerToken(header string) string {
	rest, ok := strings.CutPrefix(strings.TrimSpace(header), "Bearer ")
	if !ok {
		return ""
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func joinLinks(base, path string) string {
	joined, err := url.JoinPath(base, path)
	if err != nil {
		return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	}
	return joined
}
