package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"farmledger/internal/config"
	"farmledger/internal/dto"
	"farmledger/internal/infra"
	"farmledger/internal/model"
	"farmledger/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// ResetTokenStore keeps single-use password reset tokens.
type ResetTokenStore interface {
	Save(ctx context.Context, token string, userID uuid.UUID) error
	Lookup(ctx context.Context, token string) (uuid.UUID, error)
	Delete(ctx context.Context, token string) error
}

// EmailQueue enqueues outgoing mail for the worker pool.
type EmailQueue interface {
	EnqueueEmail(ctx context.Context, payload interface{}) error
}

// EmailMessage is the payload pushed to EmailQueue.
type EmailMessage struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	RequestPasswordReset(ctx context.Context, req dto.PasswordResetRequest) error
	ConfirmPasswordReset(ctx context.Context, token string, userID uuid.UUID, req dto.PasswordResetConfirmRequest) error
	Roles() []string
	AddUserToRole(ctx context.Context, req dto.AddUserToRoleRequest) (*dto.UserResponse, error)
}

type authService struct {
	repo   repository.UserRepository
	tokens ResetTokenStore
	mail   EmailQueue
	cfg    *config.Config
}

func NewAuthService(repo repository.UserRepository, tokens ResetTokenStore, mail EmailQueue, cfg *config.Config) AuthService {
	return &authService{repo: repo, tokens: tokens, mail: mail, cfg: cfg}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	fields := map[string]string{}
	if req.Password != req.ConfirmPassword {
		fields["confirm_password"] = "passwords do not match"
	}
	exists, err := s.repo.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		fields["username"] = "username already taken"
	}
	exists, err = s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		fields["email"] = "email already registered"
	}
	if len(fields) > 0 {
		return nil, &FieldErrors{Fields: fields}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:     req.Username,
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hash),
		Role:         model.RoleStaff,
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Info().Str("username", user.Username).Msg("user registered")
	resp := userToResponse(user)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByLogin(ctx, req.Username)
	if err != nil || !user.Active {
		return nil, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	}
	return s.issueTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("refresh token invalid or expired: %w", ErrUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims: %w", ErrUnauthorized)
	}
	if typ, _ := claims["typ"].(string); typ != model.TokenRefresh {
		return nil, fmt.Errorf("not a refresh token: %w", ErrUnauthorized)
	}
	userIDStr, _ := claims["user_id"].(string)
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("malformed token: %w", ErrUnauthorized)
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Active {
		return nil, fmt.Errorf("user missing or inactive: %w", ErrUnauthorized)
	}
	return s.issueTokens(user)
}

func (s *authService) RequestPasswordReset(ctx context.Context, req dto.PasswordResetRequest) error {
	if s.tokens == nil || s.mail == nil {
		return errors.New("password reset requires redis")
	}
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return notFound(err, "user with this email")
	}

	token := uuid.NewString()
	if err := s.tokens.Save(ctx, token, user.ID); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/v1/auth/password-reset-confirm/%s/%s",
		strings.TrimRight(s.cfg.PublicBaseURL, "/"), token, user.ID)
	msg := EmailMessage{
		ToEmail: user.Email,
		Subject: "Password reset",
		Body: fmt.Sprintf("Hello %s,\n\nUse the link below to choose a new password. It expires in %d minutes.\n\n%s\n",
			user.Username, s.cfg.PasswordResetTTLMinutes, link),
	}
	if err := s.mail.EnqueueEmail(ctx, msg); err != nil {
		return fmt.Errorf("enqueue reset email: %w", err)
	}
	log.Info().Str("user_id", user.ID.String()).Msg("password reset requested")
	return nil
}

func (s *authService) ConfirmPasswordReset(ctx context.Context, token string, userID uuid.UUID, req dto.PasswordResetConfirmRequest) error {
	if s.tokens == nil {
		return errors.New("password reset requires redis")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return notFound(err, "user")
	}

	owner, err := s.tokens.Lookup(ctx, token)
	if errors.Is(err, infra.ErrTokenNotFound) || (err == nil && owner != user.ID) {
		return fieldError("token", "invalid or expired token")
	}
	if err != nil {
		return err
	}
	if req.NewPassword != req.ConfirmPassword {
		return fieldError("confirm_password", "passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), 12)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}
	if err := s.tokens.Delete(ctx, token); err != nil {
		log.Warn().Err(err).Msg("reset token not deleted")
	}
	return nil
}

func (s *authService) Roles() []string {
	out := make([]string, len(model.Roles))
	copy(out, model.Roles)
	return out
}

func (s *authService) AddUserToRole(ctx context.Context, req dto.AddUserToRoleRequest) (*dto.UserResponse, error) {
	id, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, fieldError("user_id", "invalid id")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	user.Role = req.Role
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := userToResponse(user)
	return &resp, nil
}

func (s *authService) issueTokens(user *model.User) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, model.TokenAccess, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, model.TokenRefresh, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         userToResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.User, kind string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
		"typ":      kind,
		"exp":      time.Now().Add(duration).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func userToResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		Active:   u.Active,
	}
}
