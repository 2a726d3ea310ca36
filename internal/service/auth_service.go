package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"eventify/config"
	"eventify/internal/model"
	"eventify/internal/repository"
	apperrors "eventify/pkg/app_errors"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Claims JWT payload，role 跟著 token 走，handler 不再查 DB
type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Signup(ctx context.Context, name, email, password string, role model.Role) (*model.User, error)
	// Login 驗證密碼並簽發 JWT
	Login(ctx context.Context, email, password string) (string, *model.User, error)
	VerifyToken(tokenString string) (model.Principal, error)
}

type AuthServiceImpl struct {
	repo repository.UserRepository
	cfg  config.JWTConfig
}

func NewAuthService(repo repository.UserRepository, cfg config.JWTConfig) AuthService {
	return &AuthServiceImpl{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *AuthServiceImpl) Signup(ctx context.Context, name, email, password string, role model.Role) (*model.User, error) {
	if name == "" || email == "" || len(password) < 8 {
		return nil, apperrors.ErrInvalidInput
	}

	if role == "" {
		role = model.RoleUser
	}
	if !role.IsValid() {
		return nil, apperrors.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}

	return s.repo.Create(ctx, user)
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// 不透露帳號是否存在
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.Lifetime)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *AuthServiceImpl) VerifyToken(tokenString string) (model.Principal, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidCredentials
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return model.Principal{}, apperrors.ErrInvalidCredentials
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil || !claims.Role.IsValid() {
		return model.Principal{}, apperrors.ErrInvalidCredentials
	}

	return model.Principal{
		UserID: userID,
		Role:   claims.Role,
	}, nil
}
