// FILE: internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"time"

	"member-access-be/internal/config"
	"member-access-be/internal/dto"
	"member-access-be/internal/repository/specification"
	"member-access-be/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	authConfig config.AuthConfig
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, authConfig config.AuthConfig) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		authConfig: authConfig,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	admin, err := uow.AdminUserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, errors.New("invalid credentials")
	}
	if admin == nil {
		return nil, errors.New("invalid credentials")
	}

	if !admin.IsActive {
		return nil, errors.New("admin account is disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	claims := jwt.MapClaims{
		"admin_id": admin.Id.String(),
		"email":    admin.Email,
		"exp":      time.Now().Add(s.authConfig.TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.authConfig.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &dto.AdminLoginResponse{
		Token: signedToken,
		Email: admin.Email,
		Name:  admin.FullName,
	}, nil
}
