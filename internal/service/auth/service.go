package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	tx database.Transactor
	employee.EmployeeRepository
	departments employee.DepartmentRepository
	auth.RefreshTokenRepository
	jwt.Service
}

func NewAuthService(
	tx database.Transactor,
	employeeRepo employee.EmployeeRepository,
	departmentRepo employee.DepartmentRepository,
	refreshTokenRepo auth.RefreshTokenRepository,
	jwtService jwt.Service,
) auth.AuthService {
	return &AuthServiceImpl{
		tx:                     tx,
		EmployeeRepository:     employeeRepo,
		departments:            departmentRepo,
		RefreshTokenRepository: refreshTokenRepo,
		Service:                jwtService,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// issueTokens creates an access/refresh pair and stores the refresh token.
// It must run inside a transaction when paired with other writes.
func (a *AuthServiceImpl) issueTokens(ctx context.Context, e employee.Employee, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var tokens auth.TokenResponse
	var err error

	tokens.AccessToken, tokens.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(e.ID, e.Email, e.Role, e.IsStaff)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	tokens.RefreshToken, tokens.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(e.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	expiresAt := time.Unix(tokens.RefreshTokenExpiresIn, 0)
	if err := a.RefreshTokenRepository.Create(ctx, e.ID, tokens.RefreshToken, expiresAt, session); err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to save refresh token to database: %w", err)
	}
	return tokens, nil
}

// Register implements auth.AuthService. New accounts are agents in the
// default department with no supervisor.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	_, err := a.EmployeeRepository.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return auth.TokenResponse{}, employee.ErrEmailExists
	case !errors.Is(err, employee.ErrEmployeeNotFound):
		return auth.TokenResponse{}, fmt.Errorf("failed to get employee by email: %w", err)
	}

	hashed, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var tokens auth.TokenResponse
	err = a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		e := employee.Employee{
			Email:        req.Email,
			FullName:     req.FullName,
			PasswordHash: &hashed,
			Role:         access.RoleEmployee,
		}
		dept, err := a.departments.GetByTitle(ctx, employee.DefaultDepartment)
		switch {
		case err == nil:
			e.DepartmentID = &dept.ID
		case !errors.Is(err, employee.ErrDepartmentNotFound):
			return err
		}

		created, err := a.EmployeeRepository.Create(ctx, e)
		if err != nil {
			return err
		}
		tokens, err = a.issueTokens(ctx, created, session)
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}
	return tokens, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	e, err := a.EmployeeRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get employee by email: %w", err)
	}
	if e.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*e.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return a.issueTokens(ctx, e, session)
}

// LoginWithGoogle implements auth.AuthService.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, email string, googleID string, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	e, err := a.EmployeeRepository.GetByGoogleID(ctx, googleID)
	if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
		return auth.TokenResponse{}, fmt.Errorf("failed to get employee by google id: %w", err)
	}

	if err != nil {
		e, err = a.EmployeeRepository.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return auth.TokenResponse{}, auth.ErrGoogleAccountNotLinked
			}
			return auth.TokenResponse{}, fmt.Errorf("failed to get employee by email: %w", err)
		}
		// another Google account already owns this employee
		if e.GoogleID != nil && *e.GoogleID != googleID {
			return auth.TokenResponse{}, auth.ErrGoogleAccountNotLinked
		}
		if e.GoogleID == nil {
			if err := a.EmployeeRepository.LinkGoogleID(ctx, e.ID, googleID); err != nil {
				return auth.TokenResponse{}, fmt.Errorf("failed to link google account: %w", err)
			}
		}
	}

	return a.issueTokens(ctx, e, session)
}

// Logout implements auth.AuthService. The refresh token is revoked in the
// database and the access token is blacklisted until it expires.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string, accessToken string) error {
	if refreshToken != "" {
		revoked, err := a.RefreshTokenRepository.IsRevoked(ctx, refreshToken)
		if err != nil {
			return fmt.Errorf("failed to check if refresh token is revoked: %w", err)
		}
		if !revoked {
			if err := a.RefreshTokenRepository.Revoke(ctx, refreshToken); err != nil {
				return fmt.Errorf("failed to revoke refresh token: %w", err)
			}
		}
	}

	if accessToken != "" {
		if err := a.Service.RevokeToken(ctx, accessToken); err != nil {
			return fmt.Errorf("failed to revoke access token: %w", err)
		}
	}
	return nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	employeeID, _, err := a.Service.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	revoked, err := a.RefreshTokenRepository.IsRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if revoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	// role changes since login are picked up here
	e, err := a.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, err
	}

	var resp auth.AccessTokenResponse
	resp.AccessToken, resp.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(e.ID, e.Email, e.Role, e.IsStaff)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return resp, nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context) (employee.EmployeeResponse, error) {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	e, err := a.EmployeeRepository.GetByID(ctx, actor.EmployeeID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(e), nil
}
