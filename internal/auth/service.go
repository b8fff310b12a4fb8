package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sushka2023/sushka-shop-backend/internal/basket"
	"github.com/sushka2023/sushka-shop-backend/internal/favorites"
	"github.com/sushka2023/sushka-shop-backend/internal/users"
	pkgauth "github.com/sushka2023/sushka-shop-backend/pkg/auth"
	"github.com/sushka2023/sushka-shop-backend/pkg/auth/session"
	"github.com/sushka2023/sushka-shop-backend/pkg/config"
	"github.com/sushka2023/sushka-shop-backend/pkg/db/models"
	pkgerrors "github.com/sushka2023/sushka-shop-backend/pkg/errors"
	"github.com/sushka2023/sushka-shop-backend/pkg/logger"
	"github.com/sushka2023/sushka-shop-backend/pkg/mailer"
	"github.com/sushka2023/sushka-shop-backend/pkg/security"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// Service covers registration, sessions and the email token flows.
type Service interface {
	Signup(ctx context.Context, dto SignupDTO) (*users.UserDTO, error)
	Login(ctx context.Context, dto LoginDTO) (*TokenPairDTO, error)
	Logout(ctx context.Context, accessToken string) error
	Refresh(ctx context.Context, dto RefreshDTO) (*TokenPairDTO, error)

	RequestEmailConfirmation(ctx context.Context, email string) error
	ConfirmEmail(ctx context.Context, token string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, dto ResetPasswordDTO) error
}

// ServiceParams bundles the auth service dependencies. Mail is optional; the
// email flows degrade to token-only when no sender is configured.
type ServiceParams struct {
	Users     *users.Repository
	Baskets   *basket.Repository
	Favorites *favorites.Repository
	Repo      *Repository
	Tx        txRunner
	Sessions  sessionManager
	JWT       config.JWTConfig
	Password  config.PasswordConfig
	Mail      mailer.Sender
	Logger    *logger.Logger
	Now       func() time.Time
}

type service struct {
	users     *users.Repository
	baskets   *basket.Repository
	favorites *favorites.Repository
	repo      *Repository
	tx        txRunner
	sessions  sessionManager
	jwt       config.JWTConfig
	password  config.PasswordConfig
	mail      mailer.Sender
	logger    *logger.Logger
	now       func() time.Time
}

// NewService builds the auth service.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "users repository required")
	}
	if params.Baskets == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "basket repository required")
	}
	if params.Favorites == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "favorites repository required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "auth repository required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session manager required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		users:     params.Users,
		baskets:   params.Baskets,
		favorites: params.Favorites,
		repo:      params.Repo,
		tx:        params.Tx,
		sessions:  params.Sessions,
		jwt:       params.JWT,
		password:  params.Password,
		mail:      params.Mail,
		logger:    params.Logger,
		now:       now,
	}, nil
}

// Signup registers an account together with its basket and favorites list in
// one transaction.
func (s *service) Signup(ctx context.Context, dto SignupDTO) (*users.UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(dto.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if err := security.ValidatePassword(dto.Password); err != nil {
		return nil, err
	}
	hash, err := security.HashPassword(dto.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *models.User
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		user, err := s.users.WithTx(tx).Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: hash,
			FirstName:    dto.FirstName,
			LastName:     dto.LastName,
		})
		if err != nil {
			if pkgerrors.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}
		if _, err := s.baskets.WithTx(tx).Create(ctx, user.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create basket")
		}
		if _, err := s.favorites.WithTx(tx).Create(ctx, user.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create favorites")
		}
		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sendEmailToken(ctx, created, "Підтвердження електронної пошти",
		"Для підтвердження пошти скористайтеся токеном: %s")

	result := users.FromModel(created)
	return &result, nil
}

// Login verifies the credentials and issues an access/refresh pair.
func (s *service) Login(ctx context.Context, dto LoginDTO) (*TokenPairDTO, error) {
	email := strings.ToLower(strings.TrimSpace(dto.Email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is disabled")
	}
	ok, err := security.VerifyPassword(dto.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}

	return s.issuePair(ctx, user)
}

// Logout revokes the session and denylists the access token.
func (s *service) Logout(ctx context.Context, accessToken string) error {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwt, accessToken)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}
	if err := s.repo.BlacklistToken(ctx, accessToken); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "blacklist token")
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		s.logger.Error(ctx, "revoke session", err)
	}
	if err := s.users.UpdateRefreshToken(ctx, claims.UserID, nil); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear refresh token")
	}
	return nil
}

// Refresh rotates the session. The pair is rejected when the access token is
// blacklisted or the refresh token does not match the one on record.
func (s *service) Refresh(ctx context.Context, dto RefreshDTO) (*TokenPairDTO, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwt, dto.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}
	blacklisted, err := s.repo.IsTokenBlacklisted(ctx, dto.AccessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check token blacklist")
	}
	if blacklisted {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token is revoked")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown account")
	}
	if user.RefreshToken == nil || *user.RefreshToken != dto.RefreshToken {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "refresh token mismatch")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, dto.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	accessToken, err := pkgauth.MintAccessToken(s.jwt, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	if err := s.users.UpdateRefreshToken(ctx, user.ID, &newRefresh); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}

	return &TokenPairDTO{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		TokenType:    "bearer",
		User:         users.FromModel(user),
	}, nil
}

// RequestEmailConfirmation re-sends the confirmation token.
func (s *service) RequestEmailConfirmation(ctx context.Context, email string) error {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.ConfirmedEmail {
		return pkgerrors.New(pkgerrors.CodeConflict, "email is already confirmed")
	}
	s.sendEmailToken(ctx, user, "Підтвердження електронної пошти",
		"Для підтвердження пошти скористайтеся токеном: %s")
	return nil
}

// ConfirmEmail consumes the one-shot token and marks the account confirmed.
func (s *service) ConfirmEmail(ctx context.Context, token string) error {
	claims, err := s.consumeEmailToken(ctx, token)
	if err != nil {
		return err
	}
	if err := s.users.ConfirmEmail(ctx, claims.UserID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm email")
	}
	return nil
}

// RequestPasswordReset emails a one-shot reset token.
func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	s.sendEmailToken(ctx, user, "Відновлення пароля",
		"Для зміни пароля скористайтеся токеном: %s")
	return nil
}

// ResetPassword consumes the token and replaces the password.
func (s *service) ResetPassword(ctx context.Context, dto ResetPasswordDTO) error {
	if err := security.ValidatePassword(dto.Password); err != nil {
		return err
	}
	claims, err := s.consumeEmailToken(ctx, dto.Token)
	if err != nil {
		return err
	}
	hash, err := security.HashPassword(dto.Password, s.password)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.users.UpdatePassword(ctx, claims.UserID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update password")
	}
	// drop the stored refresh token so stolen sessions die with the password
	if err := s.users.UpdateRefreshToken(ctx, claims.UserID, nil); err != nil {
		s.logger.Error(ctx, "clear refresh token", err)
	}
	return nil
}

func (s *service) issuePair(ctx context.Context, user *models.User) (*TokenPairDTO, error) {
	accessID := session.NewAccessID()
	accessToken, err := pkgauth.MintAccessToken(s.jwt, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	refreshToken, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}
	if err := s.users.UpdateRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}
	return &TokenPairDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		User:         users.FromModel(user),
	}, nil
}

func (s *service) findByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

// consumeEmailToken validates the signed token and burns it so it cannot be
// replayed.
func (s *service) consumeEmailToken(ctx context.Context, token string) (*pkgauth.AccessTokenClaims, error) {
	claims, err := pkgauth.ParseAccessToken(s.jwt, token)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired token")
	}
	fresh, err := s.repo.MarkEmailTokenUsed(ctx, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume email token")
	}
	if !fresh {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "token was already used")
	}
	return claims, nil
}

// sendEmailToken mints a short-lived signed token and mails it. Failures are
// logged only so registration never breaks on a mail outage.
func (s *service) sendEmailToken(ctx context.Context, user *models.User, subject, bodyFormat string) {
	token, err := pkgauth.MintAccessToken(s.jwt, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		s.logger.Error(ctx, "mint email token", err)
		return
	}
	if s.mail == nil {
		return
	}
	msg := mailer.Message{
		To:      user.Email,
		Subject: subject,
		Text:    fmt.Sprintf(bodyFormat, token),
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		s.logger.Error(ctx, "send email token", err)
	}
}
