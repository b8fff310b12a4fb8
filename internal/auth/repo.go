package auth

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sushka2023/sushka-shop-backend/pkg/db/models"
	pkgerrors "github.com/sushka2023/sushka-shop-backend/pkg/errors"
)

// Repository manages the token denylist and one-shot email tokens.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an auth repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to a transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// BlacklistToken records a revoked access token. Re-blacklisting is a no-op.
func (r *Repository) BlacklistToken(ctx context.Context, token string) error {
	err := r.db.WithContext(ctx).Create(&models.BlacklistedToken{Token: token}).Error
	if err != nil && pkgerrors.IsUniqueViolation(err) {
		return nil
	}
	return err
}

// IsTokenBlacklisted reports whether the access token was revoked.
func (r *Repository) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	var row models.BlacklistedToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// MarkEmailTokenUsed consumes a one-shot email token. Returns false when the
// token was already consumed.
func (r *Repository) MarkEmailTokenUsed(ctx context.Context, token string) (bool, error) {
	err := r.db.WithContext(ctx).Create(&models.UsedEmailToken{Token: token}).Error
	if err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
