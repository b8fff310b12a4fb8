package auth

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sushka2023/sushka-shop-backend/internal/basket"
	"github.com/sushka2023/sushka-shop-backend/internal/favorites"
	"github.com/sushka2023/sushka-shop-backend/internal/users"
	pkgauth "github.com/sushka2023/sushka-shop-backend/pkg/auth"
	"github.com/sushka2023/sushka-shop-backend/pkg/config"
	"github.com/sushka2023/sushka-shop-backend/pkg/db/models"
	pkgerrors "github.com/sushka2023/sushka-shop-backend/pkg/errors"
	"github.com/sushka2023/sushka-shop-backend/pkg/logger"
)

type directTxRunner struct {
	db *gorm.DB
}

func (r directTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// memorySessions is an in-process stand-in for the Redis-backed manager.
type memorySessions struct {
	tokens map[string]string
	next   int
}

func newMemorySessions() *memorySessions {
	return &memorySessions{tokens: map[string]string{}}
}

func (m *memorySessions) Generate(ctx context.Context, accessID string) (string, error) {
	m.next++
	token := "refresh-" + string(rune('a'+m.next))
	m.tokens[accessID] = token
	return token, nil
}

func (m *memorySessions) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := m.tokens[oldAccessID]
	if !ok || stored != provided {
		return "", "", pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
	}
	delete(m.tokens, oldAccessID)
	newID := "access-" + string(rune('a'+m.next))
	token, _ := m.Generate(ctx, newID)
	return newID, token, nil
}

func (m *memorySessions) Revoke(ctx context.Context, accessID string) error {
	delete(m.tokens, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "sushka-test",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 10080,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func setupAuthTest(t *testing.T) (*gorm.DB, Service) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Basket{},
		&models.Favorite{},
		&models.BlacklistedToken{},
		&models.UsedEmailToken{},
	))

	svc, err := NewService(ServiceParams{
		Users:     users.NewRepository(db),
		Baskets:   basket.NewRepository(db),
		Favorites: favorites.NewRepository(db),
		Repo:      NewRepository(db),
		Tx:        directTxRunner{db: db},
		Sessions:  newMemorySessions(),
		JWT:       testJWTConfig(),
		Password:  testPasswordConfig(),
		Logger:    logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard}),
	})
	require.NoError(t, err)
	return db, svc
}

func signup(t *testing.T, svc Service) *users.UserDTO {
	t.Helper()
	user, err := svc.Signup(context.Background(), SignupDTO{
		Email:     "buyer@example.com",
		Password:  "Str0ngPass",
		FirstName: "Олена",
		LastName:  "Шевченко",
	})
	require.NoError(t, err)
	return user
}

func TestSignupCreatesBasketAndFavorites(t *testing.T) {
	db, svc := setupAuthTest(t)
	user := signup(t, svc)

	var basketCount, favCount int64
	require.NoError(t, db.Model(&models.Basket{}).Where("user_id = ?", user.ID).Count(&basketCount).Error)
	require.NoError(t, db.Model(&models.Favorite{}).Where("user_id = ?", user.ID).Count(&favCount).Error)
	assert.EqualValues(t, 1, basketCount)
	assert.EqualValues(t, 1, favCount)
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	_, svc := setupAuthTest(t)
	signup(t, svc)

	_, err := svc.Signup(context.Background(), SignupDTO{
		Email:    "Buyer@Example.com",
		Password: "Str0ngPass",
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestSignupWeakPasswordRejected(t *testing.T) {
	_, svc := setupAuthTest(t)

	for _, password := range []string{"short1A", "nouppercase1", "NODIGITSHERE", "12345678"} {
		_, err := svc.Signup(context.Background(), SignupDTO{Email: "x@example.com", Password: password})
		require.Error(t, err, password)
		appErr := pkgerrors.As(err)
		require.NotNil(t, appErr, password)
		assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code(), password)
	}
}

func TestLoginIssuesTokenPair(t *testing.T) {
	db, svc := setupAuthTest(t)
	signup(t, svc)

	pair, err := svc.Login(context.Background(), LoginDTO{Email: "buyer@example.com", Password: "Str0ngPass"})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "bearer", pair.TokenType)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, pair.User.ID, claims.UserID)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", pair.User.ID).Error)
	require.NotNil(t, user.RefreshToken)
	assert.Equal(t, pair.RefreshToken, *user.RefreshToken)
}

func TestLoginWrongPassword(t *testing.T) {
	_, svc := setupAuthTest(t)
	signup(t, svc)

	_, err := svc.Login(context.Background(), LoginDTO{Email: "buyer@example.com", Password: "WrongPass1"})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
}

func TestRefreshRotatesPair(t *testing.T) {
	db, svc := setupAuthTest(t)
	signup(t, svc)
	pair, err := svc.Login(context.Background(), LoginDTO{Email: "buyer@example.com", Password: "Str0ngPass"})
	require.NoError(t, err)

	rotated, err := svc.Refresh(context.Background(), RefreshDTO{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", pair.User.ID).Error)
	require.NotNil(t, user.RefreshToken)
	assert.Equal(t, rotated.RefreshToken, *user.RefreshToken)

	// the old pair no longer matches the stored refresh token
	_, err = svc.Refresh(context.Background(), RefreshDTO{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
	require.Error(t, err)
}

func TestRefreshRejectsMismatchedToken(t *testing.T) {
	_, svc := setupAuthTest(t)
	signup(t, svc)
	pair, err := svc.Login(context.Background(), LoginDTO{Email: "buyer@example.com", Password: "Str0ngPass"})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), RefreshDTO{
		AccessToken:  pair.AccessToken,
		RefreshToken: "forged",
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
}

func TestLogoutBlacklistsAccessToken(t *testing.T) {
	db, svc := setupAuthTest(t)
	signup(t, svc)
	pair, err := svc.Login(context.Background(), LoginDTO{Email: "buyer@example.com", Password: "Str0ngPass"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), pair.AccessToken))

	var blacklisted int64
	require.NoError(t, db.Model(&models.BlacklistedToken{}).Where("token = ?", pair.AccessToken).Count(&blacklisted).Error)
	assert.EqualValues(t, 1, blacklisted)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", pair.User.ID).Error)
	assert.Nil(t, user.RefreshToken)

	// a blacklisted token can no longer refresh
	_, err = svc.Refresh(context.Background(), RefreshDTO{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
}

func mintEmailToken(t *testing.T, userID uint) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(testJWTConfig(), time.Now(), pkgauth.AccessTokenPayload{
		UserID: userID,
		Role:   "user",
	})
	require.NoError(t, err)
	return token
}

func TestConfirmEmailBurnsToken(t *testing.T) {
	db, svc := setupAuthTest(t)
	user := signup(t, svc)
	token := mintEmailToken(t, user.ID)

	require.NoError(t, svc.ConfirmEmail(context.Background(), token))

	var row models.User
	require.NoError(t, db.First(&row, "id = ?", user.ID).Error)
	assert.True(t, row.ConfirmedEmail)

	// replay is rejected
	err := svc.ConfirmEmail(context.Background(), token)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestResetPasswordRequiresStrongPassword(t *testing.T) {
	_, svc := setupAuthTest(t)
	user := signup(t, svc)
	token := mintEmailToken(t, user.ID)

	err := svc.ResetPassword(context.Background(), ResetPasswordDTO{Token: token, Password: "weak"})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())

	require.NoError(t, svc.ResetPassword(context.Background(), ResetPasswordDTO{Token: token, Password: "N3wStrongPass"}))

	_, err = svc.Login(context.Background(), LoginDTO{Email: "buyer@example.com", Password: "N3wStrongPass"})
	require.NoError(t, err)
}
