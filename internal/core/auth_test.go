package core

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tekashi/storefront/internal/model"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestAuth(db *mockDB) *AuthService {
	return NewAuthService(NewUserService(db), testSecret, "storefront", time.Hour)
}

// userRow fills the scan destinations of userColumns.
func userRow(id, email, hash, role string, active bool) *mockRow {
	return &mockRow{scanFunc: func(dest ...any) error {
		*(dest[0].(*string)) = id
		*(dest[1].(*string)) = "Ana"
		*(dest[2].(*string)) = email
		*(dest[3].(*string)) = hash
		*(dest[6].(*string)) = role
		*(dest[7].(*bool)) = active
		*(dest[13].(*string)) = "es"
		return nil
	}}
}

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=3,p=4$"))
	assert.True(t, verifyArgon2("s3cret-pass", hash))
	assert.False(t, verifyArgon2("wrong", hash))
	assert.False(t, verifyArgon2("s3cret-pass", "not-a-hash"))
}

func TestHashPassword_UniqueSalt(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestAuthService_IssueAndValidateToken(t *testing.T) {
	svc := newTestAuth(&mockDB{})

	token, err := svc.IssueToken(&model.User{ID: "u1", Email: "ana@example.com", Role: model.RoleAdmin})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Sub)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, "storefront", claims.Iss)
	assert.Equal(t, claims.Iat+3600, claims.Exp)
}

func TestAuthService_ValidateToken_Rejects(t *testing.T) {
	svc := newTestAuth(&mockDB{})
	token, err := svc.IssueToken(&model.User{ID: "u1", Role: model.RoleCustomer})
	require.NoError(t, err)

	other := NewAuthService(nil, "another-secret-another-secret-xx", "storefront", time.Hour)
	_, err = other.ValidateToken(token)
	assert.Error(t, err, "wrong secret")

	otherIssuer := NewAuthService(nil, testSecret, "elsewhere", time.Hour)
	_, err = otherIssuer.ValidateToken(token)
	assert.Error(t, err, "wrong issuer")

	expired := NewAuthService(nil, testSecret, "storefront", -time.Minute)
	old, err := expired.IssueToken(&model.User{ID: "u1"})
	require.NoError(t, err)
	_, err = svc.ValidateToken(old)
	assert.Error(t, err, "expired")

	_, err = svc.ValidateToken("garbage")
	assert.Error(t, err)
}

func TestAuthService_Login_Success(t *testing.T) {
	db := &mockDB{}
	svc := newTestAuth(db)
	ctx := context.Background()
	hash, err := HashPassword("password1")
	require.NoError(t, err)

	db.On("QueryRow", ctx, sqlContains("WHERE email = $1"), []any{"ana@example.com"}).
		Return(userRow("u1", "ana@example.com", hash, model.RoleCustomer, true))
	db.On("Exec", ctx, sqlContains("last_login_at"), []any{"u1"}).Return(tag("UPDATE 1"), nil)

	token, user, err := svc.Login(ctx, " Ana@Example.com ", "password1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "u1", user.ID)
	db.AssertExpectations(t)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	hash, err := HashPassword("password1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		row      *mockRow
		password string
	}{
		{"unknown email", errRow(pgx.ErrNoRows), "password1"},
		{"wrong password", userRow("u1", "ana@example.com", hash, model.RoleCustomer, true), "password2"},
		{"inactive", userRow("u1", "ana@example.com", hash, model.RoleCustomer, false), "password1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &mockDB{}
			svc := newTestAuth(db)
			db.On("QueryRow", mock.Anything, mock.Anything, mock.Anything).Return(tt.row)

			_, _, err := svc.Login(context.Background(), "ana@example.com", tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			db.AssertNotCalled(t, "Exec", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestAuthService_Register(t *testing.T) {
	db := &mockDB{}
	svc := newTestAuth(db)
	ctx := context.Background()

	db.On("Exec", ctx, sqlContains("INSERT INTO users"), mock.Anything).Return(tag("INSERT 0 1"), nil)

	token, user, err := svc.Register(ctx, "Ana", "ANA@example.com", "password1", "300")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, model.RoleCustomer, user.Role)
	assert.Equal(t, "es", user.Language)
	assert.True(t, verifyArgon2("password1", user.PasswordHash))
	db.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	db := &mockDB{}
	svc := newTestAuth(db)

	db.On("Exec", mock.Anything, sqlContains("INSERT INTO users"), mock.Anything).
		Return(tag(""), uniqueViolation())

	_, _, err := svc.Register(context.Background(), "Ana", "ana@example.com", "password1", "")
	assert.ErrorIs(t, err, ErrConflict)
}
