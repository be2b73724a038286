package service_test

import (
	"context"
	"testing"

	"rentals/internal/apperr"
	"rentals/internal/model"
	"rentals/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterThenLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	registered, err := f.auth.Register(ctx, service.RegisterInput{
		Email:    " Ops@Rentals.example ",
		Password: "s3cret-pass",
		Name:     "Ops",
	})
	require.NoError(t, err)
	assert.Equal(t, "token-"+registered.User.ID.String(), registered.Token)
	assert.Equal(t, "ops@rentals.example", registered.User.Email)
	assert.Equal(t, model.RoleUser, registered.User.Role)
	assert.NotEqual(t, "s3cret-pass", registered.User.Password)

	loggedIn, err := f.auth.Login(ctx, service.LoginInput{Email: "ops@rentals.example", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
	assert.NotEmpty(t, loggedIn.Token)

	me, err := f.auth.Me(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ops", me.Name)
}

func TestAuthService_RegisterDuplicateEmailIsConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := service.RegisterInput{Email: "dup@example.com", Password: "password1", Name: "Dup"}

	_, err := f.auth.Register(ctx, in)
	require.NoError(t, err)

	in.Email = "DUP@example.com"
	_, err = f.auth.Register(ctx, in)
	assert.True(t, apperr.Is(err, apperr.KindConflict), "got %v", err)
	assert.Equal(t, int64(1), f.count(t, &model.User{}))
}

func TestAuthService_RegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, service.RegisterInput{Email: "not-an-email", Password: "password1", Name: "X"})
	assert.True(t, apperr.Is(err, apperr.KindDomainConstraintViolation), "got %v", err)

	_, err = f.auth.Register(ctx, service.RegisterInput{Email: "short@example.com", Password: "123", Name: "X"})
	assert.True(t, apperr.Is(err, apperr.KindDomainConstraintViolation), "got %v", err)

	root := "root"
	_, err = f.auth.Register(ctx, service.RegisterInput{Email: "role@example.com", Password: "password1", Name: "X", Role: &root})
	assert.True(t, apperr.Is(err, apperr.KindDomainConstraintViolation), "got %v", err)

	admin := model.RoleAdmin
	payload, err := f.auth.Register(ctx, service.RegisterInput{Email: "admin@example.com", Password: "password1", Name: "X", Role: &admin})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, payload.User.Role)
}

func TestAuthService_LoginFailuresLookAlike(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.auth.Register(ctx, service.RegisterInput{Email: "known@example.com", Password: "password1", Name: "Known"})
	require.NoError(t, err)

	_, wrongPassword := f.auth.Login(ctx, service.LoginInput{Email: "known@example.com", Password: "password2"})
	_, unknownEmail := f.auth.Login(ctx, service.LoginInput{Email: "nobody@example.com", Password: "password1"})

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.True(t, apperr.Is(wrongPassword, apperr.KindInvalidCredentials))
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}
