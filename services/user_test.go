package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eco-swift-backend/apperr"
	"eco-swift-backend/models"
	"eco-swift-backend/utils"
)

var testSecret = []byte("test-secret")

func newUserService() (*UserService, *memUserStore) {
	users := newMemUserStore()
	return NewUserService(users, testSecret, time.Hour), users
}

func register(t *testing.T, service *UserService, email string, role models.UserRole) *AuthPayload {
	t.Helper()
	payload, err := service.Register(context.Background(), RegisterInput{
		Name:     "Test User",
		Email:    email,
		Password: "hunter22",
		Role:     role,
	})
	require.NoError(t, err)
	return payload
}

func TestRegisterIssuesValidToken(t *testing.T) {
	service, _ := newUserService()

	payload := register(t, service, "Test@Example.com", models.RoleBuyer)
	assert.Equal(t, "test@example.com", payload.User.Email)
	assert.Empty(t, payload.User.Password)

	claims, err := utils.ParseToken(payload.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, payload.User.ID.Hex(), claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service, _ := newUserService()
	register(t, service, "dup@example.com", models.RoleBuyer)

	_, err := service.Register(context.Background(), RegisterInput{
		Name:     "Again",
		Email:    "dup@example.com",
		Password: "hunter22",
		Role:     models.RoleVendor,
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeConflict))
}

func TestRegisterValidation(t *testing.T) {
	service, _ := newUserService()

	cases := []RegisterInput{
		{Name: "", Email: "a@b.com", Password: "hunter22", Role: models.RoleBuyer},
		{Name: "A", Email: "not-an-email", Password: "hunter22", Role: models.RoleBuyer},
		{Name: "A", Email: "a@b.com", Password: "short", Role: models.RoleBuyer},
		{Name: "A", Email: "a@b.com", Password: "hunter22", Role: models.UserRole("ROOT")},
	}
	for _, input := range cases {
		_, err := service.Register(context.Background(), input)
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.CodeValidation), "input %+v", input)
	}
}

func TestLogin(t *testing.T) {
	service, _ := newUserService()
	register(t, service, "login@example.com", models.RoleVendor)

	payload, err := service.Login(context.Background(), LoginInput{
		Email:    "login@example.com",
		Password: "hunter22",
		Role:     models.RoleVendor,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, payload.Token)
	assert.Empty(t, payload.User.Password)
}

func TestLoginWrongPassword(t *testing.T) {
	service, _ := newUserService()
	register(t, service, "login@example.com", models.RoleVendor)

	_, err := service.Login(context.Background(), LoginInput{
		Email:    "login@example.com",
		Password: "wrong-password",
		Role:     models.RoleVendor,
	})
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", err.Error())
}

func TestLoginRoleMismatch(t *testing.T) {
	service, _ := newUserService()
	register(t, service, "login@example.com", models.RoleVendor)

	// A wrong role reads the same as wrong credentials.
	_, err := service.Login(context.Background(), LoginInput{
		Email:    "login@example.com",
		Password: "hunter22",
		Role:     models.RoleBuyer,
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeNotAuthenticated))
	assert.Equal(t, "Invalid email or password", err.Error())
}

func TestChangePassword(t *testing.T) {
	service, _ := newUserService()
	payload := register(t, service, "change@example.com", models.RoleBuyer)
	claims := claimsFor(payload.User.ID)

	_, err := service.ChangePassword(context.Background(), claims, "wrong", "newpassword")
	require.Error(t, err)
	assert.Equal(t, "Old password is incorrect", err.Error())

	_, err = service.ChangePassword(context.Background(), claims, "hunter22", "tiny")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	ok, err := service.ChangePassword(context.Background(), claims, "hunter22", "newpassword")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = service.Login(context.Background(), LoginInput{
		Email:    "change@example.com",
		Password: "newpassword",
		Role:     models.RoleBuyer,
	})
	assert.NoError(t, err)
}

func TestUpdateUser(t *testing.T) {
	service, _ := newUserService()
	payload := register(t, service, "update@example.com", models.RoleBuyer)

	name := "Renamed"
	phone := "+1 555 0100"
	updated, err := service.UpdateUser(context.Background(), claimsFor(payload.User.ID), UpdateUserInput{
		Name:  &name,
		Phone: &phone,
		Address: &AddressInput{
			Street: "1 Green Way", City: "Portland", State: "OR", ZipCode: "97201", Country: "USA",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "+1 555 0100", updated.Phone)
	require.NotNil(t, updated.Address)
	assert.Equal(t, "Portland", updated.Address.City)
}

func TestUpdateUserRejectsPartialAddress(t *testing.T) {
	service, _ := newUserService()
	payload := register(t, service, "update@example.com", models.RoleBuyer)

	_, err := service.UpdateUser(context.Background(), claimsFor(payload.User.ID), UpdateUserInput{
		Address: &AddressInput{Street: "1 Green Way"},
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestMeAnonymousIsNil(t *testing.T) {
	service, _ := newUserService()

	user, err := service.Me(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestLogout(t *testing.T) {
	service, _ := newUserService()
	payload := register(t, service, "out@example.com", models.RoleBuyer)

	ok, err := service.Logout(context.Background(), claimsFor(payload.User.ID))
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = service.Logout(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeNotAuthenticated))
}
