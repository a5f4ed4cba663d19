package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"eco-swift-backend/apperr"
	"eco-swift-backend/models"
	"eco-swift-backend/utils"
)

// RegisterInput is the validated register argument.
type RegisterInput struct {
	Name     string          `json:"name" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=6"`
	Role     models.UserRole `json:"role" validate:"required,oneof=BUYER VENDOR ADMIN"`
}

// LoginInput is the validated login argument.
type LoginInput struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required"`
	Role     models.UserRole `json:"role" validate:"required,oneof=BUYER VENDOR ADMIN"`
}

// UpdateUserInput carries the optional updateUser fields.
type UpdateUserInput struct {
	Name    *string       `json:"name"`
	Avatar  *string       `json:"avatar"`
	Phone   *string       `json:"phone"`
	Address *AddressInput `json:"address"`
}

// AuthPayload is returned by register and login.
type AuthPayload struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

var errInvalidCredentials = &apperr.Error{
	Code:    apperr.CodeNotAuthenticated,
	Message: "Invalid email or password",
}

// UserService handles accounts, credentials and tokens.
type UserService struct {
	users         UserStore
	jwtSecret     []byte
	jwtExpiration time.Duration
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, jwtSecret []byte, jwtExpiration time.Duration) *UserService {
	return &UserService{users: users, jwtSecret: jwtSecret, jwtExpiration: jwtExpiration}
}

// Register creates an account with a bcrypt-hashed password and returns a
// signed token for it.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*AuthPayload, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:     input.Name,
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Password: string(hash),
		Role:     input.Role,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}
	user.Password = ""

	token, err := utils.GenerateJWT(user.ID.Hex(), s.jwtSecret, s.jwtExpiration)
	if err != nil {
		return nil, err
	}
	return &AuthPayload{Token: token, User: user}, nil
}

// Login verifies the credentials and role and returns a signed token. A
// wrong role is indistinguishable from wrong credentials.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*AuthPayload, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, errInvalidCredentials
	}
	if user.Role != input.Role {
		return nil, errInvalidCredentials
	}
	user.Password = ""

	token, err := utils.GenerateJWT(user.ID.Hex(), s.jwtSecret, s.jwtExpiration)
	if err != nil {
		return nil, err
	}
	return &AuthPayload{Token: token, User: user}, nil
}

// Logout is stateless; tokens expire on their own.
func (s *UserService) Logout(ctx context.Context, claims *utils.Claims) (bool, error) {
	if claims == nil {
		return false, apperr.NotAuthenticated()
	}
	return true, nil
}

// ChangePassword verifies the old password and stores a new hash.
func (s *UserService) ChangePassword(ctx context.Context, claims *utils.Claims, oldPassword, newPassword string) (bool, error) {
	caller, err := callerID(claims)
	if err != nil {
		return false, err
	}
	if len(newPassword) < 6 {
		return false, apperr.Validation("Password must be at least 6 characters")
	}

	user, err := s.users.FindByID(ctx, caller)
	if err != nil {
		return false, err
	}
	withPassword, err := s.users.FindByEmail(ctx, user.Email)
	if err != nil {
		return false, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(withPassword.Password), []byte(oldPassword)); err != nil {
		return false, apperr.Validation("Old password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	if err := s.users.UpdatePassword(ctx, caller, string(hash)); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateUser applies a partial profile update to the caller's account.
func (s *UserService) UpdateUser(ctx context.Context, claims *utils.Claims, input UpdateUserInput) (*models.User, error) {
	caller, err := callerID(claims)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if input.Name != nil {
		set["name"] = *input.Name
	}
	if input.Avatar != nil {
		set["avatar"] = *input.Avatar
	}
	if input.Phone != nil {
		set["phone"] = *input.Phone
	}
	if input.Address != nil {
		if err := validateInput(*input.Address); err != nil {
			return nil, err
		}
		set["address"] = models.Address{
			Street:  input.Address.Street,
			City:    input.Address.City,
			State:   input.Address.State,
			ZipCode: input.Address.ZipCode,
			Country: input.Address.Country,
		}
	}
	return s.users.Update(ctx, caller, set)
}

// Me returns the caller's own account, or nil when anonymous.
func (s *UserService) Me(ctx context.Context, claims *utils.Claims) (*models.User, error) {
	if claims == nil {
		return nil, nil
	}
	caller, err := callerID(claims)
	if err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, caller)
}

// User returns an account by id.
func (s *UserService) User(ctx context.Context, userID string) (*models.User, error) {
	id, err := parseID(userID, "user")
	if err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

// Users lists accounts, newest first.
func (s *UserService) Users(ctx context.Context, limit, offset int64) ([]models.User, error) {
	return s.users.List(ctx, limit, offset)
}
