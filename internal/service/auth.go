package service

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/iliyamo/dining-hall-reservation/internal/apperror"
    "github.com/iliyamo/dining-hall-reservation/internal/logging"
    "github.com/iliyamo/dining-hall-reservation/internal/model"
    "github.com/iliyamo/dining-hall-reservation/internal/repository"
    "github.com/iliyamo/dining-hall-reservation/internal/utils"
    "github.com/iliyamo/dining-hall-reservation/internal/validation"
)

const (
    msgRoll           = "Roll number must be exactly 7 digits"
    msgBadCredentials = "Invalid email, roll number, or password"
    msgEmailTaken     = "Email already registered or invalid roll number"
)

// RegisterInput is the sign-up form.
type RegisterInput struct {
    Email    string `validate:"required,email,max=255"`
    Username string `validate:"required,max=255"`
    Roll     string `validate:"roll"`
    Password string `validate:"required"`
}

// AuthService registers and authenticates users.
type AuthService struct {
    users      *repository.UserRepo
    bcryptCost int
}

func NewAuthService(users *repository.UserRepo, bcryptCost int) *AuthService {
    return &AuthService{users: users, bcryptCost: bcryptCost}
}

// Register creates a user.  The roll number is checked before anything
// touches the database.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) error {
    in.Email = strings.TrimSpace(in.Email)
    in.Username = strings.TrimSpace(in.Username)
    if !validation.IsRoll(in.Roll) {
        return apperror.ValidationFailed("roll", msgRoll)
    }
    if err := validation.Struct(in); err != nil {
        field, tag, _ := validation.FirstFailure(err)
        if field == "Email" && tag == "email" {
            return apperror.ValidationFailed("email", "Invalid email address")
        }
        return apperror.ValidationFailed(strings.ToLower(field), "Please fill in all fields")
    }

    hash, err := utils.HashPassword(in.Password, s.bcryptCost)
    if err != nil {
        return err
    }
    err = s.users.Create(ctx, model.User{Email: in.Email, Username: in.Username, Roll: in.Roll, PasswordHash: hash})
    if errors.Is(err, repository.ErrUserExists) {
        return apperror.Conflict(msgEmailTaken)
    }
    if err != nil {
        return apperror.Database(err)
    }
    logging.Ctx(ctx).Info().Str("email", repository.NormalizeEmail(in.Email)).Msg("user registered")
    return nil
}

// Authenticate returns the user matching all three credentials.
func (s *AuthService) Authenticate(ctx context.Context, email, roll, password string) (model.User, error) {
    if !validation.IsRoll(roll) {
        return model.User{}, apperror.ValidationFailed("roll", msgRoll)
    }
    u, err := s.users.GetByEmail(ctx, email)
    if errors.Is(err, sql.ErrNoRows) {
        return model.User{}, apperror.Unauthorized(msgBadCredentials)
    }
    if err != nil {
        return model.User{}, apperror.Database(err)
    }
    if u.Roll != roll || !utils.VerifyPassword(u.PasswordHash, password) {
        return model.User{}, apperror.Unauthorized(msgBadCredentials)
    }
    logging.Ctx(ctx).Info().Str("email", u.Email).Msg("user signed in")
    return u, nil
}
