package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fleamarket/internal/logger"
	"fleamarket/models"
	"fleamarket/utils"

	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

const emailTakenMessage = "Email has already been taken"

type UserService struct {
	db     *gorm.DB
	logger logger.Logger
}

func NewUserService(db *gorm.DB, log logger.Logger) *UserService {
	return &UserService{db: db, logger: log}
}

// Register validates form, rejects duplicate emails and stores the user with
// a bcrypt hashed password.
func (s *UserService) Register(ctx context.Context, form *models.RegistrationForm) (*models.User, error) {
	form.Email = strings.TrimSpace(strings.ToLower(form.Email))

	var messages []string
	if err := form.Validate(); err != nil {
		ve, ok := models.AsValidationError(err)
		if !ok {
			return nil, err
		}
		messages = append(messages, ve.Messages...)
	}

	if form.Email != "" {
		var n int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", form.Email).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if n > 0 {
			messages = append(messages, emailTakenMessage)
		}
	}
	if len(messages) > 0 {
		return nil, &models.ValidationError{Messages: messages}
	}

	hash, err := utils.HashPassword(form.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Nickname:      form.Nickname,
		Email:         form.Email,
		Password:      hash,
		LastName:      form.LastName,
		FirstName:     form.FirstName,
		LastNameKana:  form.LastNameKana,
		FirstNameKana: form.FirstNameKana,
		BirthDate:     form.BirthDateValue(),
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		s.logger.Errorf("UserService.Register: insert failed: %v", err)
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger.Infof("UserService.Register: user %d registered", user.ID)
	return user, nil
}

// Authenticate returns the user matching email and password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *UserService) Find(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &user, nil
}
