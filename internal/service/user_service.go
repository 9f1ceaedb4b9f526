package service

import (
	"errors"
	"time"

	"bilingual-chat-demo/backend/internal/models"
	"bilingual-chat-demo/backend/pkg/jwt"
	"bilingual-chat-demo/backend/translation"

	"gorm.io/gorm"
)

var (
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// UserService handles user-related operations
type UserService struct {
	db         *gorm.DB
	jwtService *jwt.Service
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB, jwtService *jwt.Service) *UserService {
	if jwtService == nil {
		jwtService = jwt.NewService("", 0)
	}
	return &UserService{db: db, jwtService: jwtService}
}

// CreateUser creates a new user
func (s *UserService) CreateUser(req *models.CreateUserRequest) (*models.User, string, error) {
	// Check if user already exists
	var existingUser models.User
	result := s.db.Where("email = ?", req.Email).First(&existingUser)
	if result.RowsAffected > 0 {
		return nil, "", ErrUserAlreadyExists
	}

	// Create new user
	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}

	// Save user to database
	if err := s.db.Create(&user).Error; err != nil {
		return nil, "", err
	}

	// Generate JWT token
	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// Login authenticates a user and returns a JWT token
func (s *UserService) Login(req *models.LoginRequest) (*models.User, string, error) {
	// Find user by email
	var user models.User
	result := s.db.Where("email = ?", req.Email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", result.Error
	}

	// Check password
	if !models.CheckPasswordHash(req.Password, user.Password) {
		return nil, "", ErrInvalidCredentials
	}

	s.db.Model(&user).Update("last_login", time.Now())

	// Generate JWT token
	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	result := s.db.First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (s *UserService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	result := s.db.Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// GetPreferences returns the user's translation preferences, creating the
// default row on first access
func (s *UserService) GetPreferences(userID uint) (*models.UserPreference, error) {
	var pref models.UserPreference
	result := s.db.Where("user_id = ?", userID).First(&pref)
	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, result.Error
		}
		pref = models.UserPreference{
			UserID:            userID,
			PreferredLanguage: translation.LangPortuguese,
			AutoTranslate:     true,
		}
		if err := s.db.Create(&pref).Error; err != nil {
			return nil, err
		}
	}
	return &pref, nil
}

// UpdatePreferences applies the non-empty fields of req to the user's
// preference row
func (s *UserService) UpdatePreferences(userID uint, req *models.UpdatePreferenceRequest) (*models.UserPreference, error) {
	pref, err := s.GetPreferences(userID)
	if err != nil {
		return nil, err
	}

	if req.PreferredLanguage != "" {
		pref.PreferredLanguage = translation.NormalizeLanguage(req.PreferredLanguage)
	}
	if req.AutoTranslate != nil {
		pref.AutoTranslate = *req.AutoTranslate
	}

	if err := s.db.Save(pref).Error; err != nil {
		return nil, err
	}
	return pref, nil
}
