package services

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"trainsurvey/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	verificationExpiry = 30 * time.Minute
	sessionExpiry      = 30 * time.Minute
)

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
	email     EmailSender

	// overridable in tests
	now func() time.Time
}

func NewAuthService(db *gorm.DB, jwtSecret string, email EmailSender) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
		email:     email,
		now:       time.Now,
	}
}

type SendVerificationRequest struct {
	Email            string `json:"email" binding:"required,email"`
	VerificationType string `json:"verification_type" binding:"required,oneof=magic_link token both"`
}

type VerifyTokenRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// SendVerification persists a verification record and mails the magic link
// and/or code. The record is persisted before the send, so a delivery
// failure leaves a consumable record behind; the caller still sees an error.
func (s *AuthService) SendVerification(req *SendVerificationRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	token, err := generateVerificationToken()
	if err != nil {
		return err
	}
	code, err := generateVerificationCode()
	if err != nil {
		return err
	}

	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash verification code: %w", err)
	}

	verification := models.EmailVerification{
		Email:            email,
		Token:            token,
		CodeHash:         string(codeHash),
		VerificationType: req.VerificationType,
		ExpiresAt:        s.now().Add(verificationExpiry),
	}
	if err := s.db.Create(&verification).Error; err != nil {
		return err
	}

	if err := s.email.SendVerificationEmail(email, req.VerificationType, token, code); err != nil {
		log.Printf("Failed to send verification email to %s: %v", email, err)
		return err
	}

	return nil
}

// VerifyLink consumes a magic-link token and signs the user in, creating the
// user record on first sight.
func (s *AuthService) VerifyLink(token string) (*models.User, string, error) {
	if token == "" {
		return nil, "", NewValidationError("verification token is required")
	}

	var verification models.EmailVerification
	err := s.db.Where("token = ? AND consumed_at IS NULL", token).First(&verification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", NewAuthenticationError("invalid or already used verification link")
		}
		return nil, "", err
	}

	return s.completeVerification(&verification)
}

// VerifyCode checks a 6-digit code against the newest unconsumed record for
// the email and signs the user in on a match.
func (s *AuthService) VerifyCode(req *VerifyTokenRequest) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var verification models.EmailVerification
	err := s.db.Where("email = ? AND consumed_at IS NULL", email).
		Order("created_at DESC").
		First(&verification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", NewAuthenticationError("no pending verification for this email")
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(verification.CodeHash), []byte(req.Code)); err != nil {
		return nil, "", NewAuthenticationError("invalid verification code")
	}

	return s.completeVerification(&verification)
}

func (s *AuthService) completeVerification(verification *models.EmailVerification) (*models.User, string, error) {
	if s.now().After(verification.ExpiresAt) {
		return nil, "", NewAuthenticationError("verification has expired, request a new one")
	}

	var user models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		consumedAt := s.now()
		result := tx.Model(&models.EmailVerification{}).
			Where("id = ? AND consumed_at IS NULL", verification.ID).
			Update("consumed_at", consumedAt)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return NewAuthenticationError("verification already used")
		}

		if err := tx.Where("email = ?", verification.Email).First(&user).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			user = models.User{Email: verification.Email}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.CreateSessionToken(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// CreateSessionToken signs a short-lived HS256 session token for the user.
func (s *AuthService) CreateSessionToken(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   fmt.Sprintf("%d", user.ID),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(sessionExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func generateVerificationToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate verification token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
