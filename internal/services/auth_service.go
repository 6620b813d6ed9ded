package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"ecobloom/internal/apperrors"
	"ecobloom/internal/mailer"
	"ecobloom/internal/models"
	"ecobloom/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	otpDigits         = 6
	minPasswordLength = 8
	// MaxOTPAttempts wrong codes discard a pending OTP.
	MaxOTPAttempts = 5
)

var phoneNumber = regexp.MustCompile(`^\d{10}$`)

// ErrOTPAttemptsExhausted is returned when a wrong code discards the pending OTP.
var ErrOTPAttemptsExhausted = apperrors.Validation("Too many invalid attempts. Please request a new OTP")

// RegisterInput is the body of a registration.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Number   string `json:"number"`
	Password string `json:"password"`
}

// ResetPasswordInput is the body of a password reset.
type ResetPasswordInput struct {
	Email           string `json:"email"`
	OTP             string `json:"otp"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ChangePasswordInput is the body of a password change.
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// AuthConfig tunes token and OTP lifetimes.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	OTPTTL    time.Duration
}

// AuthService handles business logic for accounts, OTP verification and session tokens.
type AuthService struct {
	userRepo  repositories.UserRepository
	mailer    Mailer
	jwtSecret []byte
	tokenTTL  time.Duration
	otpTTL    time.Duration
	log       *zap.SugaredLogger
	now       func() time.Time
	newOTP    func() (string, error)
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, m Mailer, cfg AuthConfig, log *zap.SugaredLogger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		mailer:    m,
		jwtSecret: []byte(cfg.JWTSecret),
		tokenTTL:  cfg.TokenTTL,
		otpTTL:    cfg.OTPTTL,
		log:       log,
		now:       time.Now,
		newOTP:    GenerateOTP,
	}
}

// TokenTTL is the lifetime of issued session tokens.
func (s *AuthService) TokenTTL() time.Duration { return s.tokenTTL }

// Register creates an unverified account and mails it an OTP. When the mail
// cannot be sent the account is removed again.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	number := strings.TrimSpace(in.Number)
	if name == "" || email == "" || number == "" || in.Password == "" {
		return nil, "", apperrors.Validation("All fields are required")
	}
	if !phoneNumber.MatchString(number) {
		return nil, "", apperrors.Validation("Enter a valid 10-digit phone number")
	}
	if len(in.Password) < minPasswordLength {
		return nil, "", apperrors.Validation("Password must be at least 8 characters")
	}

	exists, err := s.userRepo.ExistsByEmailOrNumber(ctx, email, number)
	if err != nil {
		return nil, "", wrap(err, "Registration failed")
	}
	if exists {
		return nil, "", apperrors.Conflict("User already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperrors.Unexpected("Registration failed", fmt.Errorf("failed to hash password: %w", err))
	}
	user := &models.User{Name: name, Email: email, Number: number, Password: string(hashedPassword)}
	otp, err := s.issueOTP(user)
	if err != nil {
		return nil, "", err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if apperrors.Is(err, apperrors.KindConflict) {
			return nil, "", apperrors.Conflict("User already exists")
		}
		return nil, "", wrap(err, "Registration failed")
	}

	if err := s.sendOTP(ctx, user, mailer.VerificationSubject, otp); err != nil {
		if delErr := s.userRepo.Delete(ctx, user.ID); delErr != nil {
			s.log.Errorw("failed to roll back registration", "user", user.ID, "error", delErr)
		}
		return nil, "", apperrors.Unexpected("Registration failed", err)
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login checks credentials of a verified account and returns a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", apperrors.Validation("Email and password required")
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return nil, "", apperrors.Validation("Invalid credentials")
		}
		return nil, "", wrap(err, "Login failed")
	}
	if !user.IsVerified {
		return nil, "", apperrors.Forbidden("Please verify your account first")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", apperrors.Validation("Invalid credentials")
	}
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Me re-fetches the caller's account.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, wrap(err, "Failed to fetch profile")
	}
	return user, nil
}

// UpdateProfile changes the caller's name and phone number.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, name, number string) (*models.User, error) {
	name = strings.TrimSpace(name)
	number = strings.TrimSpace(number)
	if name == "" {
		return nil, apperrors.Validation("Name is required")
	}
	if !phoneNumber.MatchString(number) {
		return nil, apperrors.Validation("Enter a valid 10-digit phone number")
	}
	taken, err := s.userRepo.NumberTakenByOther(ctx, number, userID)
	if err != nil {
		return nil, wrap(err, "Failed to update profile")
	}
	if taken {
		return nil, apperrors.Conflict("Phone number already in use")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, wrap(err, "Failed to update profile")
	}
	user.Name, user.Number = name, number
	if err := s.userRepo.Update(ctx, user); err != nil {
		if apperrors.Is(err, apperrors.KindConflict) {
			return nil, apperrors.Conflict("Phone number already in use")
		}
		return nil, wrap(err, "Failed to update profile")
	}
	return user, nil
}

// VerifyOTP marks the account verified and returns a session token.
func (s *AuthService) VerifyOTP(ctx context.Context, email, otp string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(otp) == "" {
		return nil, "", apperrors.Validation("Email and OTP required")
	}
	user, err := s.consumeOTP(ctx, email, otp, "OTP verification failed")
	if err != nil {
		return nil, "", err
	}
	user.IsVerified = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, "", wrap(err, "OTP verification failed")
	}
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ResendOTP issues a fresh verification code to an unverified account.
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	user, err := s.userForOTP(ctx, email, "Failed to resend OTP")
	if err != nil {
		return err
	}
	if user.IsVerified {
		return apperrors.Validation("Already verified")
	}
	return s.reissueOTP(ctx, user, mailer.VerificationSubject, "Failed to resend OTP")
}

// ForgotPassword mails a password reset code.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userForOTP(ctx, email, "Failed to start password reset")
	if err != nil {
		return err
	}
	return s.reissueOTP(ctx, user, mailer.PasswordResetSubject, "Failed to start password reset")
}

// ResetPassword sets a new password after checking the mailed code.
func (s *AuthService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || strings.TrimSpace(in.OTP) == "" || in.NewPassword == "" || in.ConfirmPassword == "" {
		return apperrors.Validation("Email, OTP, new password, and confirm password are required")
	}
	if in.NewPassword != in.ConfirmPassword {
		return apperrors.Validation("New password and confirm password do not match")
	}
	if len(in.NewPassword) < minPasswordLength {
		return apperrors.Validation("Password must be at least 8 characters")
	}
	user, err := s.consumeOTP(ctx, email, in.OTP, "Failed to reset password")
	if err != nil {
		return err
	}
	if err := s.setPassword(user, in.NewPassword); err != nil {
		return err
	}
	return wrap(s.userRepo.Update(ctx, user), "Failed to reset password")
}

// ChangePassword replaces the caller's password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) error {
	if in.CurrentPassword == "" || in.NewPassword == "" || in.ConfirmPassword == "" {
		return apperrors.Validation("Current, new, and confirm password are required")
	}
	if len(in.NewPassword) < minPasswordLength {
		return apperrors.Validation("New password must be at least 8 characters")
	}
	if in.NewPassword != in.ConfirmPassword {
		return apperrors.Validation("New password and confirm password must match")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return wrap(err, "Failed to update password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)); err != nil {
		return apperrors.Validation("Current password is incorrect")
	}
	if err := s.setPassword(user, in.NewPassword); err != nil {
		return err
	}
	return wrap(s.userRepo.Update(ctx, user), "Failed to update password")
}

func (s *AuthService) setPassword(user *models.User, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Unexpected("Failed to update password", fmt.Errorf("failed to hash password: %w", err))
	}
	user.Password = string(hashed)
	return nil
}

func (s *AuthService) userForOTP(ctx context.Context, email, failure string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.Validation("Email required")
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, wrap(err, failure)
	}
	return user, nil
}

// consumeOTP checks code against the user's pending OTP and clears it.
func (s *AuthService) consumeOTP(ctx context.Context, email, code, failure string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, wrap(err, failure)
	}
	if !user.HasPendingOTP() {
		return nil, apperrors.Validation("No OTP pending")
	}
	if s.now().After(*user.OTPExpiredAt) {
		return nil, apperrors.Validation("OTP expired")
	}
	if HashOTP(strings.TrimSpace(code)) != user.OTP {
		return nil, s.rejectOTP(ctx, user, failure)
	}
	user.OTP = ""
	user.OTPExpiredAt = nil
	user.OTPAttempts = 0
	return user, nil
}

// rejectOTP records a wrong code. After MaxOTPAttempts wrong codes the
// pending OTP is discarded and a new one has to be requested.
func (s *AuthService) rejectOTP(ctx context.Context, user *models.User, failure string) error {
	user.OTPAttempts++
	exhausted := user.OTPAttempts >= MaxOTPAttempts
	if exhausted {
		user.OTP = ""
		user.OTPExpiredAt = nil
		user.OTPAttempts = 0
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return wrap(err, failure)
	}
	if exhausted {
		return ErrOTPAttemptsExhausted
	}
	return apperrors.Validation("Invalid OTP")
}

func (s *AuthService) reissueOTP(ctx context.Context, user *models.User, subject, failure string) error {
	otp, err := s.issueOTP(user)
	if err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return wrap(err, failure)
	}
	if err := s.sendOTP(ctx, user, subject, otp); err != nil {
		return apperrors.Unexpected(failure, err)
	}
	return nil
}

// issueOTP stores the hash of a fresh code on user and returns the code.
func (s *AuthService) issueOTP(user *models.User) (string, error) {
	otp, err := s.newOTP()
	if err != nil {
		return "", apperrors.Unexpected("Failed to generate OTP", err)
	}
	expires := s.now().Add(s.otpTTL)
	user.OTP = HashOTP(otp)
	user.OTPExpiredAt = &expires
	user.OTPAttempts = 0
	return otp, nil
}

func (s *AuthService) sendOTP(ctx context.Context, user *models.User, subject, otp string) error {
	msg, err := mailer.OTPEmail(user.Email, subject, user.Name, otp, int(s.otpTTL/time.Minute))
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, msg)
}

// IssueToken signs a session token for user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":      user.ID,
		"isAdmin": user.IsAdmin,
		"exp":     now.Add(s.tokenTTL).Unix(),
		"iat":     now.Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", apperrors.Unexpected("Failed to generate token", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a session token.
func (s *AuthService) ValidateToken(tokenString string) (*models.Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, apperrors.Unauthenticated("Unauthorized")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperrors.Unauthenticated("Unauthorized")
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return nil, apperrors.Unauthenticated("Unauthorized")
	}
	isAdmin, _ := claims["isAdmin"].(bool)
	return &models.Principal{UserID: id, IsAdmin: isAdmin}, nil
}

// GenerateOTP returns a random numeric code.
func GenerateOTP() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n), nil
}

// HashOTP is the stored form of an OTP.
func HashOTP(otp string) string {
	sum := sha256.Sum256([]byte(otp))
	return hex.EncodeToString(sum[:])
}
