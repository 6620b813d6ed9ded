package handlers

import (
	"time"

	"ecobloom/internal/models"
	"ecobloom/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// UserHandler handles HTTP requests for accounts and sessions.
type UserHandler struct {
	authService *services.AuthService
	cookie      CookieConfig
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, cookie CookieConfig) *UserHandler {
	return &UserHandler{authService: authService, cookie: cookie}
}

// RegisterRoutes registers the account routes. auth guards the session
// routes. limit throttles the routes that send mail; attempts caps the
// routes that check an OTP.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth, limit, attempts fiber.Handler) {
	users := router.Group("/users")
	users.Post("/register", limit, h.HandleRegister)
	users.Post("/login", h.HandleLogin)
	users.Get("/me", auth, h.HandleMe)
	users.Put("/me", auth, h.HandleUpdateMe)
	users.Post("/logout", auth, h.HandleLogout)
	users.Post("/verify-otp", attempts, h.HandleVerifyOTP)
	users.Post("/resend-otp", limit, h.HandleResendOTP)
	users.Post("/forgot-password", limit, h.HandleForgotPassword)
	users.Post("/reset-password", attempts, h.HandleResetPassword)
	users.Patch("/change-password", auth, h.HandleChangePassword)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

type updateProfileRequest struct {
	Name   string `json:"name" validate:"required"`
	Number string `json:"number" validate:"required"`
}

// profile is the account shape returned to its owner.
func profile(u *models.User) fiber.Map {
	return fiber.Map{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"number":     u.Number,
		"isAdmin":    u.IsAdmin,
		"isVerified": u.IsVerified,
		"createdAt":  u.CreatedAt,
	}
}

func (h *UserHandler) setSession(c *fiber.Ctx, token string) {
	ttl := h.authService.TokenTTL()
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteNoneMode,
	})
}

func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := bind(c, &req); err != nil {
		return err
	}
	user, token, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	h.setSession(c, token)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Registered. OTP sent to email. Please verify to login.",
		"user":    fiber.Map{"id": user.ID, "email": user.Email, "name": user.Name},
	})
}

func (h *UserHandler) HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, token, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.setSession(c, token)
	return c.JSON(fiber.Map{"success": true, "message": "Logged in", "user": profile(user)})
}

func (h *UserHandler) HandleMe(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	user, err := h.authService.Me(c.UserContext(), p.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Profile fetched perfectly", "user": profile(user)})
}

func (h *UserHandler) HandleUpdateMe(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.authService.UpdateProfile(c.UserContext(), p.UserID, req.Name, req.Number)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Profile updated", "user": profile(user)})
}

func (h *UserHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteNoneMode,
	})
	return c.JSON(fiber.Map{"success": true, "message": "Logged out successfully"})
}

func (h *UserHandler) HandleVerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, token, err := h.authService.VerifyOTP(c.UserContext(), req.Email, req.OTP)
	if err != nil {
		return err
	}
	h.setSession(c, token)
	return c.JSON(fiber.Map{"success": true, "message": "OTP verified. You are logged in.", "user": profile(user)})
}

func (h *UserHandler) HandleResendOTP(c *fiber.Ctx) error {
	var req emailRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.authService.ResendOTP(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "OTP resent to email"})
}

func (h *UserHandler) HandleForgotPassword(c *fiber.Ctx) error {
	var req emailRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.authService.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Password reset OTP sent to email"})
}

func (h *UserHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req services.ResetPasswordInput
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.authService.ResetPassword(c.UserContext(), req); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Password reset successful. Please log in."})
}

func (h *UserHandler) HandleChangePassword(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req services.ChangePasswordInput
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.authService.ChangePassword(c.UserContext(), p.UserID, req); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Password updated successfully"})
}
