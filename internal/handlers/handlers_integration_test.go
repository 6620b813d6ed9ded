package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"ecobloom/internal/database"
	"ecobloom/internal/handlers"
	"ecobloom/internal/logger"
	"ecobloom/internal/mailer"
	"ecobloom/internal/models"
	"ecobloom/internal/repositories"
	"ecobloom/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var otpInMail = regexp.MustCompile(`OTP is: (\d{6})`)

type fakeMailer struct {
	mu   sync.Mutex
	sent map[string]mailer.Message
}

func (m *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent[msg.To] = msg
	return nil
}

func (m *fakeMailer) otpFor(t *testing.T, email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	match := otpInMail.FindStringSubmatch(m.sent[email].Text)
	require.Len(t, match, 2, "no OTP mailed to %s", email)
	return match[1]
}

type fakeBlobs struct{}

func (fakeBlobs) PutImage(_ context.Context, img services.ImageUpload) (string, error) {
	return "https://cdn.test/" + img.Filename, nil
}

func (fakeBlobs) Delete(context.Context, string) error { return nil }

type fakePublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *fakePublisher) Publish(_ context.Context, routingKey string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return nil
}

func (p *fakePublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

type testEnv struct {
	app       *fiber.App
	db        *gorm.DB
	store     *repositories.Store
	mail      *fakeMailer
	publisher *fakePublisher
}

// setupApp builds the full app over a private in-memory sqlite database.
// configure may adjust the dependencies before the app is built.
func setupApp(t *testing.T, configure ...func(*handlers.Deps)) *testEnv {
	t.Helper()
	db, err := database.OpenGORM("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.MigrateGORM(db))

	store := repositories.NewGORMStore(db)
	log := logger.Nop()
	mail := &fakeMailer{sent: map[string]mailer.Message{}}
	publisher := &fakePublisher{}

	authService := services.NewAuthService(store.Users, mail, services.AuthConfig{
		JWTSecret: "test_jwt_secret",
		TokenTTL:  time.Hour,
		OTPTTL:    10 * time.Minute,
	}, log)

	deps := handlers.Deps{
		Auth:       authService,
		Categories: services.NewCategoryService(store.Categories),
		Plants:     services.NewPlantService(store.Plants, store.Categories, fakeBlobs{}, 2<<20, log),
		Orders:     services.NewOrderService(store.Orders, store.Plants, publisher, log),
		Contacts:   services.NewContactService(store.Contacts),
		Cookie:     handlers.CookieConfig{Name: "token"},
		Log:        log,
	}
	for _, fn := range configure {
		fn(&deps)
	}
	app := handlers.NewApp(deps)
	return &testEnv{app: app, db: db, store: store, mail: mail, publisher: publisher}
}

// call sends a JSON request and decodes the JSON response.
func (e *testEnv) call(t *testing.T, method, path string, body interface{}, token string) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func sessionCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			return c.Value
		}
	}
	return ""
}

// signUp registers and verifies an account, returning its session token.
func (e *testEnv) signUp(t *testing.T, name, email, number string) string {
	t.Helper()
	resp, _ := e.call(t, http.MethodPost, "/api/users/register", fiber.Map{
		"name": name, "email": email, "number": number, "password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = e.call(t, http.MethodPost, "/api/users/verify-otp", fiber.Map{
		"email": email, "otp": e.mail.otpFor(t, email),
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := sessionCookie(resp)
	require.NotEmpty(t, token)
	return token
}

// signUpAdmin grants admin rights in the database and logs in again for a token carrying them.
func (e *testEnv) signUpAdmin(t *testing.T) string {
	t.Helper()
	e.signUp(t, "Admin", "admin@ecobloom.test", "9000000001")
	require.NoError(t, e.db.Model(&models.User{}).Where("email = ?", "admin@ecobloom.test").Update("is_admin", true).Error)

	resp, _ := e.call(t, http.MethodPost, "/api/users/login", fiber.Map{
		"email": "admin@ecobloom.test", "password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return sessionCookie(resp)
}

func TestHealth(t *testing.T) {
	env := setupApp(t)
	resp, body := env.call(t, http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "EcoBloom API", body["service"])
}

func TestRegisterVerifyAndLogin(t *testing.T) {
	env := setupApp(t)
	register := fiber.Map{"name": "Asha", "email": "Asha@Example.com", "number": "9876543210", "password": "password123"}

	resp, body := env.call(t, http.MethodPost, "/api/users/register", register, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "asha@example.com", body["user"].(map[string]interface{})["email"])

	resp, body = env.call(t, http.MethodPost, "/api/users/register", register, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, false, body["success"])

	login := fiber.Map{"email": "asha@example.com", "password": "password123"}
	resp, body = env.call(t, http.MethodPost, "/api/users/login", login, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Please verify your account first", body["message"])

	resp, body = env.call(t, http.MethodPost, "/api/users/verify-otp", fiber.Map{"email": "asha@example.com", "otp": "000000x"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid OTP", body["message"])

	otp := env.mail.otpFor(t, "asha@example.com")
	resp, _ = env.call(t, http.MethodPost, "/api/users/verify-otp", fiber.Map{"email": "asha@example.com", "otp": otp}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = env.call(t, http.MethodPost, "/api/users/login", fiber.Map{"email": "asha@example.com", "password": "wrong-password"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", body["message"])

	resp, _ = env.call(t, http.MethodPost, "/api/users/login", login, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := sessionCookie(resp)

	resp, body = env.call(t, http.MethodGet, "/api/users/me", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Asha", body["user"].(map[string]interface{})["name"])
	assert.Equal(t, true, body["user"].(map[string]interface{})["isVerified"])

	resp, _ = env.call(t, http.MethodGet, "/api/users/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = env.call(t, http.MethodGet, "/api/users/me", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginValidatesBody(t *testing.T) {
	env := setupApp(t)
	resp, body := env.call(t, http.MethodPost, "/api/users/login", fiber.Map{"email": "not-an-email"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Validation failed", body["message"])
	assert.Contains(t, body["errors"], "Email")
	assert.Contains(t, body["errors"], "Password")
}

func TestPasswordResetFlow(t *testing.T) {
	env := setupApp(t)
	env.signUp(t, "Ravi", "ravi@example.com", "9123456780")

	resp, _ := env.call(t, http.MethodPost, "/api/users/forgot-password", fiber.Map{"email": "ravi@example.com"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := env.call(t, http.MethodPost, "/api/users/reset-password", fiber.Map{
		"email": "ravi@example.com", "otp": env.mail.otpFor(t, "ravi@example.com"),
		"newPassword": "newpassword1", "confirmPassword": "different1",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "New password and confirm password do not match", body["message"])

	resp, _ = env.call(t, http.MethodPost, "/api/users/reset-password", fiber.Map{
		"email": "ravi@example.com", "otp": env.mail.otpFor(t, "ravi@example.com"),
		"newPassword": "newpassword1", "confirmPassword": "newpassword1",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.call(t, http.MethodPost, "/api/users/login", fiber.Map{"email": "ravi@example.com", "password": "newpassword1"}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// wrongOTP returns a six digit code other than otp.
func wrongOTP(otp string) string {
	if otp == "000000" {
		return "111111"
	}
	return "000000"
}

func TestOTPChecksAreRateLimited(t *testing.T) {
	env := setupApp(t, func(d *handlers.Deps) {
		d.OTPAttempts = 3
		d.OTPWindow = time.Minute
	})
	resp, _ := env.call(t, http.MethodPost, "/api/users/register", fiber.Map{
		"name": "Ravi", "email": "ravi@example.com", "number": "9123456780", "password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	otp := env.mail.otpFor(t, "ravi@example.com")
	wrong := wrongOTP(otp)

	// verify-otp and reset-password share one budget per client
	resp, body := env.call(t, http.MethodPost, "/api/users/verify-otp", fiber.Map{"email": "ravi@example.com", "otp": wrong}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid OTP", body["message"])
	resp, _ = env.call(t, http.MethodPost, "/api/users/verify-otp", fiber.Map{"email": "ravi@example.com", "otp": wrong}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = env.call(t, http.MethodPost, "/api/users/reset-password", fiber.Map{
		"email": "ravi@example.com", "otp": wrong, "newPassword": "newpassword1", "confirmPassword": "newpassword1",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = env.call(t, http.MethodPost, "/api/users/verify-otp", fiber.Map{"email": "ravi@example.com", "otp": otp}, "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "Too many requests. Please try again later.", body["message"])
	resp, _ = env.call(t, http.MethodPost, "/api/users/reset-password", fiber.Map{
		"email": "ravi@example.com", "otp": otp, "newPassword": "newpassword1", "confirmPassword": "newpassword1",
	}, "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	resp, _ = env.call(t, http.MethodPost, "/api/users/login", fiber.Map{"email": "ravi@example.com", "password": "password123"}, "")
	assert.NotEqual(t, http.StatusTooManyRequests, resp.StatusCode, "other routes are not capped")
}

func TestWrongOTPsDiscardTheCode(t *testing.T) {
	env := setupApp(t)
	resp, _ := env.call(t, http.MethodPost, "/api/users/register", fiber.Map{
		"name": "Ravi", "email": "ravi@example.com", "number": "9123456780", "password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	otp := env.mail.otpFor(t, "ravi@example.com")
	wrong := wrongOTP(otp)

	var body map[string]interface{}
	for i := 0; i < services.MaxOTPAttempts; i++ {
		resp, body = env.call(t, http.MethodPost, "/api/users/verify-otp", fiber.Map{"email": "ravi@example.com", "otp": wrong}, "")
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}
	assert.Equal(t, services.ErrOTPAttemptsExhausted.Message, body["message"])

	resp, body = env.call(t, http.MethodPost, "/api/users/verify-otp", fiber.Map{"email": "ravi@example.com", "otp": otp}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No OTP pending", body["message"])

	resp, _ = env.call(t, http.MethodPost, "/api/users/resend-otp", fiber.Map{"email": "ravi@example.com"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = env.call(t, http.MethodPost, "/api/users/verify-otp", fiber.Map{
		"email": "ravi@example.com", "otp": env.mail.otpFor(t, "ravi@example.com"),
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCategoryWritesNeedAdmin(t *testing.T) {
	env := setupApp(t)
	userToken := env.signUp(t, "Asha", "asha@example.com", "9876543210")
	adminToken := env.signUpAdmin(t)

	resp, _ := env.call(t, http.MethodPost, "/api/categories", fiber.Map{"keywords": []string{"Indoor"}}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, body := env.call(t, http.MethodPost, "/api/categories", fiber.Map{"keywords": []string{"Indoor"}}, userToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Admin only", body["message"])

	resp, body = env.call(t, http.MethodPost, "/api/categories", fiber.Map{"keywords": []string{" Indoor ", "indoor", ""}}, adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	category := body["category"].(map[string]interface{})
	assert.Equal(t, []interface{}{"Indoor"}, category["keywords"])

	resp, _ = env.call(t, http.MethodDelete, "/api/categories/not-an-id", nil, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = env.call(t, http.MethodDelete, "/api/categories/"+models.NewID(), nil, adminToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = env.call(t, http.MethodDelete, "/api/categories/"+category["id"].(string), nil, adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestOrderLifecycleEndToEnd(t *testing.T) {
	env := setupApp(t)
	adminToken := env.signUpAdmin(t)
	userToken := env.signUp(t, "Asha", "asha@example.com", "9876543210")

	resp, _ := env.call(t, http.MethodPost, "/api/categories", fiber.Map{"keywords": []string{"Indoor"}}, adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := env.call(t, http.MethodPost, "/api/plants", fiber.Map{"name": "Fern", "price": 100, "categories": []string{"indoor"}}, adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	plant := body["plant"].(map[string]interface{})
	plantID := plant["id"].(string)
	assert.Equal(t, []interface{}{"Indoor"}, plant["categoryNames"])
	assert.Equal(t, true, plant["available"])

	resp, body = env.call(t, http.MethodPost, "/api/orders", fiber.Map{
		"items":   []fiber.Map{{"plant": plantID, "quantity": 2}},
		"address": fiber.Map{"street": "1 MG Road", "city": "Pune", "state": "MH", "pincode": "411001"},
	}, userToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order := body["order"].(map[string]interface{})
	orderID := order["id"].(string)
	assert.Equal(t, 200.0, order["totalAmount"])
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, "COD", order["paymentMethod"])
	assert.Equal(t, "India", order["address"].(map[string]interface{})["country"])

	resp, _ = env.call(t, http.MethodPut, "/api/plants/"+plantID, fiber.Map{"price": 150}, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body = env.call(t, http.MethodGet, "/api/orders/"+orderID, nil, userToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 200.0, body["order"].(map[string]interface{})["totalAmount"])

	resp, body = env.call(t, http.MethodPatch, "/api/orders/"+orderID+"/cancel", nil, userToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "cancelled", body["order"].(map[string]interface{})["status"])

	resp, body = env.call(t, http.MethodPatch, "/api/orders/"+orderID+"/cancel", nil, userToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Only pending orders can be cancelled", body["message"])

	assert.Equal(t, []string{services.EventOrderCreated, services.EventOrderCancelled}, env.publisher.published())
}

func TestOrderVisibilityAndAdminStatus(t *testing.T) {
	env := setupApp(t)
	adminToken := env.signUpAdmin(t)
	ownerToken := env.signUp(t, "Asha", "asha@example.com", "9876543210")
	otherToken := env.signUp(t, "Ravi", "ravi@example.com", "9123456780")

	cat := &models.Category{Keywords: []string{"Outdoor"}}
	require.NoError(t, env.store.Categories.Create(context.Background(), cat))
	plant := &models.Plant{Name: "Palm", Price: 49.5, Categories: []string{cat.ID}, Available: true}
	require.NoError(t, env.store.Plants.Create(context.Background(), plant))

	resp, body := env.call(t, http.MethodPost, "/api/orders", fiber.Map{
		"items":         []fiber.Map{{"plantId": plant.ID, "quantity": "3"}},
		"address":       fiber.Map{"street": "2 Park St", "city": "Kolkata", "state": "WB", "pincode": "700016"},
		"paymentMethod": "UPI",
	}, ownerToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	orderID := body["order"].(map[string]interface{})["id"].(string)
	assert.Equal(t, 148.5, body["order"].(map[string]interface{})["totalAmount"])

	resp, _ = env.call(t, http.MethodGet, "/api/orders/"+orderID, nil, otherToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = env.call(t, http.MethodGet, "/api/orders/orders/"+orderID+"/payment-status", nil, otherToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, body = env.call(t, http.MethodGet, "/api/orders/orders/"+orderID+"/payment-status", nil, ownerToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pending", body["paymentStatus"])

	resp, _ = env.call(t, http.MethodPatch, "/api/orders/"+orderID+"/status", fiber.Map{"status": "shipped"}, ownerToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = env.call(t, http.MethodPatch, "/api/orders/admin/orders/"+orderID+"/status", fiber.Map{"OrderStatus": "lost"}, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["message"], "Invalid status. Allowed:")

	resp, body = env.call(t, http.MethodPatch, "/api/orders/admin/orders/"+orderID+"/status", fiber.Map{"OrderStatus": "delivered"}, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	delivered := body["order"].(map[string]interface{})
	assert.Equal(t, "delivered", delivered["status"])
	assert.NotNil(t, delivered["deliveredAt"])

	resp, body = env.call(t, http.MethodPatch, "/api/orders/admin/orders/"+orderID, fiber.Map{"paymentStatus": "paid"}, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "paid", body["order"].(map[string]interface{})["paymentStatus"])

	resp, _ = env.call(t, http.MethodPatch, "/api/orders/"+orderID+"/cancel", nil, ownerToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = env.call(t, http.MethodGet, "/api/orders/me", nil, ownerToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, body["total"])
	resp, body = env.call(t, http.MethodGet, "/api/orders/me", nil, otherToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0.0, body["total"])
	assert.Empty(t, body["orders"])

	resp, body = env.call(t, http.MethodGet, "/api/orders/admin/stats/overview", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	overview := body["overview"].(map[string]interface{})
	assert.Equal(t, 1.0, overview["totalOrders"])
	assert.Equal(t, 148.5, overview["totalRevenue"])

	resp, _ = env.call(t, http.MethodDelete, "/api/orders/admin/orders/"+orderID, nil, adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = env.call(t, http.MethodGet, "/api/orders/"+orderID, nil, adminToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOrderRejectsUnknownPlants(t *testing.T) {
	env := setupApp(t)
	token := env.signUp(t, "Asha", "asha@example.com", "9876543210")

	resp, body := env.call(t, http.MethodPost, "/api/orders", fiber.Map{
		"items":   []fiber.Map{{"plant": models.NewID(), "quantity": 1}},
		"address": fiber.Map{"street": "1 MG Road", "city": "Pune", "state": "MH", "pincode": "411001"},
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "One or more plants not found", body["message"])
}

func TestPlantListPaginationAndSearch(t *testing.T) {
	env := setupApp(t)
	ctx := context.Background()
	indoor := &models.Category{Keywords: []string{"Indoor", "Low light"}}
	require.NoError(t, env.store.Categories.Create(ctx, indoor))
	outdoor := &models.Category{Keywords: []string{"Outdoor"}}
	require.NoError(t, env.store.Categories.Create(ctx, outdoor))

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 25; i++ {
		p := &models.Plant{
			Name:       fmt.Sprintf("Fern %02d", i),
			Price:      100,
			Categories: []string{indoor.ID},
			Available:  true,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, env.store.Plants.Create(ctx, p))
	}
	require.NoError(t, env.store.Plants.Create(ctx, &models.Plant{Name: "Rose", Price: 80, Categories: []string{outdoor.ID}}))

	resp, body := env.call(t, http.MethodGet, "/api/plants?category=indoor&page=2&limit=10", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 25.0, body["total"])
	assert.Equal(t, 2.0, body["page"])
	// newest first: page 2 holds the 11th to 20th newest
	var names []string
	for _, p := range body["plants"].([]interface{}) {
		names = append(names, p.(map[string]interface{})["name"].(string))
	}
	assert.Equal(t, []string{
		"Fern 14", "Fern 13", "Fern 12", "Fern 11", "Fern 10",
		"Fern 09", "Fern 08", "Fern 07", "Fern 06", "Fern 05",
	}, names)

	resp, body = env.call(t, http.MethodGet, "/api/plants?category=light&limit=500", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 60.0, body["limit"])
	assert.Equal(t, 25.0, body["total"])

	resp, body = env.call(t, http.MethodGet, "/api/plants?category=cactus", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["plants"])
	assert.Equal(t, 0.0, body["total"])

	resp, body = env.call(t, http.MethodGet, "/api/plants?search=ROSE", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body["plants"], 1)
	rose := body["plants"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, []interface{}{"Outdoor"}, rose["categoryNames"])

	resp, body = env.call(t, http.MethodGet, "/api/plants?available=false", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, body["total"])

	resp, body = env.call(t, http.MethodGet, "/api/plants/category/"+outdoor.ID, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["plants"], 1)

	resp, _ = env.call(t, http.MethodGet, "/api/plants/not-an-id", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = env.call(t, http.MethodGet, "/api/plants/"+models.NewID(), nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPlantCreateRequiresKnownCategory(t *testing.T) {
	env := setupApp(t)
	adminToken := env.signUpAdmin(t)

	resp, body := env.call(t, http.MethodPost, "/api/plants", fiber.Map{"name": "Fern", "price": 100, "categories": "nonexistent-keyword"}, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, services.ErrNoValidCategories.Message, body["message"])

	resp, body = env.call(t, http.MethodPost, "/api/plants", fiber.Map{"name": "Fern", "price": 0, "categories": "Indoor"}, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Price must be greater than 0", body["message"])
}

func TestPlantCreateRejectsNonFinitePrice(t *testing.T) {
	env := setupApp(t)
	adminToken := env.signUpAdmin(t)
	ctx := context.Background()
	require.NoError(t, env.store.Categories.Create(ctx, &models.Category{Keywords: []string{"Indoor"}}))

	for _, price := range []string{"Infinity", "-Inf", "NaN"} {
		form := url.Values{"name": {"Fern"}, "price": {price}, "categories": {"Indoor"}}
		req := httptest.NewRequest(http.MethodPost, "/api/plants", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
		req.AddCookie(&http.Cookie{Name: "token", Value: adminToken})
		resp, err := env.app.Test(req, -1)
		require.NoError(t, err)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, price)
		assert.Equal(t, "Price must be a number", body["message"], price)
	}

	resp, body := env.call(t, http.MethodPost, "/api/plants", fiber.Map{"name": "Fern", "price": "Infinity", "categories": "Indoor"}, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Price must be a number", body["message"])

	total, err := env.store.Plants.Count(ctx, repositories.PlantFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)

	resp, body = env.call(t, http.MethodGet, "/api/plants", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0.0, body["total"])
}

func TestPlantAvailabilityAndDelete(t *testing.T) {
	env := setupApp(t)
	adminToken := env.signUpAdmin(t)
	ctx := context.Background()
	cat := &models.Category{Keywords: []string{"Indoor"}}
	require.NoError(t, env.store.Categories.Create(ctx, cat))
	plant := &models.Plant{Name: "Fern", Price: 100, Categories: []string{cat.ID}, Available: true}
	require.NoError(t, env.store.Plants.Create(ctx, plant))

	resp, _ := env.call(t, http.MethodPatch, "/api/plants/"+plant.ID+"/availability", fiber.Map{}, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := env.call(t, http.MethodPatch, "/api/plants/"+plant.ID+"/availability", fiber.Map{"available": false}, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["plant"].(map[string]interface{})["available"])

	resp, _ = env.call(t, http.MethodDelete, "/api/plants/"+plant.ID, nil, adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = env.call(t, http.MethodDelete, "/api/plants/"+plant.ID, nil, adminToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminOrderSearch(t *testing.T) {
	env := setupApp(t)
	adminToken := env.signUpAdmin(t)
	ashaToken := env.signUp(t, "Asha Verma", "asha@example.com", "9876543210")
	raviToken := env.signUp(t, "Ravi Kumar", "ravi@example.com", "9123456780")

	cat := &models.Category{Keywords: []string{"Indoor"}}
	require.NoError(t, env.store.Categories.Create(context.Background(), cat))
	plant := &models.Plant{Name: "Fern", Price: 100, Categories: []string{cat.ID}, Available: true}
	require.NoError(t, env.store.Plants.Create(context.Background(), plant))

	place := func(token string) string {
		resp, body := env.call(t, http.MethodPost, "/api/orders", fiber.Map{
			"items":   []fiber.Map{{"plant": plant.ID, "quantity": 1}},
			"address": fiber.Map{"street": "1 MG Road", "city": "Pune", "state": "MH", "pincode": "411001"},
		}, token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		return body["order"].(map[string]interface{})["id"].(string)
	}
	ashaOrder := place(ashaToken)
	place(raviToken)
	place(raviToken)

	resp, body := env.call(t, http.MethodGet, "/api/orders/admin/orders", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3.0, body["total"])

	resp, body = env.call(t, http.MethodGet, "/api/orders/admin/orders?q="+ashaOrder, nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1.0, body["total"])
	found := body["orders"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, ashaOrder, found["id"])
	assert.Equal(t, "Asha Verma", found["user"].(map[string]interface{})["name"])

	resp, body = env.call(t, http.MethodGet, "/api/orders/admin/orders?q=kumar", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2.0, body["total"])

	resp, body = env.call(t, http.MethodGet, "/api/orders/admin/orders?q=91234", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2.0, body["total"])

	resp, body = env.call(t, http.MethodGet, "/api/orders/admin/orders?q=nobody", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0.0, body["total"])

	resp, body = env.call(t, http.MethodGet, "/api/orders/admin/orders?status=bogus&limit=2", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3.0, body["total"])
	assert.Len(t, body["orders"], 2)

	resp, body = env.call(t, http.MethodGet, "/api/orders?userId=not-an-id", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3.0, body["total"])
}

func TestContactInbox(t *testing.T) {
	env := setupApp(t)
	adminToken := env.signUpAdmin(t)

	resp, body := env.call(t, http.MethodPost, "/api/contacts", fiber.Map{"name": "Meera", "email": "bad-email", "message": "Hi"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid email", body["message"])

	resp, body = env.call(t, http.MethodPost, "/api/contacts", fiber.Map{
		"name": " Meera ", "email": " Meera@Example.COM ", "message": "Do you ship succulents?",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	contact := body["contact"].(map[string]interface{})
	assert.Equal(t, "meera@example.com", contact["email"])
	assert.Equal(t, "new", contact["status"])
	id := contact["id"].(string)

	resp, _ = env.call(t, http.MethodGet, "/api/contacts/admin", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = env.call(t, http.MethodGet, "/api/contacts/admin?q=succulent", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, body["total"])

	resp, body = env.call(t, http.MethodPatch, "/api/contacts/admin/"+id+"/status", fiber.Map{"status": "archived"}, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid status value", body["message"])

	resp, body = env.call(t, http.MethodPatch, "/api/contacts/admin/"+id+"/status", fiber.Map{"status": "resolved"}, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "resolved", body["contact"].(map[string]interface{})["status"])

	resp, body = env.call(t, http.MethodGet, "/api/contacts/admin?status=new", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0.0, body["total"])

	resp, _ = env.call(t, http.MethodDelete, "/api/contacts/admin/"+id, nil, adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = env.call(t, http.MethodGet, "/api/contacts/admin/"+id, nil, adminToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
