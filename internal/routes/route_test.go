package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joshua-takyi/patinhas/internal/config"
	"github.com/joshua-takyi/patinhas/internal/container"
	"github.com/joshua-takyi/patinhas/internal/helpers"
	"github.com/joshua-takyi/patinhas/internal/models"
	"github.com/joshua-takyi/patinhas/internal/services"
)

const testSecret = "test-jwt-secret"

type memoryRepo struct {
	mu       sync.Mutex
	rows     []models.Booking
	failNext bool
}

func (m *memoryRepo) CreateBooking(ctx context.Context, nb *models.NewBooking, token string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return nil, errors.New("connection refused")
	}
	now := time.Now()
	b := models.Booking{
		ID:              uuid.New(),
		UserID:          nb.UserID,
		ServiceID:       nb.ServiceID,
		ServiceName:     nb.ServiceName,
		ServicePrice:    nb.ServicePrice,
		ServiceDuration: nb.ServiceDuration,
		BookingDate:     nb.BookingDate,
		BookingTime:     nb.BookingTime + ":00",
		PetName:         nb.PetName,
		PetBreed:        nb.PetBreed,
		PetSize:         nb.PetSize,
		PetAge:          nb.PetAge,
		PetNotes:        nb.PetNotes,
		OwnerName:       nb.OwnerName,
		OwnerPhone:      nb.OwnerPhone,
		OwnerEmail:      nb.OwnerEmail,
		Status:          nb.Status,
		CreatedAt:       &now,
	}
	m.rows = append(m.rows, b)
	return &b, nil
}

func (m *memoryRepo) ListBookingsByUser(ctx context.Context, userID uuid.UUID, token string) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Booking{}
	for _, b := range m.rows {
		if b.UserID != nil && *b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memoryRepo) CancelBooking(ctx context.Context, id, userID uuid.UUID, token string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		b := &m.rows[i]
		if b.ID == id && b.UserID != nil && *b.UserID == userID && b.Status == models.StatusPending {
			b.Status = models.StatusCancelled
			return 1, nil
		}
	}
	return 0, nil
}

type fakeNotifier struct {
	fail bool
	sent []uuid.UUID
}

func (f *fakeNotifier) SendConfirmation(ctx context.Context, b *models.Booking) (string, error) {
	if f.fail {
		return "", errors.New("provider unavailable")
	}
	f.sent = append(f.sent, b.ID)
	return "msg_1", nil
}

func (f *fakeNotifier) Provider() string { return "fake" }

func setupRouter(t *testing.T) (*gin.Engine, *memoryRepo) {
	return setupRouterWith(t, nil)
}

func setupRouterWith(t *testing.T, notifier services.Notifier) (*gin.Engine, *memoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Environment:      "test",
		AllowedOrigins:   []string{"http://localhost:5173"},
		BusinessTimezone: "UTC",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := &memoryRepo{}

	c := container.NewWithServices(cfg, logger, helpers.NewHMACVerifier(testSecret), nil,
		services.NewBookingService(repo, notifier, nil, logger, time.UTC),
		services.NewUserService(nil),
		services.NewCatalogService(nil, "", logger),
	)
	return SetupRoutes(c), repo
}

func signToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	claims := helpers.CustomClaims{
		Role:  "authenticated",
		Email: "ana@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func nextMonday(from time.Time) string {
	d := from.AddDate(0, 0, 1)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}

func validRequest() map[string]interface{} {
	return map[string]interface{}{
		"serviceId":       "basic-bath",
		"serviceName":     "Banho Básico",
		"servicePrice":    45,
		"serviceDuration": "1h",
		"bookingDate":     nextMonday(time.Now().UTC()),
		"bookingTime":     "10:00",
		"petName":         "Max",
		"ownerName":       "Ana",
		"ownerPhone":      "11999999999",
	}
}

func doRequest(r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestConfirmationFunction_Methods(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(r, http.MethodOptions, ConfirmationPath, "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("OPTIONS status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}

	w = doRequest(r, http.MethodGet, ConfirmationPath, "", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET status = %d, want 405", w.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] != "Method not allowed" {
		t.Errorf("error = %q", body["error"])
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("CORS headers missing on 405")
	}
}

func TestConfirmationFunction_Errors(t *testing.T) {
	r, repo := setupRouter(t)

	missing := validRequest()
	delete(missing, "petName")

	tests := []struct {
		name       string
		body       interface{}
		failStore  bool
		wantStatus int
	}{
		{"malformed body", "{not json", false, http.StatusInternalServerError},
		{"missing pet name", missing, false, http.StatusBadRequest},
		{"store failure", validRequest(), true, http.StatusInternalServerError},
		{"anonymous success", validRequest(), false, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo.failNext = tt.failStore
			w := doRequest(r, http.MethodPost, ConfirmationPath, "", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			var res models.ConfirmationResponse
			if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if res.Success != (tt.wantStatus == http.StatusOK) {
				t.Errorf("success = %v", res.Success)
			}
			if res.Success && (res.EmailSent || res.Booking.UserID != nil) {
				t.Errorf("unexpected anonymous booking %+v emailSent=%v", res.Booking, res.EmailSent)
			}
		})
	}
}

func TestConfirmationFunction_Email(t *testing.T) {
	tests := []struct {
		name        string
		fail        bool
		wantSent    bool
		wantMessage string
	}{
		{"sent", false, true, "Agendamento salvo e email de confirmação enviado!"},
		{"provider failure", true, false, "Agendamento salvo com sucesso!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &fakeNotifier{fail: tt.fail}
			r, repo := setupRouterWith(t, notifier)

			body := validRequest()
			body["ownerEmail"] = "ana@example.com"
			w := doRequest(r, http.MethodPost, ConfirmationPath, "", body)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", w.Code, w.Body.String())
			}
			var res models.ConfirmationResponse
			if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if res.EmailSent != tt.wantSent || res.Message != tt.wantMessage {
				t.Errorf("emailSent=%v message=%q", res.EmailSent, res.Message)
			}
			if len(repo.rows) != 1 {
				t.Errorf("stored %d rows, want 1", len(repo.rows))
			}
		})
	}
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	r, _ := setupRouter(t)
	for _, path := range []string{"/api/v1/bookings", "/api/v1/dashboard/stats", "/api/v1/me"} {
		if w := doRequest(r, http.MethodGet, path, "", nil); w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s status = %d, want 401", path, w.Code)
		}
	}
	if w := doRequest(r, http.MethodGet, "/api/v1/bookings", "garbage", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("bad token status = %d, want 401", w.Code)
	}
}

func getStats(t *testing.T, r http.Handler, token string) models.DashboardStats {
	t.Helper()
	w := doRequest(r, http.MethodGet, "/api/v1/dashboard/stats", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats status = %d", w.Code)
	}
	var res struct {
		Data models.DashboardStats `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	return res.Data
}

func getLists(t *testing.T, r http.Handler, token string) models.BookingLists {
	t.Helper()
	w := doRequest(r, http.MethodGet, "/api/v1/bookings?group=true", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var res struct {
		Data models.BookingLists `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode lists: %v", err)
	}
	return res.Data
}

func TestBookingLifecycle(t *testing.T) {
	r, _ := setupRouter(t)
	userID := uuid.New()
	token := signToken(t, userID)

	before := getStats(t, r, token)

	w := doRequest(r, http.MethodPost, ConfirmationPath, token, validRequest())
	if w.Code != http.StatusOK {
		t.Fatalf("submit status = %d: %s", w.Code, w.Body.String())
	}
	var res models.ConfirmationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Booking == nil || res.Booking.Status != models.StatusPending {
		t.Fatalf("booking = %+v, want pending", res.Booking)
	}
	if res.Booking.UserID == nil || *res.Booking.UserID != userID {
		t.Errorf("booking not linked to user")
	}

	after := getStats(t, r, token)
	if after.TotalBookings != before.TotalBookings+1 || after.PendingBookings != before.PendingBookings+1 {
		t.Errorf("stats %+v -> %+v, want +1 total and pending", before, after)
	}

	lists := getLists(t, r, token)
	if len(lists.Upcoming) != 1 || lists.Upcoming[0].ID != res.Booking.ID {
		t.Fatalf("upcoming = %+v", lists.Upcoming)
	}

	cancelPath := "/api/v1/bookings/" + res.Booking.ID.String() + "/cancel"
	if w := doRequest(r, http.MethodPatch, cancelPath, token, nil); w.Code != http.StatusOK {
		t.Fatalf("cancel status = %d: %s", w.Code, w.Body.String())
	}

	lists = getLists(t, r, token)
	if len(lists.Upcoming) != 0 || len(lists.Past) != 1 || lists.Past[0].Status != models.StatusCancelled {
		t.Errorf("after cancel upcoming=%d past=%+v", len(lists.Upcoming), lists.Past)
	}

	if w := doRequest(r, http.MethodPatch, cancelPath, token, nil); w.Code != http.StatusNotFound {
		t.Errorf("second cancel status = %d, want 404", w.Code)
	}

	other := signToken(t, uuid.New())
	if lists := getLists(t, r, other); len(lists.Upcoming)+len(lists.Past) != 0 {
		t.Error("other user sees foreign bookings")
	}
}

func TestCatalogRoutes(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(r, http.MethodGet, "/api/v1/services", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("services status = %d", w.Code)
	}
	var res struct {
		Data []models.Service `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Data) != len(models.Catalog) {
		t.Errorf("got %d services, want %d", len(res.Data), len(models.Catalog))
	}

	if w := doRequest(r, http.MethodGet, "/api/v1/health", "", nil); w.Code != http.StatusOK {
		t.Errorf("health status = %d", w.Code)
	}
}
