package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/portal-api/internal/middleware"
	"github.com/jwalitptl/portal-api/internal/model"
	"github.com/jwalitptl/portal-api/internal/repository"
	"github.com/jwalitptl/portal-api/internal/service/booking"
)

type fakeBookingRepo struct {
	mu    sync.Mutex
	byKey map[string]*model.Booking
	byID  map[uuid.UUID]*model.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		byKey: make(map[string]*model.Booking),
		byID:  make(map[uuid.UUID]*model.Booking),
	}
}

func key(b *model.Booking) string {
	return fmt.Sprintf("%s|%s|%s", b.Email, b.TreatmentDate, b.TreatmentName)
}

func (r *fakeBookingRepo) Create(_ context.Context, b *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byKey[key(b)]; exists {
		return repository.ErrDuplicateBooking
	}
	b.ID = uuid.New()
	r.byKey[key(b)] = b
	r.byID[b.ID] = b
	return nil
}

func (r *fakeBookingRepo) Get(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return b, nil
}

func (r *fakeBookingRepo) ListByEmail(_ context.Context, email string) ([]*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Booking
	for _, b := range r.byID {
		if b.Email == email {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListByDate(_ context.Context, date string) ([]*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Booking
	for _, b := range r.byID {
		if b.TreatmentDate == date {
			out = append(out, b)
		}
	}
	return out, nil
}

func setupRouter(t *testing.T, repo *fakeBookingRepo, callerEmail string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, middleware.RegisterValidators())

	svc := booking.NewService(repo, nil, zerolog.Nop())
	h := NewHandler(svc)

	engine := gin.New()
	root := engine.Group("")
	h.RegisterRoutes(root)

	protected := engine.Group("")
	protected.Use(func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Set(middleware.ContextEmail, callerEmail)
	})
	h.RegisterProtectedRoutes(protected)

	return engine
}

func postBooking(t *testing.T, engine *gin.Engine, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	return w
}

func TestCreateBooking(t *testing.T) {
	engine := setupRouter(t, newFakeBookingRepo(), "a@x.com")

	w := postBooking(t, engine, map[string]any{
		"email":         "a@x.com",
		"treatmentName": "Dental",
		"treatmentDate": "2024-01-01",
		"time":          "9am",
		"price":         99,
	})

	require.Equal(t, http.StatusOK, w.Code)

	var result model.AdmissionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Acknowledged)
	require.NotNil(t, result.InsertedID)
	assert.Empty(t, result.Message)
}

func TestCreateBookingDuplicate(t *testing.T) {
	engine := setupRouter(t, newFakeBookingRepo(), "a@x.com")

	body := map[string]any{
		"email":         "a@x.com",
		"treatmentName": "Dental",
		"treatmentDate": "2024-01-01",
		"time":          "9am",
	}
	require.Equal(t, http.StatusOK, postBooking(t, engine, body).Code)

	// Same key, different slot still counts as a duplicate.
	body["time"] = "10am"
	w := postBooking(t, engine, body)
	require.Equal(t, http.StatusOK, w.Code)

	var result model.AdmissionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Acknowledged)
	assert.Nil(t, result.InsertedID)
	assert.Equal(t, "You have Booked in 2024-01-01", result.Message)
}

func TestCreateBookingBadDate(t *testing.T) {
	engine := setupRouter(t, newFakeBookingRepo(), "a@x.com")

	w := postBooking(t, engine, map[string]any{
		"email":         "a@x.com",
		"treatmentName": "Dental",
		"treatmentDate": "Jan 1st 2024",
		"time":          "9am",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListBookingsOwnership(t *testing.T) {
	repo := newFakeBookingRepo()
	engine := setupRouter(t, repo, "a@x.com")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookings?email=b@x.com", nil)
	req.Header.Set("Authorization", "Bearer token")
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/bookings?email=a@x.com", nil)
	req.Header.Set("Authorization", "Bearer token")
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/bookings?email=a@x.com", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// The checkout page loads its booking before the user has authenticated, so
// the lookup must not sit behind the token check.
func TestGetBookingNeedsNoToken(t *testing.T) {
	repo := newFakeBookingRepo()
	engine := setupRouter(t, repo, "a@x.com")

	b := &model.Booking{
		Email:         "a@x.com",
		TreatmentName: "Dental",
		TreatmentDate: "2024-01-01",
		Time:          "9am",
	}
	require.NoError(t, repo.Create(context.Background(), b))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/checkout/"+b.ID.String(), nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetBookingForCheckout(t *testing.T) {
	repo := newFakeBookingRepo()
	engine := setupRouter(t, repo, "a@x.com")

	b := &model.Booking{
		Email:         "a@x.com",
		TreatmentName: "Dental",
		TreatmentDate: "2024-01-01",
		Time:          "9am",
		Price:         99,
	}
	require.NoError(t, repo.Create(context.Background(), b))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/checkout/"+b.ID.String(), nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got model.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, "Dental", got.TreatmentName)
}

func TestGetBookingUnknown(t *testing.T) {
	engine := setupRouter(t, newFakeBookingRepo(), "a@x.com")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/checkout/"+uuid.NewString(), nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
