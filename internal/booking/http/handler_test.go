package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/booking"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/ledger"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validation.RegisterGin(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type mockService struct {
	mock.Mock
}

func (m *mockService) Create(ctx context.Context, actor auth.Principal, req booking.CreateRequest) (*booking.Booking, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *mockService) Get(ctx context.Context, actor auth.Principal, id string) (*booking.Booking, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *mockService) Lookup(ctx context.Context, id, email string) (*booking.Booking, error) {
	args := m.Called(ctx, id, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *mockService) List(ctx context.Context, actor auth.Principal, filter booking.Filter) ([]*booking.Booking, int, error) {
	args := m.Called(ctx, actor, filter)
	return args.Get(0).([]*booking.Booking), args.Int(1), args.Error(2)
}

func (m *mockService) UpdateStatus(ctx context.Context, actor auth.Principal, id string, to booking.Status) (*booking.Booking, error) {
	args := m.Called(ctx, actor, id, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *mockService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockService) UnavailableAccommodations(ctx context.Context, ids []string, checkIn, checkOut time.Time) ([]string, error) {
	args := m.Called(ctx, ids, checkIn, checkOut)
	return args.Get(0).([]string), args.Error(1)
}

const (
	bookingID = "6f1c1f9e-8a4f-4c43-9a53-8b1f2ad0c001"
	villaID   = "6f1c1f9e-8a4f-4c43-9a53-8b1f2ad0c002"
	rateID    = "6f1c1f9e-8a4f-4c43-9a53-8b1f2ad0c003"
)

func setup(svc booking.Service) (*gin.Engine, *auth.JWTManager) {
	jwt := auth.NewJWTManager("secret", time.Hour)
	r := gin.New()
	allow := func(c *gin.Context) { c.Next() }
	RegisterRoutes(r.Group("/v1"), NewHandler(svc), auth.OptionalAuth(jwt), auth.AuthRequired(jwt), allow)
	return r, jwt
}

func do(r *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sampleBooking() *booking.Booking {
	return &booking.Booking{
		ID:                  bookingID,
		GuestName:           "Ana Reyes",
		GuestEmail:          "ana@example.com",
		Source:              booking.SourceOnline,
		Status:              booking.StatusPending,
		CheckIn:             time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:            time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		TotalAdults:         2,
		TotalAmount:         decimal.NewFromInt(5000),
		DownPaymentRequired: true,
		DownPaymentAmount:   decimal.NewFromInt(2500),
		Payments: []ledger.PaymentRecord{
			{ID: "p1", Amount: decimal.NewFromInt(2000), IsDownPayment: true},
		},
	}
}

func TestCreateBooking(t *testing.T) {
	svc := new(mockService)
	svc.On("Create", mock.Anything, auth.Principal{}, mock.MatchedBy(func(req booking.CreateRequest) bool {
		return req.GuestEmail == "ana@example.com" &&
			req.CheckIn.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) &&
			len(req.Items) == 1 && req.Items[0].Guests == 2
	})).Return(sampleBooking(), nil)
	r, _ := setup(svc)

	w := do(r, http.MethodPost, "/v1/bookings", gin.H{
		"guest_name":   "Ana Reyes",
		"guest_email":  "ana@example.com",
		"check_in":     "2026-03-10",
		"check_out":    "2026-03-12",
		"total_adults": 2,
		"accommodations": []gin.H{
			{"accommodation_id": villaID, "rate_id": rateID, "guests": 2},
		},
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2026-03-10", resp.CheckIn)
	assert.Equal(t, 2, resp.Nights)
	assert.True(t, decimal.NewFromInt(2000).Equal(resp.PaidAmount))
	assert.True(t, decimal.NewFromInt(3000).Equal(resp.Balance))
	assert.True(t, decimal.NewFromInt(500).Equal(resp.DownPaymentBalance))
}

func TestCreateBookingBindErrors(t *testing.T) {
	r, _ := setup(new(mockService))

	w := do(r, http.MethodPost, "/v1/bookings", gin.H{
		"guest_name":   "Ana Reyes",
		"check_in":     "10/03/2026",
		"check_out":    "2026-03-12",
		"total_adults": 2,
		"accommodations": []gin.H{
			{"accommodation_id": villaID, "rate_id": "nope", "guests": 0},
		},
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "must match the format 2006-01-02", resp.Fields["check_in"])
	assert.Equal(t, "must be a valid UUID", resp.Fields["accommodations[0].rate_id"])
	assert.Equal(t, "is required", resp.Fields["accommodations[0].guests"])
}

func TestCreateBookingRejections(t *testing.T) {
	svc := new(mockService)
	svc.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil, ledger.Rejections{
		{Field: "accommodations", Reason: "accommodation guests (2) must equal total guests (2 adults + 1 children = 3)"},
	})
	r, _ := setup(svc)

	w := do(r, http.MethodPost, "/v1/bookings", gin.H{
		"guest_name":     "Ana Reyes",
		"guest_email":    "ana@example.com",
		"check_in":       "2026-03-10",
		"check_out":      "2026-03-12",
		"total_adults":   2,
		"total_children": 1,
		"accommodations": []gin.H{
			{"accommodation_id": villaID, "rate_id": rateID, "guests": 2},
		},
	}, "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "must equal total guests")
}

func TestListRequiresAccount(t *testing.T) {
	r, _ := setup(new(mockService))
	w := do(r, http.MethodGet, "/v1/bookings", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLookup(t *testing.T) {
	svc := new(mockService)
	svc.On("Lookup", mock.Anything, bookingID, "ana@example.com").Return(sampleBooking(), nil)
	r, _ := setup(svc)

	w := do(r, http.MethodGet, "/v1/bookings/lookup?id="+bookingID+"&email=ana@example.com", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateStatusConflict(t *testing.T) {
	svc := new(mockService)
	svc.On("UpdateStatus", mock.Anything, auth.Principal{UserID: "s1", Role: auth.RoleStaff}, bookingID, booking.StatusPending).
		Return(nil, booking.ErrInvalidTransition)
	r, jwt := setup(svc)

	token, err := jwt.GenerateAccessToken("s1", "desk@resort.ph", auth.RoleStaff)
	require.NoError(t, err)

	w := do(r, http.MethodPatch, "/v1/bookings/"+bookingID+"/status", gin.H{"status": "pending"}, token)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAvailability(t *testing.T) {
	other := "6f1c1f9e-8a4f-4c43-9a53-8b1f2ad0c009"
	svc := new(mockService)
	svc.On("UnavailableAccommodations", mock.Anything, []string{villaID, other}, mock.Anything, mock.Anything).
		Return([]string{other}, nil)
	r, _ := setup(svc)

	w := do(r, http.MethodGet, "/v1/availability?check_in=2026-03-10&check_out=2026-03-12&accommodation_id="+villaID+"&accommodation_id="+other, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp AvailabilityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{villaID}, resp.Available)
	assert.Equal(t, []string{other}, resp.Unavailable)
}
