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
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/ledger"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/payment"
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

func (m *mockService) Record(ctx context.Context, actor auth.Principal, req payment.RecordRequest) (*payment.Receipt, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Receipt), args.Error(1)
}

func (m *mockService) Get(ctx context.Context, actor auth.Principal, id string) (*payment.Payment, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *mockService) List(ctx context.Context, actor auth.Principal, filter payment.Filter) ([]*payment.Payment, int, error) {
	args := m.Called(ctx, actor, filter)
	return args.Get(0).([]*payment.Payment), args.Int(1), args.Error(2)
}

func (m *mockService) AttachReceipt(ctx context.Context, actor auth.Principal, id, fileID string) error {
	return m.Called(ctx, actor, id, fileID).Error(0)
}

const (
	bookingID = "5d3e1b8a-1a2b-4c3d-8e9f-0a1b2c3d4e01"
	paymentID = "5d3e1b8a-1a2b-4c3d-8e9f-0a1b2c3d4e02"
	staffID   = "5d3e1b8a-1a2b-4c3d-8e9f-0a1b2c3d4e03"
	fileID    = "5d3e1b8a-1a2b-4c3d-8e9f-0a1b2c3d4e04"
)

var staff = auth.Principal{UserID: staffID, Role: auth.RoleStaff}

func setup(svc payment.Service) (*gin.Engine, string) {
	jwt := auth.NewJWTManager("secret", time.Hour)
	r := gin.New()
	allow := func(c *gin.Context) { c.Next() }
	RegisterRoutes(r.Group("/v1"), NewHandler(svc, nil), auth.AuthRequired(jwt), allow)

	token, err := jwt.GenerateAccessToken(staffID, "staff@example.com", auth.RoleStaff)
	if err != nil {
		panic(err)
	}
	return r, token
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

func TestRecordPayment(t *testing.T) {
	receiptID := fileID
	p := &payment.Payment{
		ID:            paymentID,
		BookingID:     bookingID,
		Amount:        decimal.NewFromInt(3000),
		Method:        payment.MethodGCash,
		ReceiptFileID: &receiptID,
		PaidAt:        time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}

	svc := new(mockService)
	svc.On("Record", mock.Anything, staff, mock.MatchedBy(func(req payment.RecordRequest) bool {
		return req.BookingID == bookingID && req.Amount.Equal(decimal.NewFromInt(3000)) && req.Method == "gcash"
	})).Return(&payment.Receipt{Payment: p, Balance: decimal.Zero}, nil)
	r, token := setup(svc)

	w := do(r, http.MethodPost, "/v1/payments", gin.H{
		"booking_id": bookingID,
		"amount":     "3000.00",
		"method":     "gcash",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp RecordPaymentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, paymentID, resp.ID)
	assert.True(t, decimal.Zero.Equal(resp.Balance))
	require.NotNil(t, resp.ReceiptURL)
	assert.Equal(t, "/v1/files/"+fileID, *resp.ReceiptURL)
}

func TestRecordPaymentBindErrors(t *testing.T) {
	r, token := setup(new(mockService))

	w := do(r, http.MethodPost, "/v1/payments", gin.H{
		"booking_id": bookingID,
		"amount":     "10.005",
		"method":     "barter",
	}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "must be a positive amount with at most two decimal places", resp.Fields["amount"])
	assert.Equal(t, "must be one of: cash gcash bank_transfer card", resp.Fields["method"])
}

func TestRecordPaymentRejected(t *testing.T) {
	svc := new(mockService)
	svc.On("Record", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &ledger.Rejection{Field: ledger.FieldAmount, Reason: "amount exceeds remaining balance of ₱3,000.00"})
	r, token := setup(svc)

	w := do(r, http.MethodPost, "/v1/payments", gin.H{
		"booking_id": bookingID,
		"amount":     "3500",
		"method":     "cash",
	}, token)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{
		"error": "the submitted values were rejected",
		"fields": {"amount": "amount exceeds remaining balance of ₱3,000.00"}
	}`, w.Body.String())
}

func TestRecordPaymentClosedBooking(t *testing.T) {
	svc := new(mockService)
	svc.On("Record", mock.Anything, mock.Anything, mock.Anything).Return(nil, payment.ErrBookingClosed)
	r, token := setup(svc)

	w := do(r, http.MethodPost, "/v1/payments", gin.H{
		"booking_id": bookingID,
		"amount":     "100",
		"method":     "cash",
	}, token)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListPayments(t *testing.T) {
	svc := new(mockService)
	svc.On("List", mock.Anything, staff, payment.Filter{
		BookingID: bookingID, Page: 2, PageSize: 10, SortOrder: "ASC",
	}).Return([]*payment.Payment{{ID: paymentID, BookingID: bookingID}}, 11, nil)
	r, token := setup(svc)

	w := do(r, http.MethodGet, "/v1/payments?booking_id="+bookingID+"&page=2&page_size=10&sort_order=asc", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	svc.AssertExpectations(t)
}

func TestUploadReceiptUnknownPayment(t *testing.T) {
	svc := new(mockService)
	svc.On("Get", mock.Anything, staff, paymentID).Return(nil, payment.ErrNotFound)
	r, token := setup(svc)

	w := do(r, http.MethodPost, "/v1/payments/"+paymentID+"/receipt", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertNotCalled(t, "AttachReceipt", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
