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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/auth"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/feedback"
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

func (m *mockService) Submit(ctx context.Context, actor auth.Principal, req feedback.SubmitRequest) (*feedback.Feedback, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feedback.Feedback), args.Error(1)
}

func (m *mockService) GetByID(ctx context.Context, id string) (*feedback.Feedback, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feedback.Feedback), args.Error(1)
}

func (m *mockService) List(ctx context.Context, filter feedback.Filter) ([]*feedback.Feedback, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*feedback.Feedback), args.Int(1), args.Error(2)
}

func (m *mockService) SetPublished(ctx context.Context, id string, published bool) (*feedback.Feedback, error) {
	args := m.Called(ctx, id, published)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feedback.Feedback), args.Error(1)
}

func (m *mockService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

const (
	feedbackID = "6f1c1f9e-8a4f-4c43-9a53-8b1f2ad0c0e1"
	bookingID  = "6f1c1f9e-8a4f-4c43-9a53-8b1f2ad0c001"
)

func setup(svc feedback.Service) (*gin.Engine, *auth.JWTManager) {
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

func TestSubmitAsGuest(t *testing.T) {
	id := bookingID
	svc := new(mockService)
	svc.On("Submit", mock.Anything, auth.Principal{}, feedback.SubmitRequest{
		BookingID: &id,
		Email:     "ana@example.com",
		Rating:    5,
		Comment:   "Great stay",
	}).Return(&feedback.Feedback{ID: feedbackID, BookingID: &id, Name: "Ana Reyes", Email: "ana@example.com", Rating: 5}, nil)
	r, _ := setup(svc)

	w := do(r, http.MethodPost, "/v1/feedback", gin.H{
		"booking_id": bookingID,
		"email":      "ana@example.com",
		"rating":     5,
		"comment":    "Great stay",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp FeedbackResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Ana Reyes", resp.Name)
	assert.Empty(t, resp.Email)
	assert.Nil(t, resp.BookingID)
}

func TestSubmitBindErrors(t *testing.T) {
	r, _ := setup(new(mockService))

	w := do(r, http.MethodPost, "/v1/feedback", gin.H{"name": "Ana", "rating": 7}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "rating")
}

func TestListPublicOnlySeesPublished(t *testing.T) {
	svc := new(mockService)
	svc.On("List", mock.Anything, mock.MatchedBy(func(f feedback.Filter) bool {
		return f.IsPublished != nil && *f.IsPublished && f.BookingID == ""
	})).Return([]*feedback.Feedback{{ID: feedbackID, Name: "Ana", Email: "ana@example.com", Rating: 4, IsPublished: true}}, 1, nil)
	r, _ := setup(svc)

	w := do(r, http.MethodGet, "/v1/feedback?is_published=false&booking_id="+bookingID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "ana@example.com")
	svc.AssertExpectations(t)
}

func TestGetUnpublishedAsGuest(t *testing.T) {
	svc := new(mockService)
	svc.On("GetByID", mock.Anything, feedbackID).Return(&feedback.Feedback{ID: feedbackID}, nil)
	r, _ := setup(svc)

	w := do(r, http.MethodGet, "/v1/feedback/"+feedbackID, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublish(t *testing.T) {
	svc := new(mockService)
	svc.On("SetPublished", mock.Anything, feedbackID, true).
		Return(&feedback.Feedback{ID: feedbackID, Email: "ana@example.com", IsPublished: true}, nil)
	r, jwt := setup(svc)

	token, err := jwt.GenerateAccessToken("a1", "owner@resort.ph", auth.RoleAdmin)
	require.NoError(t, err)

	w := do(r, http.MethodPatch, "/v1/feedback/"+feedbackID+"/publish", gin.H{"is_published": true}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ana@example.com")

	w = do(r, http.MethodPatch, "/v1/feedback/"+feedbackID+"/publish", gin.H{}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
