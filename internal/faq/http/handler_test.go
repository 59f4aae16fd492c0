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
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/faq"
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

func (m *mockService) Create(ctx context.Context, req faq.CreateRequest) (*faq.FAQ, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*faq.FAQ), args.Error(1)
}

func (m *mockService) GetByID(ctx context.Context, id string) (*faq.FAQ, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*faq.FAQ), args.Error(1)
}

func (m *mockService) List(ctx context.Context, filter faq.Filter) ([]*faq.FAQ, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*faq.FAQ), args.Int(1), args.Error(2)
}

func (m *mockService) Update(ctx context.Context, id string, req faq.UpdateRequest) (*faq.FAQ, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*faq.FAQ), args.Error(1)
}

func (m *mockService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

const faqID = "6f1c1f9e-8a4f-4c43-9a53-8b1f2ad0c0f1"

func setup(svc faq.Service) (*gin.Engine, *auth.JWTManager) {
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

func TestListHidesInactiveFromGuests(t *testing.T) {
	svc := new(mockService)
	svc.On("List", mock.Anything, mock.MatchedBy(func(f faq.Filter) bool {
		return f.IsActive != nil && *f.IsActive
	})).Return([]*faq.FAQ{{ID: faqID, Question: "Check-in time?", Answer: "2 PM", IsActive: true}}, 1, nil)
	r, _ := setup(svc)

	w := do(r, http.MethodGet, "/v1/faqs?is_active=false", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Check-in time?")
	svc.AssertExpectations(t)
}

func TestGetInactiveAsGuest(t *testing.T) {
	svc := new(mockService)
	svc.On("GetByID", mock.Anything, faqID).Return(&faq.FAQ{ID: faqID, IsActive: false}, nil)
	r, jwt := setup(svc)

	w := do(r, http.MethodGet, "/v1/faqs/"+faqID, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	token, err := jwt.GenerateAccessToken("a1", "owner@resort.ph", auth.RoleAdmin)
	require.NoError(t, err)
	w = do(r, http.MethodGet, "/v1/faqs/"+faqID, nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreate(t *testing.T) {
	svc := new(mockService)
	svc.On("Create", mock.Anything, faq.CreateRequest{Question: "Pets?", Answer: "Small pets only.", SortOrder: 1}).
		Return(&faq.FAQ{ID: faqID, Question: "Pets?", Answer: "Small pets only.", SortOrder: 1, IsActive: true}, nil)
	r, jwt := setup(svc)

	token, err := jwt.GenerateAccessToken("a1", "owner@resort.ph", auth.RoleAdmin)
	require.NoError(t, err)

	w := do(r, http.MethodPost, "/v1/faqs", gin.H{"question": "Pets?", "answer": "Small pets only.", "sort_order": 1}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp FAQResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, faqID, resp.ID)
	assert.True(t, resp.IsActive)
}

func TestCreateRequiresLogin(t *testing.T) {
	r, _ := setup(new(mockService))
	w := do(r, http.MethodPost, "/v1/faqs", gin.H{"question": "q", "answer": "a"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDelete(t *testing.T) {
	svc := new(mockService)
	svc.On("Delete", mock.Anything, faqID).Return(faq.ErrNotFound)
	r, jwt := setup(svc)

	token, err := jwt.GenerateAccessToken("a1", "owner@resort.ph", auth.RoleAdmin)
	require.NoError(t, err)

	w := do(r, http.MethodDelete, "/v1/faqs/"+faqID, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
