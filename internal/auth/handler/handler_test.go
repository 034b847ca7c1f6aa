package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"antygravity/internal/auth/handler/mocks"
	"antygravity/internal/auth/models"
	"antygravity/internal/auth/service"
	"antygravity/internal/jwttoken"
	id "antygravity/pkg/domain"
	dErrors "antygravity/pkg/domain-errors"
	"antygravity/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service
type AuthHandlerSuite struct {
	suite.Suite
	userID id.UserID
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerSuite))
}

func (s *AuthHandlerSuite) SetupTest() {
	s.userID = id.UserID(uuid.New())
}

func newTestHandler(t *testing.T) (*Handler, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return New(mockService, logger, nil, nil), mockService
}

func (s *AuthHandlerSuite) authResponse() *service.AuthResponse {
	return &service.AuthResponse{
		User: &models.User{
			ID:       s.userID,
			Email:    "parent@example.com",
			FullName: "Pat Parent",
			IsActive: true,
		},
		Tokens: jwttoken.TokenPair{Access: "access-token", Refresh: "refresh-token"},
	}
}

func (s *AuthHandlerSuite) TestHandleRegister() {
	handler, mockService := newTestHandler(s.T())

	registerReq := models.RegisterRequest{
		Email:    "parent@example.com",
		Password: "a sufficiently long password",
		FullName: "Pat Parent",
	}
	mockService.EXPECT().Register(gomock.Any(), registerReq).Return(s.authResponse(), nil)

	body, err := json.Marshal(registerReq)
	require.NoError(s.T(), err)

	w := httptest.NewRecorder()
	handler.handleRegister(w, httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body)))

	assert.Equal(s.T(), http.StatusCreated, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	user := resp["user"].(map[string]any)
	assert.Equal(s.T(), "parent@example.com", user["email"])
	assert.NotContains(s.T(), user, "password_hash")
	tokens := resp["tokens"].(map[string]any)
	assert.Equal(s.T(), "access-token", tokens["access"])
}

func (s *AuthHandlerSuite) TestHandleRegister_InvalidBody() {
	handler, _ := newTestHandler(s.T())

	w := httptest.NewRecorder()
	handler.handleRegister(w, httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader([]byte("{not json"))))

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *AuthHandlerSuite) TestHandleRegister_ConflictPassedThrough() {
	handler, mockService := newTestHandler(s.T())

	mockService.EXPECT().Register(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeConflict, "email is already registered"))

	w := httptest.NewRecorder()
	handler.handleRegister(w, httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader([]byte(`{}`))))

	assert.Equal(s.T(), http.StatusConflict, w.Code)
}

func (s *AuthHandlerSuite) TestHandleLogin() {
	handler, mockService := newTestHandler(s.T())

	loginReq := models.LoginRequest{Email: "parent@example.com", Password: "pw long enough"}
	mockService.EXPECT().Login(gomock.Any(), loginReq).Return(s.authResponse(), nil)

	body, err := json.Marshal(loginReq)
	require.NoError(s.T(), err)

	w := httptest.NewRecorder()
	handler.handleLogin(w, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body)))

	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *AuthHandlerSuite) TestHandleLogin_BadCredentials() {
	handler, mockService := newTestHandler(s.T())

	mockService.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials"))

	w := httptest.NewRecorder()
	handler.handleLogin(w, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader([]byte(`{}`))))

	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *AuthHandlerSuite) TestHandleRefresh() {
	handler, mockService := newTestHandler(s.T())

	refreshReq := models.RefreshRequest{RefreshToken: "refresh-token"}
	mockService.EXPECT().Refresh(gomock.Any(), refreshReq).Return(s.authResponse(), nil)

	body, err := json.Marshal(refreshReq)
	require.NoError(s.T(), err)

	w := httptest.NewRecorder()
	handler.handleRefresh(w, httptest.NewRequest(http.MethodPost, "/auth/token/refresh", bytes.NewReader(body)))

	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *AuthHandlerSuite) TestHandleLogout() {
	handler, mockService := newTestHandler(s.T())

	logoutReq := models.LogoutRequest{RefreshToken: "refresh-token"}
	mockService.EXPECT().Logout(gomock.Any(), logoutReq).Return(nil)

	body, err := json.Marshal(logoutReq)
	require.NoError(s.T(), err)

	w := httptest.NewRecorder()
	handler.handleLogout(w, httptest.NewRequest(http.MethodPost, "/auth/logout", bytes.NewReader(body)))

	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.JSONEq(s.T(), `{"status":"logged_out"}`, w.Body.String())
}

func (s *AuthHandlerSuite) TestHandleSocialLogin_RoutesProvider() {
	handler, mockService := newTestHandler(s.T())

	socialReq := models.SocialLoginRequest{IDToken: "google-id-token"}
	mockService.EXPECT().SocialLogin(gomock.Any(), models.ProviderGoogle, socialReq).Return(s.authResponse(), nil)

	body, err := json.Marshal(socialReq)
	require.NoError(s.T(), err)

	w := httptest.NewRecorder()
	handler.handleSocialLogin(models.ProviderGoogle)(w, httptest.NewRequest(http.MethodPost, "/auth/social/google", bytes.NewReader(body)))

	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *AuthHandlerSuite) TestHandleSocialLogin_InvalidTokenIsBadRequest() {
	handler, mockService := newTestHandler(s.T())

	mockService.EXPECT().SocialLogin(gomock.Any(), models.ProviderApple, gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeBadRequest, "invalid apple token"))

	w := httptest.NewRecorder()
	handler.handleSocialLogin(models.ProviderApple)(w, httptest.NewRequest(http.MethodPost, "/auth/social/apple", bytes.NewReader([]byte(`{"id_token":"x"}`))))

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *AuthHandlerSuite) TestHandleMe() {
	handler, mockService := newTestHandler(s.T())

	mockService.EXPECT().Me(gomock.Any(), s.userID).Return(&models.User{
		ID:    s.userID,
		Email: "parent@example.com",
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req = req.WithContext(requestcontext.WithUserID(req.Context(), s.userID))

	w := httptest.NewRecorder()
	handler.handleMe(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "parent@example.com", resp["email"])
}

func (s *AuthHandlerSuite) TestHandleMe_MissingUser() {
	handler, _ := newTestHandler(s.T())

	w := httptest.NewRecorder()
	handler.handleMe(w, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

	assert.Equal(s.T(), http.StatusInternalServerError, w.Code)
}

func (s *AuthHandlerSuite) TestHandleUpdateMe() {
	handler, mockService := newTestHandler(s.T())

	newName := "Pat Q. Parent"
	updateReq := models.UpdateProfileRequest{FullName: &newName}
	mockService.EXPECT().UpdateMe(gomock.Any(), s.userID, updateReq).Return(&models.User{
		ID:       s.userID,
		FullName: "Pat Q. Parent",
	}, nil)

	body, err := json.Marshal(updateReq)
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPatch, "/auth/me", bytes.NewReader(body))
	req = req.WithContext(requestcontext.WithUserID(req.Context(), s.userID))

	w := httptest.NewRecorder()
	handler.handleUpdateMe(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "Pat Q. Parent", resp["full_name"])
}
