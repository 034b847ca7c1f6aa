package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"antygravity/internal/privacy/handler/mocks"
	"antygravity/internal/privacy/models"
	id "antygravity/pkg/domain"
	dErrors "antygravity/pkg/domain-errors"
	"antygravity/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service
type PrivacyHandlerSuite struct {
	suite.Suite
	userID id.UserID
}

func TestPrivacyHandlerSuite(t *testing.T) {
	suite.Run(t, new(PrivacyHandlerSuite))
}

func (s *PrivacyHandlerSuite) SetupTest() {
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

func (s *PrivacyHandlerSuite) TestHandleCheck() {
	handler, mockService := newTestHandler(s.T())
	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	checkReq := models.CheckRequest{
		AppPackageName:    "com.example.tracker",
		AppName:           "Tracker",
		Permissions:       []string{"android.permission.CAMERA"},
		Category:          "finance",
		NetworkUsageLevel: "LOW",
	}
	mockService.EXPECT().Check(gomock.Any(), s.userID, checkReq).Return(&models.PrivacyCheck{
		ID:                id.CheckID(uuid.New()),
		UserID:            s.userID,
		AppPackageName:    "com.example.tracker",
		AppName:           "Tracker",
		Permissions:       []string{"android.permission.CAMERA"},
		NetworkUsageLevel: models.NetworkUsageLow,
		Score:             90,
		Explanation:       "Concerns: High-risk permissions: Camera | Positives: Trusted category (finance): +5 points; Low privacy risk overall",
		SuggestedAction:   models.ActionKeep,
		CreatedAt:         createdAt,
	}, nil)

	body, err := json.Marshal(checkReq)
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/privacy/check", bytes.NewReader(body))
	req = req.WithContext(requestcontext.WithUserID(req.Context(), s.userID))

	w := httptest.NewRecorder()
	handler.handleCheck(w, req)

	assert.Equal(s.T(), http.StatusCreated, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "com.example.tracker", resp["app_package_name"])
	assert.Equal(s.T(), float64(90), resp["score"])
	assert.Equal(s.T(), "KEEP", resp["suggested_action"])
}

func (s *PrivacyHandlerSuite) TestHandleCheck_InvalidBody() {
	handler, _ := newTestHandler(s.T())

	req := httptest.NewRequest(http.MethodPost, "/privacy/check", bytes.NewReader([]byte("{not json")))
	req = req.WithContext(requestcontext.WithUserID(req.Context(), s.userID))

	w := httptest.NewRecorder()
	handler.handleCheck(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *PrivacyHandlerSuite) TestHandleCheck_ValidationErrorPassedThrough() {
	handler, mockService := newTestHandler(s.T())

	mockService.EXPECT().Check(gomock.Any(), s.userID, gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeBadRequest, "package_name is required"))

	req := httptest.NewRequest(http.MethodPost, "/privacy/check", bytes.NewReader([]byte(`{"app_name":"Nameless"}`)))
	req = req.WithContext(requestcontext.WithUserID(req.Context(), s.userID))

	w := httptest.NewRecorder()
	handler.handleCheck(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(s.T(), resp["message"], "package_name")
}

func (s *PrivacyHandlerSuite) TestHandleCheck_MissingUser() {
	handler, _ := newTestHandler(s.T())

	req := httptest.NewRequest(http.MethodPost, "/privacy/check", bytes.NewReader([]byte(`{}`)))

	w := httptest.NewRecorder()
	handler.handleCheck(w, req)

	assert.Equal(s.T(), http.StatusInternalServerError, w.Code)
}

func (s *PrivacyHandlerSuite) TestHandleListChecks() {
	handler, mockService := newTestHandler(s.T())

	mockService.EXPECT().History(gomock.Any(), s.userID, "").Return([]*models.PrivacyCheck{
		{ID: id.CheckID(uuid.New()), AppPackageName: "com.example.b", Score: 55},
		{ID: id.CheckID(uuid.New()), AppPackageName: "com.example.a", Score: 90},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/privacy/checks", nil)
	req = req.WithContext(requestcontext.WithUserID(req.Context(), s.userID))

	w := httptest.NewRecorder()
	handler.handleListChecks(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	checks := resp["checks"].([]any)
	require.Len(s.T(), checks, 2)
	first := checks[0].(map[string]any)
	assert.Equal(s.T(), "com.example.b", first["app_package_name"])
}

func (s *PrivacyHandlerSuite) TestHandleListChecks_PackageFilterPassedThrough() {
	handler, mockService := newTestHandler(s.T())

	mockService.EXPECT().History(gomock.Any(), s.userID, "com.example.a").Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/privacy/checks?package_name=com.example.a", nil)
	req = req.WithContext(requestcontext.WithUserID(req.Context(), s.userID))

	w := httptest.NewRecorder()
	handler.handleListChecks(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *PrivacyHandlerSuite) TestHandleListChecks_EmptyHistory() {
	handler, mockService := newTestHandler(s.T())

	mockService.EXPECT().History(gomock.Any(), s.userID, "").Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/privacy/checks", nil)
	req = req.WithContext(requestcontext.WithUserID(req.Context(), s.userID))

	w := httptest.NewRecorder()
	handler.handleListChecks(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.JSONEq(s.T(), `{"checks":[]}`, w.Body.String())
}
