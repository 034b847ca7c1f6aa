package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"antygravity/internal/family/handler/mocks"
	"antygravity/internal/family/models"
	id "antygravity/pkg/domain"
	dErrors "antygravity/pkg/domain-errors"
	"antygravity/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service
type FamilyHandlerSuite struct {
	suite.Suite
	parentID id.UserID
}

func TestFamilyHandlerSuite(t *testing.T) {
	suite.Run(t, new(FamilyHandlerSuite))
}

func (s *FamilyHandlerSuite) SetupTest() {
	s.parentID = id.UserID(uuid.New())
}

func newTestHandler(t *testing.T) (*Handler, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return New(mockService, logger, nil, nil), mockService
}

func (s *FamilyHandlerSuite) authed(req *http.Request) *http.Request {
	return req.WithContext(requestcontext.WithUserID(req.Context(), s.parentID))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func (s *FamilyHandlerSuite) TestHandleCreateChild() {
	handler, mockService := newTestHandler(s.T())

	createReq := models.CreateChildRequest{Name: "Alex", Age: 9}
	mockService.EXPECT().CreateChild(gomock.Any(), s.parentID, createReq).Return(&models.ChildProfile{
		ID:          id.ChildID(uuid.New()),
		UserID:      s.parentID,
		Name:        "Alex",
		Age:         9,
		AvatarColor: models.DefaultAvatarColor,
	}, nil)

	body, err := json.Marshal(createReq)
	require.NoError(s.T(), err)

	w := httptest.NewRecorder()
	handler.handleCreateChild(w, s.authed(httptest.NewRequest(http.MethodPost, "/children", bytes.NewReader(body))))

	assert.Equal(s.T(), http.StatusCreated, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "Alex", resp["name"])
	assert.Equal(s.T(), "#6366F1", resp["avatar_color"])
	assert.NotContains(s.T(), resp, "user_id")
}

func (s *FamilyHandlerSuite) TestHandleCreateChild_MissingUser() {
	handler, _ := newTestHandler(s.T())

	w := httptest.NewRecorder()
	handler.handleCreateChild(w, httptest.NewRequest(http.MethodPost, "/children", bytes.NewReader([]byte(`{}`))))

	assert.Equal(s.T(), http.StatusInternalServerError, w.Code)
}

func (s *FamilyHandlerSuite) TestHandleListChildren_Empty() {
	handler, mockService := newTestHandler(s.T())

	mockService.EXPECT().ListChildren(gomock.Any(), s.parentID).Return(nil, nil)

	w := httptest.NewRecorder()
	handler.handleListChildren(w, s.authed(httptest.NewRequest(http.MethodGet, "/children", nil)))

	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.JSONEq(s.T(), `{"children":[]}`, w.Body.String())
}

func (s *FamilyHandlerSuite) TestHandleGetChild_InvalidID() {
	handler, _ := newTestHandler(s.T())

	req := s.authed(httptest.NewRequest(http.MethodGet, "/children/not-a-uuid", nil))
	req = withURLParam(req, "childID", "not-a-uuid")

	w := httptest.NewRecorder()
	handler.handleGetChild(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *FamilyHandlerSuite) TestHandleGetChild_NotFound() {
	handler, mockService := newTestHandler(s.T())
	childID := id.ChildID(uuid.New())

	mockService.EXPECT().GetChild(gomock.Any(), s.parentID, childID).
		Return(nil, dErrors.New(dErrors.CodeNotFound, "child not found"))

	req := s.authed(httptest.NewRequest(http.MethodGet, "/children/"+childID.String(), nil))
	req = withURLParam(req, "childID", childID.String())

	w := httptest.NewRecorder()
	handler.handleGetChild(w, req)

	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *FamilyHandlerSuite) TestHandleDeleteChild() {
	handler, mockService := newTestHandler(s.T())
	childID := id.ChildID(uuid.New())

	mockService.EXPECT().DeleteChild(gomock.Any(), s.parentID, childID).Return(nil)

	req := s.authed(httptest.NewRequest(http.MethodDelete, "/children/"+childID.String(), nil))
	req = withURLParam(req, "childID", childID.String())

	w := httptest.NewRecorder()
	handler.handleDeleteChild(w, req)

	assert.Equal(s.T(), http.StatusNoContent, w.Code)
}

func (s *FamilyHandlerSuite) TestHandleCreateRule_ValidationPassedThrough() {
	handler, mockService := newTestHandler(s.T())

	mockService.EXPECT().CreateRule(gomock.Any(), s.parentID, gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeValidation, "BLOCK_APP rule requires app_package_name"))

	body := []byte(`{"child_id":"` + uuid.NewString() + `","rule_type":"BLOCK_APP"}`)

	w := httptest.NewRecorder()
	handler.handleCreateRule(w, s.authed(httptest.NewRequest(http.MethodPost, "/parental/rules", bytes.NewReader(body))))

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(s.T(), resp["message"], "app_package_name")
}

func (s *FamilyHandlerSuite) TestHandleListRules_ChildFilter() {
	handler, mockService := newTestHandler(s.T())
	childID := id.ChildID(uuid.New())

	mockService.EXPECT().ListRules(gomock.Any(), s.parentID, childID).Return([]*models.ParentalRule{
		{ID: id.RuleID(uuid.New()), ChildID: childID, RuleType: models.RuleBlockApp, AppPackageName: "com.example.game"},
	}, nil)

	req := s.authed(httptest.NewRequest(http.MethodGet, "/parental/rules?child_id="+childID.String(), nil))

	w := httptest.NewRecorder()
	handler.handleListRules(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	rules := resp["rules"].([]any)
	require.Len(s.T(), rules, 1)
}

func (s *FamilyHandlerSuite) TestHandleListRules_InvalidChildFilter() {
	handler, _ := newTestHandler(s.T())

	req := s.authed(httptest.NewRequest(http.MethodGet, "/parental/rules?child_id=garbage", nil))

	w := httptest.NewRecorder()
	handler.handleListRules(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *FamilyHandlerSuite) TestHandleUpdateRule() {
	handler, mockService := newTestHandler(s.T())
	ruleID := id.RuleID(uuid.New())

	inactive := false
	updateReq := models.UpdateRuleRequest{IsActive: &inactive}
	mockService.EXPECT().UpdateRule(gomock.Any(), s.parentID, ruleID, updateReq).Return(&models.ParentalRule{
		ID:       ruleID,
		RuleType: models.RuleBlockApp,
		IsActive: false,
	}, nil)

	body, err := json.Marshal(updateReq)
	require.NoError(s.T(), err)

	req := s.authed(httptest.NewRequest(http.MethodPatch, "/parental/rules/"+ruleID.String(), bytes.NewReader(body)))
	req = withURLParam(req, "ruleID", ruleID.String())

	w := httptest.NewRecorder()
	handler.handleUpdateRule(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), false, resp["is_active"])
}

func (s *FamilyHandlerSuite) TestHandleRecordViolation() {
	handler, mockService := newTestHandler(s.T())
	childID := id.ChildID(uuid.New())
	ruleID := id.RuleID(uuid.New())

	violationReq := models.CreateViolationRequest{ChildID: childID, RuleID: ruleID, Description: "opened blocked app"}
	mockService.EXPECT().RecordViolation(gomock.Any(), s.parentID, violationReq).Return(&models.RuleViolation{
		ID:          id.ViolationID(uuid.New()),
		ChildID:     childID,
		RuleID:      ruleID,
		Description: "opened blocked app",
		OccurredAt:  time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
	}, nil)

	body, err := json.Marshal(violationReq)
	require.NoError(s.T(), err)

	w := httptest.NewRecorder()
	handler.handleRecordViolation(w, s.authed(httptest.NewRequest(http.MethodPost, "/parental/violations", bytes.NewReader(body))))

	assert.Equal(s.T(), http.StatusCreated, w.Code)
}

func (s *FamilyHandlerSuite) TestHandleListViolations_ParsesFilters() {
	handler, mockService := newTestHandler(s.T())
	childID := id.ChildID(uuid.New())

	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	mockService.EXPECT().ListViolations(gomock.Any(), s.parentID, models.ViolationFilter{
		ChildID: childID,
		Start:   start,
		End:     end,
	}).Return(nil, nil)

	url := "/parental/violations?child_id=" + childID.String() +
		"&start_date=" + start.Format(time.RFC3339) +
		"&end_date=" + end.Format(time.RFC3339)

	w := httptest.NewRecorder()
	handler.handleListViolations(w, s.authed(httptest.NewRequest(http.MethodGet, url, nil)))

	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.JSONEq(s.T(), `{"violations":[]}`, w.Body.String())
}

func (s *FamilyHandlerSuite) TestHandleListViolations_BadDate() {
	handler, _ := newTestHandler(s.T())

	w := httptest.NewRecorder()
	handler.handleListViolations(w, s.authed(httptest.NewRequest(http.MethodGet, "/parental/violations?start_date=april", nil)))

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}
