package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"antygravity/internal/family/models"
	id "antygravity/pkg/domain"
	dErrors "antygravity/pkg/domain-errors"
	"antygravity/pkg/platform/sentinel"
	"antygravity/pkg/requestcontext"
)

type ChildStore interface {
	Create(ctx context.Context, child *models.ChildProfile) (*models.ChildProfile, error)
	FindByID(ctx context.Context, childID id.ChildID) (*models.ChildProfile, error)
	ListByParent(ctx context.Context, parentID id.UserID) ([]*models.ChildProfile, error)
	Update(ctx context.Context, child *models.ChildProfile) (*models.ChildProfile, error)
	Delete(ctx context.Context, childID id.ChildID) error
}

type RuleStore interface {
	Create(ctx context.Context, r *models.ParentalRule) (*models.ParentalRule, error)
	FindByID(ctx context.Context, ruleID id.RuleID) (*models.ParentalRule, error)
	ListByParent(ctx context.Context, parentID id.UserID, childID id.ChildID) ([]*models.ParentalRule, error)
	Update(ctx context.Context, r *models.ParentalRule) (*models.ParentalRule, error)
	Delete(ctx context.Context, ruleID id.RuleID) error
}

type ViolationStore interface {
	Create(ctx context.Context, v *models.RuleViolation) (*models.RuleViolation, error)
	ListByChildren(ctx context.Context, childIDs []id.ChildID, filter models.ViolationFilter) ([]*models.RuleViolation, error)
}

// Service implements owner-scoped CRUD over child profiles, parental
// rules, and rule violations. Rows belonging to another parent read as
// NotFound so ownership is never disclosed.
type Service struct {
	children   ChildStore
	rules      RuleStore
	violations ViolationStore
	logger     *slog.Logger
}

func NewService(children ChildStore, rules RuleStore, violations ViolationStore, logger *slog.Logger) *Service {
	return &Service{
		children:   children,
		rules:      rules,
		violations: violations,
		logger:     logger,
	}
}

func (s *Service) CreateChild(ctx context.Context, parentID id.UserID, req models.CreateChildRequest) (*models.ChildProfile, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if req.Age < 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "age cannot be negative")
	}

	color := req.AvatarColor
	if color == "" {
		color = models.DefaultAvatarColor
	}
	if !models.ValidAvatarColor(color) {
		return nil, dErrors.New(dErrors.CodeValidation, "avatar_color must be a #RRGGBB value")
	}

	child, err := s.children.Create(ctx, &models.ChildProfile{
		ID:          id.ChildID(uuid.New()),
		UserID:      parentID,
		Name:        name,
		Age:         req.Age,
		AvatarColor: color,
		CreatedAt:   requestcontext.Now(ctx),
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create child profile")
	}
	return child, nil
}

func (s *Service) ListChildren(ctx context.Context, parentID id.UserID) ([]*models.ChildProfile, error) {
	children, err := s.children.ListByParent(ctx, parentID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list children")
	}
	return children, nil
}

func (s *Service) GetChild(ctx context.Context, parentID id.UserID, childID id.ChildID) (*models.ChildProfile, error) {
	return s.ownedChild(ctx, parentID, childID)
}

func (s *Service) UpdateChild(ctx context.Context, parentID id.UserID, childID id.ChildID, req models.UpdateChildRequest) (*models.ChildProfile, error) {
	child, err := s.ownedChild(ctx, parentID, childID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, dErrors.New(dErrors.CodeValidation, "name cannot be empty")
		}
		child.Name = strings.TrimSpace(*req.Name)
	}
	if req.Age != nil {
		if *req.Age < 0 {
			return nil, dErrors.New(dErrors.CodeValidation, "age cannot be negative")
		}
		child.Age = *req.Age
	}
	if req.AvatarColor != nil {
		if !models.ValidAvatarColor(*req.AvatarColor) {
			return nil, dErrors.New(dErrors.CodeValidation, "avatar_color must be a #RRGGBB value")
		}
		child.AvatarColor = *req.AvatarColor
	}

	updated, err := s.children.Update(ctx, child)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update child profile")
	}
	return updated, nil
}

func (s *Service) DeleteChild(ctx context.Context, parentID id.UserID, childID id.ChildID) error {
	if _, err := s.ownedChild(ctx, parentID, childID); err != nil {
		return err
	}
	if err := s.children.Delete(ctx, childID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete child profile")
	}
	s.logger.InfoContext(ctx, "child profile deleted",
		"child_id", childID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

func (s *Service) CreateRule(ctx context.Context, parentID id.UserID, req models.CreateRuleRequest) (*models.ParentalRule, error) {
	if _, err := s.ownedChild(ctx, parentID, req.ChildID); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	rule := &models.ParentalRule{
		ID:                id.RuleID(uuid.New()),
		ParentID:          parentID,
		ChildID:           req.ChildID,
		RuleType:          req.RuleType,
		AppPackageName:    req.AppPackageName,
		Category:          req.Category,
		DailyLimitMinutes: req.DailyLimitMinutes,
		BedtimeStart:      req.BedtimeStart,
		BedtimeEnd:        req.BedtimeEnd,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := rule.Validate(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
	}

	created, err := s.rules.Create(ctx, rule)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create rule")
	}
	return created, nil
}

func (s *Service) ListRules(ctx context.Context, parentID id.UserID, childID id.ChildID) ([]*models.ParentalRule, error) {
	rules, err := s.rules.ListByParent(ctx, parentID, childID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list rules")
	}
	return rules, nil
}

func (s *Service) UpdateRule(ctx context.Context, parentID id.UserID, ruleID id.RuleID, req models.UpdateRuleRequest) (*models.ParentalRule, error) {
	rule, err := s.ownedRule(ctx, parentID, ruleID)
	if err != nil {
		return nil, err
	}

	if req.AppPackageName != nil {
		rule.AppPackageName = *req.AppPackageName
	}
	if req.Category != nil {
		rule.Category = *req.Category
	}
	if req.DailyLimitMinutes != nil {
		rule.DailyLimitMinutes = *req.DailyLimitMinutes
	}
	if req.BedtimeStart != nil {
		rule.BedtimeStart = *req.BedtimeStart
	}
	if req.BedtimeEnd != nil {
		rule.BedtimeEnd = *req.BedtimeEnd
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if err := rule.Validate(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
	}
	rule.UpdatedAt = requestcontext.Now(ctx)

	updated, err := s.rules.Update(ctx, rule)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update rule")
	}
	return updated, nil
}

func (s *Service) DeleteRule(ctx context.Context, parentID id.UserID, ruleID id.RuleID) error {
	if _, err := s.ownedRule(ctx, parentID, ruleID); err != nil {
		return err
	}
	if err := s.rules.Delete(ctx, ruleID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete rule")
	}
	s.logger.InfoContext(ctx, "parental rule deleted",
		"rule_id", ruleID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

func (s *Service) RecordViolation(ctx context.Context, parentID id.UserID, req models.CreateViolationRequest) (*models.RuleViolation, error) {
	if _, err := s.ownedChild(ctx, parentID, req.ChildID); err != nil {
		return nil, err
	}
	rule, err := s.ownedRule(ctx, parentID, req.RuleID)
	if err != nil {
		return nil, err
	}
	if rule.ChildID != req.ChildID {
		return nil, dErrors.New(dErrors.CodeValidation, "rule does not apply to this child")
	}

	occurredAt := requestcontext.Now(ctx)
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	created, err := s.violations.Create(ctx, &models.RuleViolation{
		ID:          id.ViolationID(uuid.New()),
		ChildID:     req.ChildID,
		RuleID:      req.RuleID,
		Description: req.Description,
		OccurredAt:  occurredAt,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record violation")
	}
	return created, nil
}

func (s *Service) ListViolations(ctx context.Context, parentID id.UserID, filter models.ViolationFilter) ([]*models.RuleViolation, error) {
	var childIDs []id.ChildID
	if !filter.ChildID.IsNil() {
		if _, err := s.ownedChild(ctx, parentID, filter.ChildID); err != nil {
			return nil, err
		}
		childIDs = []id.ChildID{filter.ChildID}
	} else {
		children, err := s.ListChildren(ctx, parentID)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			childIDs = append(childIDs, child.ID)
		}
	}
	if len(childIDs) == 0 {
		return nil, nil
	}

	violations, err := s.violations.ListByChildren(ctx, childIDs, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list violations")
	}
	return violations, nil
}

func (s *Service) ownedChild(ctx context.Context, parentID id.UserID, childID id.ChildID) (*models.ChildProfile, error) {
	child, err := s.children.FindByID(ctx, childID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "child not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up child")
	}
	if child.UserID != parentID {
		return nil, dErrors.Wrap(
			fmt.Errorf("child not owned by caller: %w", sentinel.ErrNotFound),
			dErrors.CodeNotFound, "child not found")
	}
	return child, nil
}

func (s *Service) ownedRule(ctx context.Context, parentID id.UserID, ruleID id.RuleID) (*models.ParentalRule, error) {
	rule, err := s.rules.FindByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "rule not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up rule")
	}
	if rule.ParentID != parentID {
		return nil, dErrors.Wrap(
			fmt.Errorf("rule not owned by caller: %w", sentinel.ErrNotFound),
			dErrors.CodeNotFound, "rule not found")
	}
	return rule, nil
}
