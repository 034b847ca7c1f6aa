package models

import (
	"fmt"
	"regexp"
	"time"

	id "antygravity/pkg/domain"
	"antygravity/pkg/platform/sentinel"
)

// DefaultAvatarColor is applied when a child profile is created without one.
const DefaultAvatarColor = "#6366F1"

var avatarColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidAvatarColor reports whether s is a #RRGGBB color.
func ValidAvatarColor(s string) bool { return avatarColorPattern.MatchString(s) }

// ChildProfile is a child managed by a parent account.
type ChildProfile struct {
	ID          id.ChildID `json:"id"`
	UserID      id.UserID  `json:"-"`
	Name        string     `json:"name"`
	Age         int        `json:"age"`
	AvatarColor string     `json:"avatar_color"`
	CreatedAt   time.Time  `json:"created_at"`
}

// RuleType distinguishes the kinds of parental rules.
type RuleType string

const (
	RuleBlockApp   RuleType = "BLOCK_APP"
	RuleLimitUsage RuleType = "LIMIT_USAGE"
	RuleBedtime    RuleType = "BEDTIME"
)

// ParentalRule configures one restriction for one child. Which fields are
// required depends on the rule type, see Validate.
type ParentalRule struct {
	ID                id.RuleID  `json:"id"`
	ParentID          id.UserID  `json:"-"`
	ChildID           id.ChildID `json:"child_id"`
	RuleType          RuleType   `json:"rule_type"`
	AppPackageName    string     `json:"app_package_name,omitempty"`
	Category          string     `json:"category,omitempty"`
	DailyLimitMinutes int        `json:"daily_limit_minutes,omitempty"`
	BedtimeStart      string     `json:"bedtime_start,omitempty"`
	BedtimeEnd        string     `json:"bedtime_end,omitempty"`
	IsActive          bool       `json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Validate checks the type-specific field requirements.
func (r *ParentalRule) Validate() error {
	switch r.RuleType {
	case RuleBlockApp:
		if r.AppPackageName == "" {
			return fmt.Errorf("BLOCK_APP rule requires app_package_name: %w", sentinel.ErrInvalidState)
		}
	case RuleLimitUsage:
		if r.DailyLimitMinutes <= 0 {
			return fmt.Errorf("LIMIT_USAGE rule requires a positive daily_limit_minutes: %w", sentinel.ErrInvalidState)
		}
	case RuleBedtime:
		if r.BedtimeStart == "" || r.BedtimeEnd == "" {
			return fmt.Errorf("BEDTIME rule requires bedtime_start and bedtime_end: %w", sentinel.ErrInvalidState)
		}
	default:
		return fmt.Errorf("unknown rule type %q: %w", r.RuleType, sentinel.ErrInvalidState)
	}
	return nil
}

// RuleViolation records one observed breach of a rule.
type RuleViolation struct {
	ID          id.ViolationID `json:"id"`
	ChildID     id.ChildID     `json:"child_id"`
	RuleID      id.RuleID      `json:"rule_id"`
	Description string         `json:"description,omitempty"`
	OccurredAt  time.Time      `json:"occurred_at"`
}

type CreateChildRequest struct {
	Name        string `json:"name"`
	Age         int    `json:"age"`
	AvatarColor string `json:"avatar_color,omitempty"`
}

type UpdateChildRequest struct {
	Name        *string `json:"name,omitempty"`
	Age         *int    `json:"age,omitempty"`
	AvatarColor *string `json:"avatar_color,omitempty"`
}

type CreateRuleRequest struct {
	ChildID           id.ChildID `json:"child_id"`
	RuleType          RuleType   `json:"rule_type"`
	AppPackageName    string     `json:"app_package_name,omitempty"`
	Category          string     `json:"category,omitempty"`
	DailyLimitMinutes int        `json:"daily_limit_minutes,omitempty"`
	BedtimeStart      string     `json:"bedtime_start,omitempty"`
	BedtimeEnd        string     `json:"bedtime_end,omitempty"`
}

type UpdateRuleRequest struct {
	AppPackageName    *string `json:"app_package_name,omitempty"`
	Category          *string `json:"category,omitempty"`
	DailyLimitMinutes *int    `json:"daily_limit_minutes,omitempty"`
	BedtimeStart      *string `json:"bedtime_start,omitempty"`
	BedtimeEnd        *string `json:"bedtime_end,omitempty"`
	IsActive          *bool   `json:"is_active,omitempty"`
}

type CreateViolationRequest struct {
	ChildID     id.ChildID `json:"child_id"`
	RuleID      id.RuleID  `json:"rule_id"`
	Description string     `json:"description,omitempty"`
	OccurredAt  *time.Time `json:"occurred_at,omitempty"`
}

// ViolationFilter narrows a violation listing. Zero values mean no filter.
type ViolationFilter struct {
	ChildID id.ChildID
	Start   time.Time
	End     time.Time
}
