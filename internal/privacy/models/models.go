package models

import (
	"time"

	id "antygravity/pkg/domain"
)

// NetworkUsageLevel is a coarse bucket of how much network activity an app
// exhibits, reported by the client.
type NetworkUsageLevel string

const (
	NetworkUsageLow    NetworkUsageLevel = "LOW"
	NetworkUsageMedium NetworkUsageLevel = "MEDIUM"
	NetworkUsageHigh   NetworkUsageLevel = "HIGH"
)

// SuggestedAction is the recommendation derived from a privacy score.
type SuggestedAction string

const (
	ActionKeep              SuggestedAction = "KEEP"
	ActionReview            SuggestedAction = "REVIEW"
	ActionConsiderUninstall SuggestedAction = "CONSIDER_UNINSTALL"
)

// PrivacyCheck is one user-initiated privacy check of an app. Append-only;
// checks are never updated after creation.
type PrivacyCheck struct {
	ID                id.CheckID        `json:"id"`
	UserID            id.UserID         `json:"-"`
	AppPackageName    string            `json:"app_package_name"`
	AppName           string            `json:"app_name"`
	Permissions       []string          `json:"permissions"`
	NetworkUsageLevel NetworkUsageLevel `json:"network_usage_level"`
	Score             int               `json:"score"`
	Explanation       string            `json:"explanation"`
	SuggestedAction   SuggestedAction   `json:"suggested_action"`
	CreatedAt         time.Time         `json:"created_at"`
}

// CheckRequest is the payload for POST /privacy/check.
type CheckRequest struct {
	AppPackageName    string   `json:"package_name"`
	AppName           string   `json:"app_name"`
	Permissions       []string `json:"permissions"`
	Category          string   `json:"category"`
	NetworkUsageLevel string   `json:"network_usage_level"`
}
