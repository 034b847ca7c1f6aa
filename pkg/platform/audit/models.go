package audit

import (
	"time"

	id "antygravity/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose. This
// enables different retention policies and routing downstream.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance
	// (account lifecycle, social identity linking). Long retention.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to security monitoring
	// (logins, device blocking).
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for debugging and operational
	// visibility (scans, privacy checks). Short retention, sampleable.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	UserID    id.UserID
	Action    string
	Subject   string
	Detail    string
	RequestID string
}

// AuditEvent names a recordable action.
type AuditEvent string

const (
	EventUserCreated          AuditEvent = "user_created"
	EventUserLoggedIn         AuditEvent = "user_logged_in"
	EventSocialAccountLinked  AuditEvent = "social_account_linked"
	EventTokenRevoked         AuditEvent = "token_revoked"
	EventPrivacyCheckRecorded AuditEvent = "privacy_check_recorded"
	EventScanSubmitted        AuditEvent = "scan_submitted"
	EventDeviceTrusted        AuditEvent = "device_trusted"
	EventDeviceBlocked        AuditEvent = "device_blocked"
	EventDeviceUnmarked       AuditEvent = "device_unmarked"
)

// eventCategories is the source of truth for routing events to categories.
var eventCategories = map[AuditEvent]EventCategory{
	EventUserCreated:          CategoryCompliance,
	EventSocialAccountLinked:  CategoryCompliance,
	EventUserLoggedIn:         CategorySecurity,
	EventTokenRevoked:         CategorySecurity,
	EventDeviceBlocked:        CategorySecurity,
	EventPrivacyCheckRecorded: CategoryOperations,
	EventScanSubmitted:        CategoryOperations,
	EventDeviceTrusted:        CategoryOperations,
	EventDeviceUnmarked:       CategoryOperations,
}

// Category returns the category for an event name, defaulting to operations
// for unknown actions.
func (e AuditEvent) Category() EventCategory {
	if c, ok := eventCategories[e]; ok {
		return c
	}
	return CategoryOperations
}
