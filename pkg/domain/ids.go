// Package domain provides typed identifiers shared across features.
//
// Wrapping uuid.UUID in distinct types prevents accidental cross-wiring of
// identifiers (passing a child ID where a device ID is expected fails to
// compile instead of failing in production).
package domain

import (
	"fmt"

	"github.com/google/uuid"
)

type (
	// UserID identifies a parent account.
	UserID uuid.UUID
	// ChildID identifies a child profile.
	ChildID uuid.UUID
	// RuleID identifies a parental rule.
	RuleID uuid.UUID
	// ViolationID identifies a recorded rule violation.
	ViolationID uuid.UUID
	// DeviceID identifies a network device record.
	DeviceID uuid.UUID
	// ScanID identifies a network scan log entry.
	ScanID uuid.UUID
	// CheckID identifies a privacy check record.
	CheckID uuid.UUID
)

func (id UserID) String() string      { return uuid.UUID(id).String() }
func (id ChildID) String() string     { return uuid.UUID(id).String() }
func (id RuleID) String() string      { return uuid.UUID(id).String() }
func (id ViolationID) String() string { return uuid.UUID(id).String() }
func (id DeviceID) String() string    { return uuid.UUID(id).String() }
func (id ScanID) String() string      { return uuid.UUID(id).String() }
func (id CheckID) String() string     { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id ChildID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id RuleID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id ViolationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id DeviceID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ScanID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id CheckID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }

// MarshalText renders IDs as canonical UUID strings in JSON payloads.
func (id UserID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id ChildID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id RuleID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id ViolationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id DeviceID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id ScanID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id CheckID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(b []byte) error      { return unmarshalID((*uuid.UUID)(id), b) }
func (id *ChildID) UnmarshalText(b []byte) error     { return unmarshalID((*uuid.UUID)(id), b) }
func (id *RuleID) UnmarshalText(b []byte) error      { return unmarshalID((*uuid.UUID)(id), b) }
func (id *ViolationID) UnmarshalText(b []byte) error { return unmarshalID((*uuid.UUID)(id), b) }
func (id *DeviceID) UnmarshalText(b []byte) error    { return unmarshalID((*uuid.UUID)(id), b) }
func (id *ScanID) UnmarshalText(b []byte) error      { return unmarshalID((*uuid.UUID)(id), b) }
func (id *CheckID) UnmarshalText(b []byte) error     { return unmarshalID((*uuid.UUID)(id), b) }

func unmarshalID(dst *uuid.UUID, b []byte) error {
	parsed, err := uuid.Parse(string(b))
	if err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}
	*dst = parsed
	return nil
}

// ParseUserID validates and converts a string into a UserID.
func ParseUserID(s string) (UserID, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, fmt.Errorf("invalid user id: %w", err)
	}
	return UserID(parsed), nil
}

// ParseChildID validates and converts a string into a ChildID.
func ParseChildID(s string) (ChildID, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return ChildID{}, fmt.Errorf("invalid child id: %w", err)
	}
	return ChildID(parsed), nil
}

// ParseRuleID validates and converts a string into a RuleID.
func ParseRuleID(s string) (RuleID, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return RuleID{}, fmt.Errorf("invalid rule id: %w", err)
	}
	return RuleID(parsed), nil
}

// ParseDeviceID validates and converts a string into a DeviceID.
func ParseDeviceID(s string) (DeviceID, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return DeviceID{}, fmt.Errorf("invalid device id: %w", err)
	}
	return DeviceID(parsed), nil
}

// ParseCheckID validates and converts a string into a CheckID.
func ParseCheckID(s string) (CheckID, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return CheckID{}, fmt.Errorf("invalid check id: %w", err)
	}
	return CheckID(parsed), nil
}

// ParseScanID validates and converts a string into a ScanID.
func ParseScanID(s string) (ScanID, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return ScanID{}, fmt.Errorf("invalid scan id: %w", err)
	}
	return ScanID(parsed), nil
}

// ParseViolationID validates and converts a string into a ViolationID.
func ParseViolationID(s string) (ViolationID, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return ViolationID{}, fmt.Errorf("invalid violation id: %w", err)
	}
	return ViolationID(parsed), nil
}
