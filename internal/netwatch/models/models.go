package models

import (
	"encoding/json"
	"time"

	id "antygravity/pkg/domain"
)

// DeviceType classifies a device observed on the home network.
type DeviceType string

const (
	DevicePhone   DeviceType = "PHONE"
	DeviceLaptop  DeviceType = "LAPTOP"
	DeviceTablet  DeviceType = "TABLET"
	DeviceTV      DeviceType = "TV"
	DeviceConsole DeviceType = "CONSOLE"
	DeviceRouter  DeviceType = "ROUTER"
	DeviceIOT     DeviceType = "IOT"
	DeviceOther   DeviceType = "OTHER"
	DeviceUnknown DeviceType = "UNKNOWN"
)

// Device is one persistent registry entry for a device seen on the owner's
// network. Matched across scans by (owner, MAC) when the MAC is known,
// falling back to (owner, IP) with the MAC stored empty.
//
// is_trusted and is_blocked are mutually exclusive; reconciliation never
// touches them.
type Device struct {
	ID          id.DeviceID `json:"id"`
	OwnerID     id.UserID   `json:"-"`
	Name        string      `json:"name"`
	IPAddress   string      `json:"ip_address"`
	MACAddress  string      `json:"mac_address"`
	Type        DeviceType  `json:"device_type"`
	IsTrusted   bool        `json:"is_trusted"`
	IsBlocked   bool        `json:"is_blocked"`
	FirstSeenAt time.Time   `json:"first_seen_at"`
	LastSeenAt  time.Time   `json:"last_seen_at"`
}

// MarkTrusted moves the device to the trusted state. Idempotent.
func (d *Device) MarkTrusted() {
	d.IsTrusted = true
	d.IsBlocked = false
}

// MarkBlocked moves the device to the blocked state. Idempotent.
func (d *Device) MarkBlocked() {
	d.IsBlocked = true
	d.IsTrusted = false
}

// Unmark returns the device to the neutral state. Idempotent.
func (d *Device) Unmark() {
	d.IsTrusted = false
	d.IsBlocked = false
}

// Key is the identity key reconciliation matches devices by. Exactly one of
// MACAddress or IPAddress is set.
type Key struct {
	OwnerID    id.UserID
	MACAddress string
	IPAddress  string
}

// Observation is one raw device record from a client scan.
type Observation struct {
	MACAddress string     `json:"mac_address"`
	IPAddress  string     `json:"ip_address"`
	Name       string     `json:"name"`
	DeviceType DeviceType `json:"device_type"`
}

// Empty reports whether the observation carries no usable identity.
func (o Observation) Empty() bool {
	return o.MACAddress == "" && o.IPAddress == ""
}

// IdentityKey derives the registry matching key for the observation.
// The MAC wins when present; otherwise the IP identifies the device and the
// MAC is forced empty.
func (o Observation) IdentityKey(ownerID id.UserID) Key {
	if o.MACAddress != "" {
		return Key{OwnerID: ownerID, MACAddress: o.MACAddress}
	}
	return Key{OwnerID: ownerID, IPAddress: o.IPAddress}
}

// ScanLog is one submitted network scan, kept verbatim for later
// inspection.
type ScanLog struct {
	ID           id.ScanID       `json:"id"`
	OwnerID      id.UserID       `json:"-"`
	NetworkSSID  string          `json:"network_ssid"`
	NetworkBSSID string          `json:"network_bssid"`
	ClientInfo   string          `json:"client_info"`
	Payload      json.RawMessage `json:"payload"`
	CreatedAt    time.Time       `json:"created_at"`
}

// SubmitScanRequest is the payload for POST /network/scans.
type SubmitScanRequest struct {
	NetworkSSID  string        `json:"network_ssid"`
	NetworkBSSID string        `json:"network_bssid"`
	Devices      []Observation `json:"devices"`
}

// SubmitScanResult pairs the stored scan log with the devices the scan
// created or refreshed, in processing order.
type SubmitScanResult struct {
	Scan    *ScanLog  `json:"scan"`
	Devices []*Device `json:"devices"`
}
