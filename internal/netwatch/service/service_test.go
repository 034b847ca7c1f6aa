package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"antygravity/internal/netwatch/models"
	"antygravity/internal/netwatch/registry"
	deviceStore "antygravity/internal/netwatch/store/device"
	scanStore "antygravity/internal/netwatch/store/scanlog"
	id "antygravity/pkg/domain"
	dErrors "antygravity/pkg/domain-errors"
	"antygravity/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	devices *deviceStore.InMemoryStore
	scans   *scanStore.InMemoryStore
	service *Service
	ownerID id.UserID
	now     time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.devices = deviceStore.NewInMemoryStore()
	s.scans = scanStore.NewInMemoryStore()
	reconciler := registry.NewReconciler(s.devices, logger, nil)
	s.service = NewService(s.devices, s.scans, reconciler, logger)
	s.ownerID = id.UserID(uuid.New())
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *ServiceSuite) ctx() context.Context {
	ctx := requestcontext.WithTime(context.Background(), s.now)
	return requestcontext.WithClientMetadata(ctx, "203.0.113.7",
		"Mozilla/5.0 (Linux; Android 14) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Mobile Safari/537.36")
}

func (s *ServiceSuite) TestSubmitScan_RecordsLogAndDevices() {
	result, err := s.service.SubmitScan(s.ctx(), s.ownerID, models.SubmitScanRequest{
		NetworkSSID:  "HomeNet",
		NetworkBSSID: "aa:bb:cc:dd:ee:ff",
		Devices: []models.Observation{
			{MACAddress: "AA:BB", IPAddress: "1.2.3.4", Name: "tv", DeviceType: models.DeviceTV},
			{IPAddress: "1.2.3.5"},
		},
	})
	require.NoError(s.T(), err)
	require.NotNil(s.T(), result)

	assert.Equal(s.T(), "HomeNet", result.Scan.NetworkSSID)
	assert.Equal(s.T(), s.now, result.Scan.CreatedAt)
	assert.NotEmpty(s.T(), result.Scan.ClientInfo)
	require.Len(s.T(), result.Devices, 2)
	assert.Equal(s.T(), models.DeviceTV, result.Devices[0].Type)
	assert.Equal(s.T(), models.DeviceUnknown, result.Devices[1].Type)

	var payload models.SubmitScanRequest
	require.NoError(s.T(), json.Unmarshal(result.Scan.Payload, &payload))
	assert.Len(s.T(), payload.Devices, 2)

	scans, err := s.scans.ListByOwner(context.Background(), s.ownerID)
	require.NoError(s.T(), err)
	require.Len(s.T(), scans, 1)
	assert.Equal(s.T(), result.Scan.ID, scans[0].ID)
}

func (s *ServiceSuite) TestSubmitScan_EmptyDeviceListStillLogs() {
	result, err := s.service.SubmitScan(s.ctx(), s.ownerID, models.SubmitScanRequest{
		NetworkSSID: "HomeNet",
	})
	require.NoError(s.T(), err)
	assert.Empty(s.T(), result.Devices)

	scans, err := s.scans.ListByOwner(context.Background(), s.ownerID)
	require.NoError(s.T(), err)
	assert.Len(s.T(), scans, 1)
}

func (s *ServiceSuite) TestListDevices_MostRecentFirst() {
	_, err := s.service.SubmitScan(s.ctx(), s.ownerID, models.SubmitScanRequest{
		Devices: []models.Observation{{MACAddress: "AA:BB"}},
	})
	require.NoError(s.T(), err)

	laterCtx := requestcontext.WithTime(context.Background(), s.now.Add(time.Hour))
	_, err = s.service.SubmitScan(laterCtx, s.ownerID, models.SubmitScanRequest{
		Devices: []models.Observation{{MACAddress: "CC:DD"}},
	})
	require.NoError(s.T(), err)

	devices, err := s.service.ListDevices(context.Background(), s.ownerID)
	require.NoError(s.T(), err)
	require.Len(s.T(), devices, 2)
	assert.Equal(s.T(), "CC:DD", devices[0].MACAddress)
}

func (s *ServiceSuite) submitOneDevice() *models.Device {
	result, err := s.service.SubmitScan(s.ctx(), s.ownerID, models.SubmitScanRequest{
		Devices: []models.Observation{{MACAddress: "AA:BB", IPAddress: "1.2.3.4"}},
	})
	require.NoError(s.T(), err)
	require.Len(s.T(), result.Devices, 1)
	return result.Devices[0]
}

func (s *ServiceSuite) TestTrustStateMachine() {
	device := s.submitOneDevice()
	ctx := context.Background()

	trusted, err := s.service.MarkTrusted(ctx, s.ownerID, device.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), trusted.IsTrusted)
	assert.False(s.T(), trusted.IsBlocked)

	// Blocking clears trusted.
	blocked, err := s.service.MarkBlocked(ctx, s.ownerID, device.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), blocked.IsBlocked)
	assert.False(s.T(), blocked.IsTrusted)

	// Idempotent: blocking again is a no-op with the same result.
	again, err := s.service.MarkBlocked(ctx, s.ownerID, device.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), again.IsBlocked)
	assert.False(s.T(), again.IsTrusted)

	neutral, err := s.service.Unmark(ctx, s.ownerID, device.ID)
	require.NoError(s.T(), err)
	assert.False(s.T(), neutral.IsTrusted)
	assert.False(s.T(), neutral.IsBlocked)
}

func (s *ServiceSuite) TestTrustFlagsSurviveReconciliation() {
	device := s.submitOneDevice()

	_, err := s.service.MarkTrusted(context.Background(), s.ownerID, device.ID)
	require.NoError(s.T(), err)

	result, err := s.service.SubmitScan(s.ctx(), s.ownerID, models.SubmitScanRequest{
		Devices: []models.Observation{{MACAddress: "AA:BB", IPAddress: "9.9.9.9"}},
	})
	require.NoError(s.T(), err)
	require.Len(s.T(), result.Devices, 1)
	assert.True(s.T(), result.Devices[0].IsTrusted)
	assert.Equal(s.T(), "9.9.9.9", result.Devices[0].IPAddress)
}

func (s *ServiceSuite) TestTransition_UnknownDevice() {
	_, err := s.service.MarkTrusted(context.Background(), s.ownerID, id.DeviceID(uuid.New()))
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.Is(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestTransition_ForeignDeviceReadsAsNotFound() {
	device := s.submitOneDevice()

	stranger := id.UserID(uuid.New())
	_, err := s.service.MarkBlocked(context.Background(), stranger, device.ID)
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.Is(err, dErrors.CodeNotFound))

	// The owner's device is untouched.
	current, err := s.devices.FindByID(context.Background(), device.ID)
	require.NoError(s.T(), err)
	assert.False(s.T(), current.IsBlocked)
}
