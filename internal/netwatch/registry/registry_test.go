package registry

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"antygravity/internal/netwatch/models"
	deviceStore "antygravity/internal/netwatch/store/device"
	id "antygravity/pkg/domain"
)

type ReconcilerSuite struct {
	suite.Suite
	store      *deviceStore.InMemoryStore
	reconciler *Reconciler
	ownerID    id.UserID
	observedAt time.Time
}

func TestReconcilerSuite(t *testing.T) {
	suite.Run(t, new(ReconcilerSuite))
}

func (s *ReconcilerSuite) SetupTest() {
	s.store = deviceStore.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.reconciler = NewReconciler(s.store, logger, nil)
	s.ownerID = id.UserID(uuid.New())
	s.observedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *ReconcilerSuite) reconcile(obs []models.Observation, at time.Time) []*models.Device {
	devices, err := s.reconciler.Reconcile(context.Background(), s.ownerID, obs, at)
	require.NoError(s.T(), err)
	return devices
}

func (s *ReconcilerSuite) TestCreatesDeviceOnFirstObservation() {
	devices := s.reconcile([]models.Observation{
		{MACAddress: "AA:BB", IPAddress: "1.2.3.4"},
	}, s.observedAt)

	require.Len(s.T(), devices, 1)
	d := devices[0]
	assert.Equal(s.T(), "AA:BB", d.MACAddress)
	assert.Equal(s.T(), "1.2.3.4", d.IPAddress)
	assert.Equal(s.T(), models.DeviceUnknown, d.Type)
	assert.Equal(s.T(), s.observedAt, d.FirstSeenAt)
	assert.Equal(s.T(), s.observedAt, d.LastSeenAt)
	assert.False(s.T(), d.IsTrusted)
	assert.False(s.T(), d.IsBlocked)
}

func (s *ReconcilerSuite) TestCreateDefaultsIPWhenAbsent() {
	devices := s.reconcile([]models.Observation{
		{MACAddress: "AA:BB", Name: "printer"},
	}, s.observedAt)

	require.Len(s.T(), devices, 1)
	assert.Equal(s.T(), "0.0.0.0", devices[0].IPAddress)
	assert.Equal(s.T(), "printer", devices[0].Name)
}

func (s *ReconcilerSuite) TestRepeatScanAdvancesLastSeenOnly() {
	first := s.reconcile([]models.Observation{
		{MACAddress: "AA:BB", IPAddress: "1.2.3.4"},
	}, s.observedAt)
	require.Len(s.T(), first, 1)

	later := s.observedAt.Add(time.Hour)
	second := s.reconcile([]models.Observation{
		{MACAddress: "AA:BB", IPAddress: "1.2.3.4"},
	}, later)
	require.Len(s.T(), second, 1)

	d := second[0]
	assert.Equal(s.T(), first[0].ID, d.ID)
	assert.Equal(s.T(), s.observedAt, d.FirstSeenAt)
	assert.Equal(s.T(), later, d.LastSeenAt)
}

func (s *ReconcilerSuite) TestUpdateKeepsPriorFieldsWhenAbsent() {
	s.reconcile([]models.Observation{
		{MACAddress: "AA:BB", IPAddress: "1.2.3.4", Name: "tv", DeviceType: models.DeviceTV},
	}, s.observedAt)

	devices := s.reconcile([]models.Observation{
		{MACAddress: "AA:BB"},
	}, s.observedAt.Add(time.Minute))

	require.Len(s.T(), devices, 1)
	d := devices[0]
	assert.Equal(s.T(), "1.2.3.4", d.IPAddress)
	assert.Equal(s.T(), "tv", d.Name)
	assert.Equal(s.T(), models.DeviceTV, d.Type)
}

func (s *ReconcilerSuite) TestUpdateReplacesSuppliedFields() {
	s.reconcile([]models.Observation{
		{MACAddress: "AA:BB", IPAddress: "1.2.3.4", Name: "old"},
	}, s.observedAt)

	devices := s.reconcile([]models.Observation{
		{MACAddress: "AA:BB", IPAddress: "5.6.7.8", Name: "new", DeviceType: models.DeviceLaptop},
	}, s.observedAt.Add(time.Minute))

	require.Len(s.T(), devices, 1)
	d := devices[0]
	assert.Equal(s.T(), "5.6.7.8", d.IPAddress)
	assert.Equal(s.T(), "new", d.Name)
	assert.Equal(s.T(), models.DeviceLaptop, d.Type)
}

func (s *ReconcilerSuite) TestIPOnlyObservationsDedupeByIP() {
	s.reconcile([]models.Observation{
		{IPAddress: "1.2.3.4", Name: "first"},
	}, s.observedAt)

	devices := s.reconcile([]models.Observation{
		{IPAddress: "1.2.3.4", Name: "second"},
	}, s.observedAt.Add(time.Minute))

	require.Len(s.T(), devices, 1)
	assert.Equal(s.T(), "second", devices[0].Name)

	all, err := s.store.ListByOwner(context.Background(), s.ownerID)
	require.NoError(s.T(), err)
	require.Len(s.T(), all, 1)
	assert.Empty(s.T(), all[0].MACAddress)
}

func (s *ReconcilerSuite) TestSkipsObservationWithoutIdentity() {
	devices := s.reconcile([]models.Observation{
		{Name: "ghost"},
		{MACAddress: "AA:BB"},
	}, s.observedAt)

	require.Len(s.T(), devices, 1)
	assert.Equal(s.T(), "AA:BB", devices[0].MACAddress)
}

func (s *ReconcilerSuite) TestDuplicateKeyInBatchLastWriteWins() {
	devices := s.reconcile([]models.Observation{
		{MACAddress: "AA:BB", Name: "first"},
		{MACAddress: "AA:BB", Name: "second"},
	}, s.observedAt)

	// Both observations apply and are returned in processing order.
	require.Len(s.T(), devices, 2)
	assert.Equal(s.T(), devices[0].ID, devices[1].ID)
	assert.Equal(s.T(), "second", devices[1].Name)

	all, err := s.store.ListByOwner(context.Background(), s.ownerID)
	require.NoError(s.T(), err)
	require.Len(s.T(), all, 1)
	assert.Equal(s.T(), "second", all[0].Name)
}

func (s *ReconcilerSuite) TestReconciliationNeverTouchesTrustFlags() {
	created := s.reconcile([]models.Observation{
		{MACAddress: "AA:BB", IPAddress: "1.2.3.4"},
	}, s.observedAt)
	require.Len(s.T(), created, 1)

	_, err := s.store.Execute(context.Background(), created[0].ID,
		func(*models.Device) error { return nil },
		func(d *models.Device) { d.MarkTrusted() },
	)
	require.NoError(s.T(), err)

	devices := s.reconcile([]models.Observation{
		{MACAddress: "AA:BB", IPAddress: "9.9.9.9"},
	}, s.observedAt.Add(time.Minute))

	require.Len(s.T(), devices, 1)
	assert.True(s.T(), devices[0].IsTrusted)
	assert.False(s.T(), devices[0].IsBlocked)
}

func (s *ReconcilerSuite) TestOwnersAreIsolated() {
	s.reconcile([]models.Observation{
		{MACAddress: "AA:BB"},
	}, s.observedAt)

	otherOwner := id.UserID(uuid.New())
	devices, err := s.reconciler.Reconcile(context.Background(), otherOwner,
		[]models.Observation{{MACAddress: "AA:BB"}}, s.observedAt)
	require.NoError(s.T(), err)
	require.Len(s.T(), devices, 1)

	mine, err := s.store.ListByOwner(context.Background(), s.ownerID)
	require.NoError(s.T(), err)
	theirs, err2 := s.store.ListByOwner(context.Background(), otherOwner)
	require.NoError(s.T(), err2)
	assert.Len(s.T(), mine, 1)
	assert.Len(s.T(), theirs, 1)
	assert.NotEqual(s.T(), mine[0].ID, theirs[0].ID)
}
