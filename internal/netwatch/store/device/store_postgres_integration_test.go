//go:build integration

package device_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"antygravity/internal/netwatch/models"
	"antygravity/internal/netwatch/store/device"
	id "antygravity/pkg/domain"
	"antygravity/pkg/platform/sentinel"
	"antygravity/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *device.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = device.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	s.postgres.Terminate(context.Background())
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "devices"))
}

func newTestDevice(ownerID id.UserID, mac, ip string) *models.Device {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Device{
		ID:          id.DeviceID(uuid.New()),
		OwnerID:     ownerID,
		MACAddress:  mac,
		IPAddress:   ip,
		Type:        models.DeviceUnknown,
		FirstSeenAt: now,
		LastSeenAt:  now,
	}
}

// TestConcurrentCreateSameKey verifies the partial unique index lets exactly
// one concurrent create win for a shared identity key.
func (s *PostgresStoreSuite) TestConcurrentCreateSameKey() {
	ctx := context.Background()
	ownerID := id.UserID(uuid.New())
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := s.store.Create(ctx, newTestDevice(ownerID, "AA:BB:CC:DD:EE:FF", "1.2.3.4"))
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrConflict) {
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one create should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load(), "all others should conflict")

	found, err := s.store.FindByKey(ctx, models.Key{OwnerID: ownerID, MACAddress: "AA:BB:CC:DD:EE:FF"})
	s.Require().NoError(err)
	s.Equal("AA:BB:CC:DD:EE:FF", found.MACAddress)
}

// TestIPKeyOnlyAppliesToMACLessRows verifies a MAC-keyed row and an IP-keyed
// row can share an IP without conflicting.
func (s *PostgresStoreSuite) TestIPKeyOnlyAppliesToMACLessRows() {
	ctx := context.Background()
	ownerID := id.UserID(uuid.New())

	_, err := s.store.Create(ctx, newTestDevice(ownerID, "AA:BB:CC:DD:EE:FF", "1.2.3.4"))
	s.Require().NoError(err)

	// Same IP without a MAC is a different identity key.
	macless, err := s.store.Create(ctx, newTestDevice(ownerID, "", "1.2.3.4"))
	s.Require().NoError(err)

	// But a second MAC-less row with that IP conflicts.
	_, err = s.store.Create(ctx, newTestDevice(ownerID, "", "1.2.3.4"))
	s.ErrorIs(err, sentinel.ErrConflict)

	found, err := s.store.FindByKey(ctx, models.Key{OwnerID: ownerID, IPAddress: "1.2.3.4"})
	s.Require().NoError(err)
	s.Equal(macless.ID, found.ID)
}

func (s *PostgresStoreSuite) TestUpdateRoundTrip() {
	ctx := context.Background()
	ownerID := id.UserID(uuid.New())

	created, err := s.store.Create(ctx, newTestDevice(ownerID, "AA:BB:CC:DD:EE:FF", "1.2.3.4"))
	s.Require().NoError(err)

	created.Name = "living room tv"
	created.IPAddress = "5.6.7.8"
	created.Type = models.DeviceTV
	created.LastSeenAt = created.LastSeenAt.Add(time.Hour)

	updated, err := s.store.Update(ctx, created)
	s.Require().NoError(err)
	s.Equal("living room tv", updated.Name)
	s.Equal("5.6.7.8", updated.IPAddress)
	s.Equal(models.DeviceTV, updated.Type)
	s.Equal(created.FirstSeenAt, updated.FirstSeenAt)

	// Update never moves trust flags.
	s.False(updated.IsTrusted)
	s.False(updated.IsBlocked)
}

// TestConcurrentExecuteTransitions verifies trust transitions serialize on
// the row lock and the flags stay mutually exclusive.
func (s *PostgresStoreSuite) TestConcurrentExecuteTransitions() {
	ctx := context.Background()
	ownerID := id.UserID(uuid.New())

	created, err := s.store.Create(ctx, newTestDevice(ownerID, "AA:BB:CC:DD:EE:FF", "1.2.3.4"))
	s.Require().NoError(err)

	const goroutines = 30
	var wg sync.WaitGroup
	var execErrors atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		blocked := i%2 == 0
		go func() {
			defer wg.Done()
			_, err := s.store.Execute(ctx, created.ID,
				func(*models.Device) error { return nil },
				func(d *models.Device) {
					if blocked {
						d.MarkBlocked()
					} else {
						d.MarkTrusted()
					}
				},
			)
			if err != nil {
				execErrors.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(0), execErrors.Load())

	current, err := s.store.FindByID(ctx, created.ID)
	s.Require().NoError(err)
	s.False(current.IsTrusted && current.IsBlocked)
}

func (s *PostgresStoreSuite) TestNotFoundErrors() {
	ctx := context.Background()

	_, err := s.store.FindByID(ctx, id.DeviceID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.FindByKey(ctx, models.Key{OwnerID: id.UserID(uuid.New()), MACAddress: "FF:FF"})
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.Update(ctx, newTestDevice(id.UserID(uuid.New()), "AA:AA", "1.1.1.1"))
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.Execute(ctx, id.DeviceID(uuid.New()),
		func(*models.Device) error { return nil },
		func(*models.Device) {},
	)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListByOwnerOrdering() {
	ctx := context.Background()
	ownerID := id.UserID(uuid.New())

	older := newTestDevice(ownerID, "AA:AA", "1.1.1.1")
	newer := newTestDevice(ownerID, "BB:BB", "2.2.2.2")
	newer.LastSeenAt = older.LastSeenAt.Add(time.Hour)

	_, err := s.store.Create(ctx, older)
	s.Require().NoError(err)
	_, err = s.store.Create(ctx, newer)
	s.Require().NoError(err)
	_, err = s.store.Create(ctx, newTestDevice(id.UserID(uuid.New()), "CC:CC", "3.3.3.3"))
	s.Require().NoError(err)

	devices, err := s.store.ListByOwner(ctx, ownerID)
	s.Require().NoError(err)
	s.Require().Len(devices, 2)
	s.Equal("BB:BB", devices[0].MACAddress)
	s.Equal("AA:AA", devices[1].MACAddress)
}
