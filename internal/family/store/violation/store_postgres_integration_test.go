//go:build integration

package violation_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	authmodels "antygravity/internal/auth/models"
	userstore "antygravity/internal/auth/store/user"
	"antygravity/internal/family/models"
	"antygravity/internal/family/store/child"
	"antygravity/internal/family/store/rule"
	"antygravity/internal/family/store/violation"
	id "antygravity/pkg/domain"
	"antygravity/pkg/testutil/containers"
)

// PostgresStoreSuite exercises the violation store against real FK
// constraints: every violation needs a user, a child, and a rule behind it.
type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	users    *userstore.PostgresStore
	children *child.PostgresStore
	rules    *rule.PostgresStore
	store    *violation.PostgresStore

	parentID id.UserID
	ruleID   id.RuleID
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.users = userstore.NewPostgresStore(s.postgres.DB)
	s.children = child.NewPostgresStore(s.postgres.DB)
	s.rules = rule.NewPostgresStore(s.postgres.DB)
	s.store = violation.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	s.postgres.Terminate(context.Background())
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "rule_violations", "parental_rules", "children", "users"))

	now := time.Now().UTC().Truncate(time.Microsecond)
	s.parentID = id.UserID(uuid.New())
	s.ruleID = id.RuleID{}
	_, err := s.users.Create(ctx, &authmodels.User{
		ID:        s.parentID,
		Email:     "violations@example.com",
		FullName:  "Pat Parent",
		IsParent:  true,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	s.Require().NoError(err)
}

// seedChild creates a child for the suite parent plus one BLOCK_APP rule on
// the first call so violations have something to reference.
func (s *PostgresStoreSuite) seedChild(name string) id.ChildID {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	childID := id.ChildID(uuid.New())
	_, err := s.children.Create(ctx, &models.ChildProfile{
		ID:          childID,
		UserID:      s.parentID,
		Name:        name,
		Age:         9,
		AvatarColor: models.DefaultAvatarColor,
		CreatedAt:   now,
	})
	s.Require().NoError(err)

	if s.ruleID.IsNil() {
		s.ruleID = id.RuleID(uuid.New())
		_, err = s.rules.Create(ctx, &models.ParentalRule{
			ID:             s.ruleID,
			ParentID:       s.parentID,
			ChildID:        childID,
			RuleType:       models.RuleBlockApp,
			AppPackageName: "com.example.game",
			IsActive:       true,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		s.Require().NoError(err)
	}
	return childID
}

func (s *PostgresStoreSuite) record(childID id.ChildID, occurredAt time.Time) *models.RuleViolation {
	created, err := s.store.Create(context.Background(), &models.RuleViolation{
		ID:          id.ViolationID(uuid.New()),
		ChildID:     childID,
		RuleID:      s.ruleID,
		Description: "opened blocked app",
		OccurredAt:  occurredAt,
	})
	s.Require().NoError(err)
	return created
}

func (s *PostgresStoreSuite) TestListByChildrenOrdersNewestFirst() {
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	childID := s.seedChild("Mia")

	oldest := s.record(childID, base)
	newest := s.record(childID, base.Add(2*time.Hour))
	middle := s.record(childID, base.Add(time.Hour))

	listed, err := s.store.ListByChildren(context.Background(), []id.ChildID{childID}, models.ViolationFilter{})
	s.Require().NoError(err)
	s.Require().Len(listed, 3)
	s.Equal(newest.ID, listed[0].ID)
	s.Equal(middle.ID, listed[1].ID)
	s.Equal(oldest.ID, listed[2].ID)
}

func (s *PostgresStoreSuite) TestListByChildrenScopesToGivenSet() {
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	firstChild := s.seedChild("Mia")
	secondChild := s.seedChild("Leo")

	s.record(firstChild, base)
	wanted := s.record(secondChild, base.Add(time.Minute))

	listed, err := s.store.ListByChildren(context.Background(), []id.ChildID{secondChild}, models.ViolationFilter{})
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal(wanted.ID, listed[0].ID)
	s.Equal(secondChild, listed[0].ChildID)

	both, err := s.store.ListByChildren(context.Background(), []id.ChildID{firstChild, secondChild}, models.ViolationFilter{})
	s.Require().NoError(err)
	s.Len(both, 2)
}

func (s *PostgresStoreSuite) TestListByChildrenAppliesTimeWindow() {
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	childID := s.seedChild("Mia")

	s.record(childID, base.Add(-time.Hour))
	inside := s.record(childID, base.Add(30*time.Minute))
	s.record(childID, base.Add(2*time.Hour))

	listed, err := s.store.ListByChildren(context.Background(), []id.ChildID{childID}, models.ViolationFilter{
		Start: base,
		End:   base.Add(time.Hour),
	})
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal(inside.ID, listed[0].ID)
}

func (s *PostgresStoreSuite) TestListByChildrenEmptyInput() {
	listed, err := s.store.ListByChildren(context.Background(), nil, models.ViolationFilter{})
	s.NoError(err)
	s.Nil(listed)
}
