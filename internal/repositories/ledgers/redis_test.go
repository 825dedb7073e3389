package ledgers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KirkDiggler/ability-engine/internal/domain/actor"
	"github.com/KirkDiggler/ability-engine/internal/domain/ledger"
	dnderr "github.com/KirkDiggler/ability-engine/internal/errors"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisRepoTestSuite struct {
	suite.Suite
	mockClient *redis.Client
	mock       redismock.ClientMock
	repo       Repository
	ctx        context.Context
}

func (s *RedisRepoTestSuite) SetupTest() {
	s.mockClient, s.mock = redismock.NewClientMock()
	s.repo = NewRedis(s.mockClient)
	s.ctx = context.Background()
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func (s *RedisRepoTestSuite) chargeEntry(abilityID string, remaining int) *ledger.Entry {
	return &ledger.Entry{
		Key:              ledger.Key{OwnerID: "char-1", OwnerType: actor.OwnerCharacter, AbilityID: abilityID},
		RemainingCharges: intPtr(remaining),
		LastUsedAt:       testNow(),
		TimesUsed:        1,
	}
}

// stored returns the JSON the repository writes for entry at the next revision
func (s *RedisRepoTestSuite) stored(entry *ledger.Entry) string {
	next := entry.Clone()
	next.Revision++
	encoded, err := Encode(next)
	s.Require().NoError(err)
	return string(encoded)
}

func (s *RedisRepoTestSuite) TestSave() {
	entry := s.chargeEntry("light", 2)

	s.mock.ExpectWatch("ledger:character:char-1:light")
	s.mock.ExpectGet("ledger:character:char-1:light").RedisNil()
	s.mock.ExpectTxPipeline()
	s.mock.ExpectSet("ledger:character:char-1:light", s.stored(entry), 0).SetVal("OK")
	s.mock.ExpectSAdd("ledger_index:character:char-1", "light").SetVal(1)
	s.mock.ExpectSAdd("ledger:owners", "character:char-1").SetVal(1)
	s.mock.ExpectTxPipelineExec()

	s.Require().NoError(s.repo.Save(s.ctx, entry))
	s.Equal(int64(1), entry.Revision)
}

func (s *RedisRepoTestSuite) TestSave_UpdatesAtStoredRevision() {
	current := s.chargeEntry("light", 2)
	current.Revision = 4
	currentJSON, err := Encode(current)
	s.Require().NoError(err)

	entry := s.chargeEntry("light", 1)
	entry.Revision = 4

	s.mock.ExpectWatch("ledger:character:char-1:light")
	s.mock.ExpectGet("ledger:character:char-1:light").SetVal(string(currentJSON))
	s.mock.ExpectTxPipeline()
	s.mock.ExpectSet("ledger:character:char-1:light", s.stored(entry), 0).SetVal("OK")
	s.mock.ExpectSAdd("ledger_index:character:char-1", "light").SetVal(0)
	s.mock.ExpectSAdd("ledger:owners", "character:char-1").SetVal(0)
	s.mock.ExpectTxPipelineExec()

	s.Require().NoError(s.repo.Save(s.ctx, entry))
	s.Equal(int64(5), entry.Revision)
}

func (s *RedisRepoTestSuite) TestSave_StaleRevision() {
	current := s.chargeEntry("light", 0)
	current.Revision = 7
	currentJSON, err := Encode(current)
	s.Require().NoError(err)

	entry := s.chargeEntry("light", 2)
	entry.Revision = 6

	s.mock.ExpectWatch("ledger:character:char-1:light")
	s.mock.ExpectGet("ledger:character:char-1:light").SetVal(string(currentJSON))

	err = s.repo.Save(s.ctx, entry)
	s.True(dnderr.IsConflict(err))
	s.Equal(int64(6), entry.Revision)
}

func (s *RedisRepoTestSuite) TestSave_WatchedKeyChanged() {
	entry := s.chargeEntry("light", 2)

	s.mock.ExpectWatch("ledger:character:char-1:light")
	s.mock.ExpectGet("ledger:character:char-1:light").RedisNil()
	s.mock.ExpectTxPipeline()
	s.mock.ExpectSet("ledger:character:char-1:light", s.stored(entry), 0).SetVal("OK")
	s.mock.ExpectSAdd("ledger_index:character:char-1", "light").SetVal(1)
	s.mock.ExpectSAdd("ledger:owners", "character:char-1").SetVal(1)
	s.mock.ExpectTxPipelineExec().SetErr(redis.TxFailedErr)

	err := s.repo.Save(s.ctx, entry)
	s.True(dnderr.IsConflict(err))
	s.Zero(entry.Revision)
}

func (s *RedisRepoTestSuite) TestSave_DependencyError() {
	entry := s.chargeEntry("light", 2)

	s.mock.ExpectWatch("ledger:character:char-1:light").SetErr(errors.New("redis error"))

	err := s.repo.Save(s.ctx, entry)
	s.Equal(dnderr.CodeUnavailable, dnderr.GetCode(err))
}

func (s *RedisRepoTestSuite) TestSave_AbilityNamedLikeIndex() {
	entry := s.chargeEntry("abilities", 1)

	s.mock.ExpectWatch("ledger:character:char-1:abilities")
	s.mock.ExpectGet("ledger:character:char-1:abilities").RedisNil()
	s.mock.ExpectTxPipeline()
	s.mock.ExpectSet("ledger:character:char-1:abilities", s.stored(entry), 0).SetVal("OK")
	s.mock.ExpectSAdd("ledger_index:character:char-1", "abilities").SetVal(1)
	s.mock.ExpectSAdd("ledger:owners", "character:char-1").SetVal(1)
	s.mock.ExpectTxPipelineExec()

	s.NoError(s.repo.Save(s.ctx, entry))
}

func (s *RedisRepoTestSuite) TestDelete() {
	current := s.chargeEntry("light", 0)
	current.Revision = 3
	currentJSON, err := Encode(current)
	s.Require().NoError(err)

	s.mock.ExpectWatch("ledger:character:char-1:light")
	s.mock.ExpectGet("ledger:character:char-1:light").SetVal(string(currentJSON))
	s.mock.ExpectTxPipeline()
	s.mock.ExpectDel("ledger:character:char-1:light").SetVal(1)
	s.mock.ExpectSRem("ledger_index:character:char-1", "light").SetVal(1)
	s.mock.ExpectTxPipelineExec()

	s.NoError(s.repo.Delete(s.ctx, current.Key, 3))
}

func (s *RedisRepoTestSuite) TestDelete_StaleRevision() {
	current := s.chargeEntry("light", 0)
	current.Revision = 3
	currentJSON, err := Encode(current)
	s.Require().NoError(err)

	s.mock.ExpectWatch("ledger:character:char-1:light")
	s.mock.ExpectGet("ledger:character:char-1:light").SetVal(string(currentJSON))

	s.True(dnderr.IsConflict(s.repo.Delete(s.ctx, current.Key, 2)))
}

func (s *RedisRepoTestSuite) TestDelete_Missing() {
	key := ledger.Key{OwnerID: "char-1", OwnerType: actor.OwnerCharacter, AbilityID: "light"}

	s.mock.ExpectWatch("ledger:character:char-1:light")
	s.mock.ExpectGet("ledger:character:char-1:light").RedisNil()

	s.NoError(s.repo.Delete(s.ctx, key, 1))
}

func (s *RedisRepoTestSuite) TestSave_InputValidation() {
	s.Error(s.repo.Save(s.ctx, nil))
	s.Error(s.repo.Save(s.ctx, &ledger.Entry{Key: ledger.Key{OwnerType: actor.OwnerCharacter, AbilityID: "light"}}))
	s.True(dnderr.IsInvalidArgument(s.repo.Save(s.ctx, &ledger.Entry{
		Key: ledger.Key{OwnerID: "char-1:light", OwnerType: actor.OwnerCharacter, AbilityID: "x"},
	})))
}

func (s *RedisRepoTestSuite) TestGet() {
	entry := s.chargeEntry("light", 1)
	encoded, err := Encode(entry)
	s.Require().NoError(err)

	s.mock.ExpectGet("ledger:character:char-1:light").SetVal(string(encoded))

	got, err := s.repo.Get(s.ctx, entry.Key)
	s.Require().NoError(err)
	s.Equal(1, *got.RemainingCharges)
	s.True(entry.LastUsedAt.Equal(got.LastUsedAt))
}

func (s *RedisRepoTestSuite) TestGet_NotFound() {
	key := ledger.Key{OwnerID: "char-1", OwnerType: actor.OwnerCharacter, AbilityID: "recall"}
	s.mock.ExpectGet("ledger:character:char-1:recall").RedisNil()

	_, err := s.repo.Get(s.ctx, key)
	s.True(dnderr.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestGet_DependencyError() {
	key := ledger.Key{OwnerID: "char-1", OwnerType: actor.OwnerCharacter, AbilityID: "recall"}
	s.mock.ExpectGet("ledger:character:char-1:recall").SetErr(errors.New("connection reset"))

	_, err := s.repo.Get(s.ctx, key)
	s.Error(err)
	s.Equal(dnderr.CodeUnavailable, dnderr.GetCode(err))
}

func (s *RedisRepoTestSuite) TestGet_CorruptDocument() {
	key := ledger.Key{OwnerID: "char-1", OwnerType: actor.OwnerCharacter, AbilityID: "recall"}
	s.mock.ExpectGet("ledger:character:char-1:recall").SetVal("{not json")

	_, err := s.repo.Get(s.ctx, key)
	s.True(dnderr.IsDecode(err))
}

func (s *RedisRepoTestSuite) TestListByOwner() {
	light := s.chargeEntry("light", 0)
	lightJSON, err := Encode(light)
	s.Require().NoError(err)

	expires := testNow().Add(time.Minute)
	teleport := &ledger.Entry{
		Key:               ledger.Key{OwnerID: "char-1", OwnerType: actor.OwnerCharacter, AbilityID: "teleport"},
		CooldownExpiresAt: &expires,
		LastUsedAt:        testNow(),
		TimesUsed:         4,
	}
	teleportJSON, err := Encode(teleport)
	s.Require().NoError(err)

	s.mock.ExpectSMembers("ledger_index:character:char-1").SetVal([]string{"teleport", "recall", "light"})
	s.mock.ExpectMGet(
		"ledger:character:char-1:light",
		"ledger:character:char-1:recall",
		"ledger:character:char-1:teleport",
	).SetVal([]interface{}{string(lightJSON), nil, string(teleportJSON)})

	entries, err := s.repo.ListByOwner(s.ctx, ledger.Owner{ID: "char-1", Type: actor.OwnerCharacter})
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("light", entries[0].Key.AbilityID)
	s.Equal("teleport", entries[1].Key.AbilityID)
	s.Equal(4, entries[1].TimesUsed)
}

func (s *RedisRepoTestSuite) TestListByOwner_Empty() {
	s.mock.ExpectSMembers("ledger_index:character:char-2").SetVal([]string{})

	entries, err := s.repo.ListByOwner(s.ctx, ledger.Owner{ID: "char-2", Type: actor.OwnerCharacter})
	s.NoError(err)
	s.Empty(entries)
}

func (s *RedisRepoTestSuite) TestListOwners() {
	s.mock.ExpectSMembers("ledger:owners").SetVal([]string{"monster:ogre-9", "character:char-1", "garbage"})

	owners, err := s.repo.ListOwners(s.ctx)
	s.Require().NoError(err)
	s.Equal([]ledger.Owner{
		{ID: "char-1", Type: actor.OwnerCharacter},
		{ID: "ogre-9", Type: actor.OwnerMonster},
	}, owners)
}
