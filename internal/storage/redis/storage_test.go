package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/zhuravskayyar/cardastica-server/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) record(id string, power int) *model.PresenceRecord {
	return &model.PresenceRecord{
		PlayerID: model.PlayerID(id),
		Name:     "Player " + id,
		LastSeen: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Power:    &power,
	}
}

// Presence tests

func (s *StorageSuite) TestSaveAndGetPresence() {
	s.Require().NoError(s.storage.SavePresence(s.ctx, s.record("p1", 1200)))

	got, err := s.storage.GetPresence(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p1"), got.PlayerID)
	s.Equal("Player p1", got.Name)
	s.Require().NotNil(got.Power)
	s.Equal(1200, *got.Power)
	s.True(got.LastSeen.Equal(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)))
}

func (s *StorageSuite) TestGetPresenceNotFound() {
	_, err := s.storage.GetPresence(s.ctx, "missing")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestSavePresenceOverwrites() {
	s.Require().NoError(s.storage.SavePresence(s.ctx, s.record("p1", 1200)))
	s.Require().NoError(s.storage.SavePresence(s.ctx, s.record("p1", 1500)))

	got, err := s.storage.GetPresence(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(1500, *got.Power)
}

func (s *StorageSuite) TestDeletePresence() {
	s.Require().NoError(s.storage.SavePresence(s.ctx, s.record("p1", 1200)))
	s.Require().NoError(s.storage.DeletePresence(s.ctx, "p1"))

	_, err := s.storage.GetPresence(s.ctx, "p1")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	records, err := s.storage.ListPresence(s.ctx)
	s.Require().NoError(err)
	s.Empty(records)
}

func (s *StorageSuite) TestDeletePresenceIsIdempotent() {
	s.NoError(s.storage.DeletePresence(s.ctx, "never-existed"))
}

func (s *StorageSuite) TestListPresence() {
	s.Require().NoError(s.storage.SavePresence(s.ctx, s.record("p1", 100)))
	s.Require().NoError(s.storage.SavePresence(s.ctx, s.record("p2", 200)))
	s.Require().NoError(s.storage.SavePresence(s.ctx, s.record("p3", 300)))

	records, err := s.storage.ListPresence(s.ctx)
	s.Require().NoError(err)
	s.Len(records, 3)
}

func (s *StorageSuite) TestListPresenceEmpty() {
	records, err := s.storage.ListPresence(s.ctx)
	s.Require().NoError(err)
	s.Empty(records)
}

func (s *StorageSuite) TestListPresenceDropsStaleIndexEntries() {
	s.Require().NoError(s.storage.SavePresence(s.ctx, s.record("p1", 100)))
	s.Require().NoError(s.storage.SavePresence(s.ctx, s.record("p2", 200)))

	// Simulate an expired value whose index entry survived
	s.mini.Del(presenceKey("p1"))

	records, err := s.storage.ListPresence(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(model.PlayerID("p2"), records[0].PlayerID)

	// The stale id is gone from the index on the next list
	records, err = s.storage.ListPresence(s.ctx)
	s.Require().NoError(err)
	s.Len(records, 1)
}

func (s *StorageSuite) TestPresenceRoundTripsProfile() {
	record := s.record("p1", 900)
	record.Profile = model.Profile{
		Version: model.ProfileVersion,
		Name:    "Player p1",
		Title:   "Novice",
		Avatar:  "assets/avatars/default.png",
		Level:   3,
		Ratings: model.Ratings{Deck: 900, League: "Gold"},
	}
	s.Require().NoError(s.storage.SavePresence(s.ctx, record))

	got, err := s.storage.GetPresence(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(record.Profile, got.Profile)
}

// Chat tests

func (s *StorageSuite) msg(text string, ts int64) model.ChatMessage {
	return model.ChatMessage{SenderName: "Alice", Text: text, SentAtMs: ts}
}

func (s *StorageSuite) TestAppendAndReadHistory() {
	s.Require().NoError(s.storage.AppendMessage(s.ctx, "global", s.msg("one", 1), 200))
	s.Require().NoError(s.storage.AppendMessage(s.ctx, "global", s.msg("two", 2), 200))

	history, err := s.storage.RoomHistory(s.ctx, "global", 50)
	s.Require().NoError(err)
	s.Require().Len(history, 2)
	s.Equal("one", history[0].Text)
	s.Equal("two", history[1].Text)
}

func (s *StorageSuite) TestHistoryUnknownRoomIsEmpty() {
	history, err := s.storage.RoomHistory(s.ctx, "nowhere", 50)
	s.Require().NoError(err)
	s.Empty(history)
}

func (s *StorageSuite) TestAppendTrimsToMaxLen() {
	for i := 1; i <= 10; i++ {
		s.Require().NoError(s.storage.AppendMessage(s.ctx, "global", s.msg(fmt.Sprintf("m%d", i), int64(i)), 5))
	}

	history, err := s.storage.RoomHistory(s.ctx, "global", 0)
	s.Require().NoError(err)
	s.Require().Len(history, 5)
	s.Equal("m6", history[0].Text)
	s.Equal("m10", history[4].Text)
}

func (s *StorageSuite) TestHistoryLimitReturnsMostRecent() {
	for i := 1; i <= 10; i++ {
		s.Require().NoError(s.storage.AppendMessage(s.ctx, "global", s.msg(fmt.Sprintf("m%d", i), int64(i)), 200))
	}

	history, err := s.storage.RoomHistory(s.ctx, "global", 3)
	s.Require().NoError(err)
	s.Require().Len(history, 3)
	s.Equal("m8", history[0].Text)
	s.Equal("m10", history[2].Text)
}

func (s *StorageSuite) TestRoomsAreIsolated() {
	s.Require().NoError(s.storage.AppendMessage(s.ctx, "alpha", s.msg("to alpha", 1), 200))
	s.Require().NoError(s.storage.AppendMessage(s.ctx, "beta", s.msg("to beta", 2), 200))

	history, err := s.storage.RoomHistory(s.ctx, "alpha", 50)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal("to alpha", history[0].Text)
}
