package roster

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rzclan/warbot/internal/dependencies/mocks"
	"github.com/rzclan/warbot/internal/model"
	"github.com/rzclan/warbot/internal/storage/memory"
	"github.com/rzclan/warbot/internal/testutil"
)

type RosterSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestRosterSuite(t *testing.T) {
	suite.Run(t, new(RosterSuite))
}

func (s *RosterSuite) SetupTest() {
	s.storage = memory.New()
	// a Thursday
	s.clock = &mocks.MockClock{CurrentTime: time.Date(2025, 7, 3, 15, 0, 0, 0, time.UTC)}
	s.service = New(testutil.NopLogger(), s.storage, s.clock)
	s.ctx = context.Background()
}

func (s *RosterSuite) TestAddPlayerSelfService() {
	player, err := s.service.AddPlayer(s.ctx, "5511@s.whatsapp.net", "Ana")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("5511@s.whatsapp.net"), player.ID)
	s.Equal("ana", player.NameLower)
	s.Equal([model.WarDays]int{0, 0, 0, 0}, player.DailyPoints)
	s.Zero(player.Warnings)

	stored, err := s.storage.GetPlayerByWaID(s.ctx, "5511@s.whatsapp.net")
	s.Require().NoError(err)
	s.Equal("Ana", stored.Name)
}

func (s *RosterSuite) TestAddPlayerWithoutJIDGetsGeneratedID() {
	player, err := s.service.AddPlayer(s.ctx, "", "Bruno")
	s.Require().NoError(err)
	s.NotEmpty(player.ID)
	s.Empty(player.WhatsappID)
}

func (s *RosterSuite) TestAddPlayerSeedsPastDaysOnSaturday() {
	s.clock.Set(time.Date(2025, 7, 5, 15, 0, 0, 0, time.UTC)) // Saturday

	player, err := s.service.AddPlayer(s.ctx, "1@s", "Ana")
	s.Require().NoError(err)
	s.Equal([model.WarDays]int{-1, -1, 0, 0}, player.DailyPoints)
}

func (s *RosterSuite) TestAddPlayerDuplicateName() {
	_, err := s.service.AddPlayer(s.ctx, "1@s", "Ana")
	s.Require().NoError(err)

	_, err = s.service.AddPlayer(s.ctx, "2@s", "ANA")
	s.ErrorIs(err, model.ErrNameTaken)
}

func (s *RosterSuite) TestRename() {
	player, err := s.service.AddPlayer(s.ctx, "1@s", "Ana")
	s.Require().NoError(err)
	_, err = s.service.AddPlayer(s.ctx, "2@s", "Bruno")
	s.Require().NoError(err)

	s.ErrorIs(s.service.Rename(s.ctx, player, "bruno"), model.ErrNameTaken)

	s.Require().NoError(s.service.Rename(s.ctx, player, "Aninha"))
	stored, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal("Aninha", stored.Name)
	s.Equal("aninha", stored.NameLower)
}

func (s *RosterSuite) TestApplyStat() {
	player, err := s.service.AddPlayer(s.ctx, "1@s", "Ana")
	s.Require().NoError(err)

	s.Require().NoError(s.service.ApplyStat(s.ctx, player, model.StatWar, 980, 0))
	s.Require().NoError(s.service.ApplyStat(s.ctx, player, model.StatNaval, 8000, 0))
	s.ErrorIs(s.service.ApplyStat(s.ctx, player, model.StatKingTower, 0, 0), model.ErrInvalidValue)

	stored, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(980, stored.DailyPoints[0])
	s.Equal(8000, stored.NavalDefensePoints)
}

func (s *RosterSuite) TestBackupRoundTrip() {
	_, err := s.service.AddPlayer(s.ctx, "1@s", "Ana")
	s.Require().NoError(err)

	s.Require().NoError(s.service.CreateBackup(s.ctx))

	// wipe and restore
	s.Require().NoError(s.storage.ReplaceAllPlayers(s.ctx, nil))
	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Empty(players)

	restored, err := s.service.RestoreBackup(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, restored)

	players, err = s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Len(players, 1)
}

func (s *RosterSuite) TestRestoreBackupMissing() {
	_, err := s.service.RestoreBackup(s.ctx)
	s.ErrorIs(err, model.ErrBackupNotFound)
}

func (s *RosterSuite) TestChampions() {
	ana, err := s.service.AddPlayer(s.ctx, "1@s", "Ana")
	s.Require().NoError(err)
	bruno, err := s.service.AddPlayer(s.ctx, "2@s", "Bruno")
	s.Require().NoError(err)
	_, err = s.service.AddPlayer(s.ctx, "3@s", "Carlos")
	s.Require().NoError(err)

	ana.DailyPoints = [model.WarDays]int{980, 700, 0, 0}
	bruno.DailyPoints = [model.WarDays]int{880, 800, -1, -1}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, ana))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, bruno))

	champions, best, err := s.service.Champions(s.ctx)
	s.Require().NoError(err)
	s.Equal(1680, best)
	s.Require().Len(champions, 2)
}

func (s *RosterSuite) TestChampionsNobodyScored() {
	_, err := s.service.AddPlayer(s.ctx, "1@s", "Ana")
	s.Require().NoError(err)

	champions, best, err := s.service.Champions(s.ctx)
	s.Require().NoError(err)
	s.Zero(best)
	s.Empty(champions)
}
