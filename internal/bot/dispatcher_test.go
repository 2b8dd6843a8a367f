package bot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rzclan/warbot/internal/config"
	"github.com/rzclan/warbot/internal/dependencies/mocks"
	"github.com/rzclan/warbot/internal/messaging"
	"github.com/rzclan/warbot/internal/model"
	"github.com/rzclan/warbot/internal/services/conversation"
	"github.com/rzclan/warbot/internal/services/resolver"
	"github.com/rzclan/warbot/internal/services/roster"
	"github.com/rzclan/warbot/internal/services/session"
	"github.com/rzclan/warbot/internal/services/warning"
	"github.com/rzclan/warbot/internal/storage/memory"
	"github.com/rzclan/warbot/internal/testutil"
)

const (
	groupID  = "clan@g.us"
	adminJID = "5500@s.whatsapp.net"
	userJID  = "5511@s.whatsapp.net"
)

type DispatcherSuite struct {
	suite.Suite
	storage    *memory.Storage
	client     *messaging.Recorder
	clock      *mocks.MockClock
	roster     *roster.Service
	dispatcher *Dispatcher
	ctx        context.Context
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherSuite))
}

func (s *DispatcherSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.storage = memory.New()
	s.client = messaging.NewRecorder()
	s.client.Groups[groupID] = []messaging.Member{
		{JID: adminJID, IsAdmin: true},
		{JID: userJID},
	}
	// a Thursday afternoon
	s.clock = &mocks.MockClock{CurrentTime: time.Date(2025, 7, 3, 15, 0, 0, 0, time.UTC)}

	cfg := &config.Config{
		AllowedGroupID:   groupID,
		LeaderJID:        adminJID,
		SearchTolerance:  3,
		SessionTimeout:   time.Minute,
		MinimumWarScore:  550,
		NavalThreshold:   5000,
		AdminCacheTTL:    30 * time.Second,
		PassiveCooldown:  time.Minute,
		RankingDivisions: []int{3000, 2500, 2000, 0},
	}

	sessions := session.NewStore(logger, cfg.SessionTimeout, nil)
	res := resolver.New(logger, s.storage, cfg.SearchTolerance)
	s.roster = roster.New(logger, s.storage, s.clock)
	warnings := warning.New(logger, s.storage, s.client, &mocks.MockRandom{}, cfg.LeaderJID, cfg.MinimumWarScore)
	conversations := conversation.New(logger, s.storage, s.client, s.clock, sessions, res, s.roster, warnings)

	var err error
	s.dispatcher, err = New(logger, cfg, s.storage, s.client, s.clock, conversations, res, s.roster, warnings)
	s.Require().NoError(err)
	s.ctx = context.Background()
}

func (s *DispatcherSuite) message(sender, text string) {
	s.dispatcher.HandleEvent(s.ctx, messaging.Event{
		Kind:     messaging.EventMessage,
		ChatID:   groupID,
		SenderID: sender,
		Text:     text,
	})
}

func (s *DispatcherSuite) lastText() string {
	last := s.client.LastSent()
	s.Require().NotNil(last)
	return last.Message.Text
}

func (s *DispatcherSuite) registerAna() *model.Player {
	player, err := s.roster.AddPlayer(s.ctx, userJID, "Ana")
	s.Require().NoError(err)
	return player
}

// Quick score shorthand

func (s *DispatcherSuite) TestParseQuickScore() {
	cases := []struct {
		input string
		want  quickEntry
		ok    bool
	}{
		{"/980", quickEntry{points: 980}, true},
		{"/980 sabado", quickEntry{points: 980, day: 2, hasDay: true}, true},
		{"/980 sexta-feira", quickEntry{points: 980, day: 1, hasDay: true}, true},
		{"/Mestre Yoda 980", quickEntry{name: "Mestre Yoda", points: 980}, true},
		{"/Mestre Yoda 980 sexta", quickEntry{name: "Mestre Yoda", points: 980, day: 1, hasDay: true}, true},
		{"/-5", quickEntry{}, false},
		{"/980 segunda", quickEntry{}, false},
		{"/comando", quickEntry{}, false},
		{"/", quickEntry{}, false},
	}
	for _, tc := range cases {
		got, ok := parseQuickScore(tc.input)
		s.Equal(tc.ok, ok, tc.input)
		if tc.ok {
			s.Equal(tc.want, got, tc.input)
		}
	}
}

func (s *DispatcherSuite) TestQuickScoreInfersCurrentDay() {
	s.registerAna()
	s.message(userJID, "/980")

	s.Contains(s.lastText(), "✅ *Guerra* de *Quinta-feira* registrada para *Ana*: 980 pontos.")
	player, err := s.storage.GetPlayerByWaID(s.ctx, userJID)
	s.Require().NoError(err)
	s.Equal(980, player.DailyPoints[0])
}

func (s *DispatcherSuite) TestQuickScoreExplicitDay() {
	s.registerAna()
	s.message(userJID, "/700 sabado")

	s.Contains(s.lastText(), "Sábado")
	player, err := s.storage.GetPlayerByWaID(s.ctx, userJID)
	s.Require().NoError(err)
	s.Equal(700, player.DailyPoints[2])
}

func (s *DispatcherSuite) TestQuickScoreAboveThresholdIsNaval() {
	s.registerAna()
	s.message(userJID, "/8000")

	s.Contains(s.lastText(), "✅ *Defesa Naval* registrada para *Ana*: 8000 pontos.")
	player, err := s.storage.GetPlayerByWaID(s.ctx, userJID)
	s.Require().NoError(err)
	s.Equal(8000, player.NavalDefensePoints)
	s.Equal(0, player.DailyPoints[0])
}

func (s *DispatcherSuite) TestQuickScoreUnregisteredSender() {
	s.message(userJID, "/980")
	s.Contains(s.lastText(), "❌ Seu número não está cadastrado.")
}

func (s *DispatcherSuite) TestQuickScoreOnBehalf() {
	s.registerAna()
	s.message(adminJID, "/Ana 600 sexta")

	s.Contains(s.lastText(), "Sexta-feira")
	player, err := s.storage.GetPlayerByWaID(s.ctx, userJID)
	s.Require().NoError(err)
	s.Equal(600, player.DailyPoints[1])
}

func (s *DispatcherSuite) TestQuickScoreUnknownName() {
	s.registerAna()
	s.message(adminJID, "/Fulano 700")
	s.Contains(s.lastText(), `Jogador "Fulano" não encontrado.`)
}

func (s *DispatcherSuite) TestQuickScoreClosedWeekWithoutDay() {
	s.registerAna()
	// a Tuesday
	s.clock.Set(time.Date(2025, 7, 8, 15, 0, 0, 0, time.UTC))
	s.message(userJID, "/980")
	s.Contains(s.lastText(), "Lançamento rápido sem dia só funciona durante os dias de guerra")
}

func (s *DispatcherSuite) TestQuickScoreEarlierDayRejected() {
	s.registerAna()
	// a Saturday
	s.clock.Set(time.Date(2025, 7, 5, 15, 0, 0, 0, time.UTC))
	s.message(userJID, "/980 quinta")

	s.Contains(s.lastText(), "❌ O prazo para registrar pontos de *Quinta-feira* já encerrou.")
	s.Contains(s.lastText(), "Hoje, para o bot, é *Sábado*.")
}

func (s *DispatcherSuite) TestQuickScoreGibberishIsSilent() {
	s.registerAna()
	s.client.Reset()
	s.message(userJID, "/abc def")
	s.Empty(s.client.Sent)
}

// Routing and the admin gate

func (s *DispatcherSuite) TestOtherGroupsIgnored() {
	s.registerAna()
	s.dispatcher.HandleEvent(s.ctx, messaging.Event{
		Kind:     messaging.EventMessage,
		ChatID:   "other@g.us",
		SenderID: userJID,
		Text:     "/me",
	})
	s.Empty(s.client.Sent)
}

func (s *DispatcherSuite) TestAdminCommandDeniedForMember() {
	s.registerAna()
	s.message(userJID, "/punir Ana")

	s.Equal("❌ Você não tem permissão para usar este comando.", s.lastText())
	player, err := s.storage.GetPlayerByWaID(s.ctx, userJID)
	s.Require().NoError(err)
	s.Zero(player.Warnings)
}

func (s *DispatcherSuite) TestAdminCommandAllowedForAdmin() {
	s.registerAna()
	s.message(adminJID, "/punir Ana")

	s.Contains(s.lastText(), "Advertência manual aplicada a *Ana*")
	player, err := s.storage.GetPlayerByWaID(s.ctx, userJID)
	s.Require().NoError(err)
	s.Equal(1, player.Warnings)
}

func (s *DispatcherSuite) TestMemberJoinedStartsWelcome() {
	s.dispatcher.HandleEvent(s.ctx, messaging.Event{
		Kind:      messaging.EventMemberJoined,
		ChatID:    groupID,
		JoinedJID: "5522@s.whatsapp.net",
	})
	s.Contains(s.lastText(), "bem-vindo(a)")
}

func (s *DispatcherSuite) TestSairCancelsConversation() {
	s.registerAna()
	s.message(userJID, "/lista")
	s.Contains(s.lastText(), "Lançar pontos para qual evento?")

	s.message(userJID, "/sair")
	s.Equal("Operação cancelada.", s.lastText())
}

func (s *DispatcherSuite) TestActiveConversationGetsTheMessage() {
	s.registerAna()
	s.message(userJID, "/lista")
	s.message(userJID, "2")
	s.Contains(s.lastText(), "Defesa Naval")
}

func (s *DispatcherSuite) TestRegistrationEndToEnd() {
	s.message(userJID, "/nome Ana")
	s.Contains(s.lastText(), "Nível XP")

	s.message(userJID, "50")
	s.message(userJID, "14")
	s.message(userJID, "7000")
	s.message(userJID, "3000")
	s.Contains(s.lastText(), "Cadastro concluído")

	player, err := s.storage.GetPlayerByWaID(s.ctx, userJID)
	s.Require().NoError(err)
	s.Equal("Ana", player.Name)
	s.Equal(3000, player.NavalDefensePoints)
}

// Read-only commands

func (s *DispatcherSuite) TestMeOwnProfile() {
	player := s.registerAna()
	player.DailyPoints[0] = 980
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	s.message(userJID, "/me")
	text := s.lastText()
	s.Contains(text, "👤 *Status de Batalha: Ana*")
	s.Contains(text, "✅ (980 pts)")
	s.Contains(text, "0/5 Advertências - *Limpa*")
}

func (s *DispatcherSuite) TestMeUnregistered() {
	s.registerAna()
	s.message("5599@s.whatsapp.net", "/me")
	s.Contains(s.lastText(), "Seu número de WhatsApp não está registrado")
}

func (s *DispatcherSuite) TestRankingDivisions() {
	totals := map[string]int{"Elite": 3200, "Forte": 2600, "Medio": 1800, "Zerado": 0}
	for name, total := range totals {
		p, err := s.roster.AddPlayer(s.ctx, "", name)
		s.Require().NoError(err)
		p.DailyPoints[0] = total
		s.Require().NoError(s.storage.SavePlayer(s.ctx, p))
	}

	s.message(userJID, "/ranking")
	text := s.lastText()
	s.Contains(text, "👑 *DIVISÃO DE ELITE (3000+)*\n• Elite: *3200 pts*")
	s.Contains(text, "🔥 *ALTO DESEMPENHO (2500+)*\n• Forte: *2600 pts*")
	s.Contains(text, "⚠️ *ZONA DE ATENÇÃO (0+)*\n• Medio: *1800 pts*")
	s.NotContains(text, "Zerado")
}

func (s *DispatcherSuite) TestRankingNobodyScored() {
	s.registerAna()
	s.message(userJID, "/ranking")
	s.Equal("Ninguém pontuou na guerra ainda.", s.lastText())
}

func (s *DispatcherSuite) TestStatusScoreboard() {
	player := s.registerAna()
	player.DailyPoints = [model.WarDays]int{980, 0, -1, -1}
	player.NavalDefensePoints = 8000
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	s.message(userJID, "/status")
	text := s.lastText()
	s.Contains(text, "*Ana*")
	s.Contains(text, "⚔️ Guerra: 980 | 0 | -1 | -1")
	s.Contains(text, "🛡️ Def. Naval: 8000")
}

func (s *DispatcherSuite) TestLembreteDayAndNaval() {
	ana := s.registerAna()
	ana.DailyPoints[0] = 980
	ana.NavalDefensePoints = 8000
	s.Require().NoError(s.storage.SavePlayer(s.ctx, ana))
	_, err := s.roster.AddPlayer(s.ctx, "", "Bruno")
	s.Require().NoError(err)

	s.message(userJID, "/lembrete quinta")
	s.Contains(s.lastText(), "pendente para Quinta-feira")
	s.Contains(s.lastText(), "• Bruno")
	s.NotContains(s.lastText(), "• Ana")

	s.message(userJID, "/lembrete naval")
	s.Contains(s.lastText(), "pendente para Defesa Naval")
	s.Contains(s.lastText(), "• Bruno")
}

func (s *DispatcherSuite) TestLembreteAllDone() {
	ana := s.registerAna()
	ana.NavalDefensePoints = 8000
	s.Require().NoError(s.storage.SavePlayer(s.ctx, ana))

	s.message(userJID, "/lembrete naval")
	s.Equal("🎉 Todos já registraram os pontos para *Defesa Naval*!", s.lastText())
}

func (s *DispatcherSuite) TestAdvBands() {
	for name, warnings := range map[string]int{"Ana": 1, "Bruno": 2, "Caio": 4} {
		p, err := s.roster.AddPlayer(s.ctx, "", name)
		s.Require().NoError(err)
		p.Warnings = warnings
		s.Require().NoError(s.storage.SavePlayer(s.ctx, p))
	}

	s.message(userJID, "/adv")
	text := s.lastText()
	s.Contains(text, "🚨 *RISCO MÁXIMO (3+ ADVs)* 🚨\n📌 Caio (4/5)")
	s.Contains(text, "🔥 *ZONA DE RISCO (2 ADVs)* 🔥\n📌 Bruno (2/5)")
	s.Contains(text, "⚠️ *1 Advertência*\n📌 Ana (1/5)")
}

func (s *DispatcherSuite) TestAdvNobodyWarned() {
	s.registerAna()
	s.message(userJID, "/adv")
	s.Equal("🎉 Ninguém possui advertências.", s.lastText())
}

func (s *DispatcherSuite) TestAjudaGeneralHidesAdminSection() {
	s.message(userJID, "/ajuda")
	text := s.lastText()
	s.Contains(text, "*Guia de Comandos do Bot* 🤖")
	s.Contains(text, "*/me* -")
	s.NotContains(text, "Comandos de Administrador")
}

func (s *DispatcherSuite) TestAjudaGeneralShowsAdminSection() {
	s.message(adminJID, "/ajuda")
	s.Contains(s.lastText(), "*👑 Comandos de Administrador:*")
	s.Contains(s.lastText(), "*/nova_guerra* -")
}

func (s *DispatcherSuite) TestAjudaSpecific() {
	s.message(userJID, "/ajuda punir")
	text := s.lastText()
	s.Contains(text, "*Detalhes do Comando: /punir* 🧐")
	s.Contains(text, "*Nota: Este é um comando apenas para administradores.*")
}

// Edit

func (s *DispatcherSuite) TestEditSelfRename() {
	s.registerAna()
	s.message(userJID, "/edit Aninha")
	s.Equal("✅ Seu nome foi alterado com sucesso para *Aninha*.", s.lastText())

	player, err := s.storage.GetPlayerByWaID(s.ctx, userJID)
	s.Require().NoError(err)
	s.Equal("Aninha", player.Name)
}

func (s *DispatcherSuite) TestEditAdminFormRequiresAdmin() {
	s.registerAna()
	s.message(userJID, "/edit Ana para Aninha")
	s.Contains(s.lastText(), "Formato incorreto para o comando /edit.")
}

func (s *DispatcherSuite) TestEditAdminAsksConfirmation() {
	s.registerAna()
	s.message(adminJID, "/edit Ana para Aninha")
	s.Contains(s.lastText(), "Confirma a alteração de nome de *Ana* para *Aninha*?")

	s.message(adminJID, "sim")
	s.Contains(s.lastText(), "✅ Sucesso! *Ana* foi renomeado para *Aninha*.")
}

// War-cycle close

func (s *DispatcherSuite) TestNovaGuerra() {
	ana := s.registerAna()
	ana.DailyPoints = [model.WarDays]int{500, 400, 300, 200}
	ana.NavalDefensePoints = 8000
	s.Require().NoError(s.storage.SavePlayer(s.ctx, ana))
	bruno, err := s.roster.AddPlayer(s.ctx, "", "Bruno")
	s.Require().NoError(err)
	bruno.DailyPoints = [model.WarDays]int{100, 100, 100, 100}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, bruno))

	s.message(adminJID, "/nova_guerra")
	texts := s.client.Texts()
	s.Require().NotEmpty(texts)

	s.Contains(texts, "🏆 O grande campeão da semana é *Ana* com *1400* pontos!\n\nRegistrando no Hall da Fama...")
	s.Equal("✅ *Nova Guerra Iniciada!* O campeão foi coroado, as faltas foram aplicadas e todos os placares foram zerados.", texts[len(texts)-1])

	hall, err := s.storage.ListHallOfFame(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(hall, 1)
	s.Equal("Ana", hall[0].Name)
	s.Equal(1, hall[0].Wins)

	reset, err := s.storage.GetPlayer(s.ctx, ana.ID)
	s.Require().NoError(err)
	s.Equal([model.WarDays]int{0, 0, 0, 0}, reset.DailyPoints)
	s.Zero(reset.NavalDefensePoints)

	backup, err := s.storage.GetBackup(s.ctx)
	s.Require().NoError(err)
	s.Len(backup.Players, 2)
}

func (s *DispatcherSuite) TestNovaGuerraTie() {
	ana := s.registerAna()
	ana.DailyPoints[0] = 900
	s.Require().NoError(s.storage.SavePlayer(s.ctx, ana))
	bruno, err := s.roster.AddPlayer(s.ctx, "", "Bruno")
	s.Require().NoError(err)
	bruno.DailyPoints[3] = 900
	s.Require().NoError(s.storage.SavePlayer(s.ctx, bruno))

	s.message(adminJID, "/nova_guerra")

	var tieAnnounced bool
	for _, text := range s.client.Texts() {
		if text == "🏆 Tivemos um empate! Os campeões da semana com *900* pontos são:\n*Ana & Bruno*\n\nRegistrando no Hall da Fama..." {
			tieAnnounced = true
		}
	}
	s.True(tieAnnounced)

	hall, err := s.storage.ListHallOfFame(s.ctx)
	s.Require().NoError(err)
	s.Len(hall, 2)
}

func (s *DispatcherSuite) TestRestaurarBackup() {
	s.message(adminJID, "/restaurar_backup")
	s.Equal("❌ Nenhum backup encontrado para restaurar.", s.lastText())

	s.registerAna()
	s.Require().NoError(s.roster.CreateBackup(s.ctx))
	s.Require().NoError(s.storage.DeletePlayer(s.ctx, model.PlayerID(userJID)))

	s.message(adminJID, "/restaurar_backup")
	s.Equal("✅ Sucesso! A lista com os dados de *1* jogadores foi restaurada.", s.lastText())

	_, err := s.storage.GetPlayerByWaID(s.ctx, userJID)
	s.NoError(err)
}

func (s *DispatcherSuite) TestVerificarReport() {
	// Ana is registered but not in the group roster; userJID is in the
	// group but unregistered
	_, err := s.roster.AddPlayer(s.ctx, "5533@s.whatsapp.net", "Ana")
	s.Require().NoError(err)

	s.message(adminJID, "/verificar")
	last := s.client.LastSent()
	s.Require().NotNil(last)
	s.Contains(last.Message.Text, "Membros no grupo que NÃO estão registrados no bot")
	s.Contains(last.Message.Text, "- @5511")
	s.Contains(last.Message.Text, "Jogadores na lista do bot que NÃO estão mais no grupo")
	s.Contains(last.Message.Text, "- Ana")
	s.Contains(last.Message.Mentions, userJID)
	s.Contains(last.Message.Mentions, adminJID)
}

// Passive hints

func (s *DispatcherSuite) TestPassiveHintWithCooldown() {
	s.message(userJID, "como faço o lançamento dos pontos?")
	s.Contains(s.lastText(), "Parece que você falou sobre \"*lançamento*\"")
	s.Contains(s.lastText(), "`/lista`")

	sent := len(s.client.Sent)
	s.message(userJID, "lançamento de novo")
	s.Len(s.client.Sent, sent)

	s.clock.Advance(2 * time.Minute)
	s.message(userJID, "lançamento de novo")
	s.Len(s.client.Sent, sent+1)
}

func (s *DispatcherSuite) TestPassivePriorityBeatsLength() {
	// "guerra" (priority 1) loses to "como punir" (priority 3)
	s.message(userJID, "como punir alguém na guerra?")
	s.Contains(s.lastText(), "\"*como punir*\"")
}

func (s *DispatcherSuite) TestPlainSmallTalkIgnored() {
	s.message(userJID, "bom dia pessoal")
	s.Empty(s.client.Sent)
}
