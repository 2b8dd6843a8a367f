package resolver

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/rzclan/warbot/internal/model"
	"github.com/rzclan/warbot/internal/storage/memory"
	"github.com/rzclan/warbot/internal/testutil"
)

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"Ana":        "ana",
		"ᴀɴᴀ":        "ana",
		"João!!":     "joo",
		"★Pedro★ 99": "pedro99",
		"":           "",
	}
	for input, want := range cases {
		if got := Sanitize(input); got != want {
			t.Errorf("Sanitize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"ana", "ana", 0},
		{"ana", "anna", 1},
		{"kitten", "sitting", 3},
		{"abc", "", 3},
	}
	for _, tc := range cases {
		if got := levenshtein(tc.a, tc.b); got != tc.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

type ResolverSuite struct {
	suite.Suite
	storage  *memory.Storage
	resolver *Resolver
	ctx      context.Context
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.storage = memory.New()
	s.resolver = New(testutil.NopLogger(), s.storage, 3)
	s.ctx = context.Background()
}

func (s *ResolverSuite) addPlayer(id, name string) {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{
		ID:        model.PlayerID(id),
		Name:      name,
		NameLower: strings.ToLower(name),
	}))
}

func (s *ResolverSuite) TestEmptyRoster() {
	result, err := s.resolver.Resolve(s.ctx, "ana")
	s.Require().NoError(err)
	s.Equal(StatusEmptyList, result.Status)
}

func (s *ResolverSuite) TestExactMatch() {
	s.addPlayer("p1", "Ana")
	s.addPlayer("p2", "Bernardo")

	result, err := s.resolver.Resolve(s.ctx, "ana")
	s.Require().NoError(err)
	s.Equal(StatusExact, result.Status)
	s.Equal("Ana", result.Player.Name)
}

func (s *ResolverSuite) TestStylizedNameMatchesExact() {
	s.addPlayer("p1", "ᴀɴᴀ")
	s.addPlayer("p2", "Bernardo")

	result, err := s.resolver.Resolve(s.ctx, "Ana")
	s.Require().NoError(err)
	s.Equal(StatusExact, result.Status)
}

func (s *ResolverSuite) TestSimilarWithinTolerance() {
	s.addPlayer("p1", "Bernardo")
	s.addPlayer("p2", "Leonardo")

	result, err := s.resolver.Resolve(s.ctx, "Bernardoo")
	s.Require().NoError(err)
	s.Equal(StatusSimilar, result.Status)
	s.Equal("Bernardo", result.Player.Name)
}

func (s *ResolverSuite) TestAmbiguousCloseCandidates() {
	s.addPlayer("p1", "Joao")
	s.addPlayer("p2", "Joaoo")

	result, err := s.resolver.Resolve(s.ctx, "Joao")
	s.Require().NoError(err)
	s.Equal(StatusAmbiguous, result.Status)
	s.Len(result.Candidates, 2)
}

func (s *ResolverSuite) TestExactDuplicatesResolveAmbiguous() {
	s.addPlayer("p1", "Ana")
	s.addPlayer("p2", "ana")

	result, err := s.resolver.Resolve(s.ctx, "ana")
	s.Require().NoError(err)
	s.Equal(StatusAmbiguous, result.Status)
	s.Len(result.Candidates, 2)
}

func (s *ResolverSuite) TestNotFoundSuggestions() {
	s.addPlayer("p1", "Bernardo")
	s.addPlayer("p2", "Fernanda")
	s.addPlayer("p3", "Leonardo")
	s.addPlayer("p4", "Zzzzzzzzzzzzzz")

	result, err := s.resolver.Resolve(s.ctx, "Bernnnnnardo")
	s.Require().NoError(err)
	s.Equal(StatusNotFound, result.Status)
	s.NotEmpty(result.Candidates)
	s.LessOrEqual(len(result.Candidates), 3)
	for _, c := range result.Candidates {
		s.NotEqual("Zzzzzzzzzzzzzz", c.Name)
	}
}
