// Package resolver fuzzy-matches free-text player names against the
// live roster.
package resolver

import (
	"context"
	"log/slog"
	"sort"

	"github.com/rzclan/warbot/internal/model"
	"github.com/rzclan/warbot/internal/storage"
)

// Status classifies a resolution outcome
type Status string

const (
	StatusEmptyList Status = "empty_list"
	StatusAmbiguous Status = "ambiguous"
	StatusExact     Status = "exact"
	StatusSimilar   Status = "similar"
	StatusNotFound  Status = "not_found"
)

// Result is the outcome of a single Resolve call. Player is set for
// exact/similar; Candidates holds the tied matches for ambiguous and
// the spelling suggestions for not_found.
type Result struct {
	Status     Status
	Player     *model.Player
	Candidates []*model.Player
}

const (
	ambiguityDistance  = 1
	suggestionDistance = 5
	maxSuggestions     = 3
)

type Resolver struct {
	logger    *slog.Logger
	storage   storage.Storage
	tolerance int
}

func New(logger *slog.Logger, store storage.Storage, tolerance int) *Resolver {
	return &Resolver{
		logger:    logger,
		storage:   store,
		tolerance: tolerance,
	}
}

type scoredPlayer struct {
	player   *model.Player
	distance int
}

// Resolve matches nameInput against the roster. Outcomes in priority
// order: empty_list, ambiguous (more than one candidate within edit
// distance 1, exact duplicates included), exact/similar (best match
// within tolerance), not_found with up to three close-ish suggestions.
func (r *Resolver) Resolve(ctx context.Context, nameInput string) (*Result, error) {
	players, err := r.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		return &Result{Status: StatusEmptyList}, nil
	}

	sanitizedInput := Sanitize(nameInput)

	scored := make([]scoredPlayer, len(players))
	for i, p := range players {
		scored[i] = scoredPlayer{
			player:   p,
			distance: levenshtein(sanitizedInput, Sanitize(p.Name)),
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].distance < scored[j].distance
	})

	var plausible []*model.Player
	for _, sp := range scored {
		if sp.distance <= ambiguityDistance {
			plausible = append(plausible, sp.player)
		}
	}
	if len(plausible) > 1 {
		return &Result{Status: StatusAmbiguous, Candidates: plausible}, nil
	}

	best := scored[0]
	if best.distance <= r.tolerance {
		status := StatusSimilar
		if best.distance == 0 {
			status = StatusExact
		}
		return &Result{Status: status, Player: best.player}, nil
	}

	var suggestions []*model.Player
	for _, sp := range scored {
		if sp.distance < suggestionDistance && len(suggestions) < maxSuggestions {
			suggestions = append(suggestions, sp.player)
		}
	}
	return &Result{Status: StatusNotFound, Candidates: suggestions}, nil
}
