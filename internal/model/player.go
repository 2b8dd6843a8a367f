package model

import "time"

// PlayerID uniquely identifies a player document
type PlayerID string

// WarDays is the number of scoring days in a war cycle (Thu-Sun)
const WarDays = 4

// WarningCeiling is the warning count at which a player is removed
// from the roster and every managed group
const WarningCeiling = 5

// Player represents a registered clan member.
// LevelXP, KingTower and Trophies use 0 as "not set".
type Player struct {
	ID         PlayerID
	WhatsappID string
	Name       string
	NameLower  string // for case-insensitive lookup and ordering

	LevelXP   int
	KingTower int
	Trophies  int

	// DailyPoints is indexed by war day (0=Thu .. 3=Sun).
	// -1 = not yet due, 0 = missed, >0 = points scored.
	DailyPoints        [WarDays]int
	NavalDefensePoints int

	Warnings       int
	WarnedAbsences []int // day indices already penalized this cycle

	RegisteredAt time.Time
}

// TotalWarPoints sums the daily points, treating -1 (not yet due) as 0
func (p *Player) TotalWarPoints() int {
	total := 0
	for _, pts := range p.DailyPoints {
		if pts > 0 {
			total += pts
		}
	}
	return total
}

// HasWarnedAbsence reports whether the given day was already penalized
func (p *Player) HasWarnedAbsence(dayIndex int) bool {
	for _, d := range p.WarnedAbsences {
		if d == dayIndex {
			return true
		}
	}
	return false
}

// AddWarnedAbsence records a penalized day. Idempotent.
func (p *Player) AddWarnedAbsence(dayIndex int) {
	if !p.HasWarnedAbsence(dayIndex) {
		p.WarnedAbsences = append(p.WarnedAbsences, dayIndex)
	}
}
