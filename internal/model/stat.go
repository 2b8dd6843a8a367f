package model

// StatKind is a closed enumeration of the stats the bot records.
// Each kind carries its own validation and maps to one player field.
type StatKind int

const (
	StatWar StatKind = iota
	StatNaval
	StatKingTower
	StatTrophies
	StatLevelXP
)

// DisplayName returns the user-facing label for the stat
func (k StatKind) DisplayName() string {
	switch k {
	case StatWar:
		return "Guerra"
	case StatNaval:
		return "Defesa Naval"
	case StatKingTower:
		return "Torre Rei"
	case StatTrophies:
		return "Troféus"
	case StatLevelXP:
		return "Nível XP"
	default:
		return "?"
	}
}

// Validate reports whether value is acceptable for this stat
func (k StatKind) Validate(value int) bool {
	switch k {
	case StatKingTower, StatLevelXP:
		return value >= 1
	default:
		return value >= 0
	}
}

// Apply writes value to the player field this stat maps to. For StatWar
// the dayIndex selects the daily points slot.
func (k StatKind) Apply(p *Player, value, dayIndex int) error {
	switch k {
	case StatWar:
		if dayIndex < 0 || dayIndex >= WarDays {
			return ErrInvalidDay
		}
		p.DailyPoints[dayIndex] = value
	case StatNaval:
		p.NavalDefensePoints = value
	case StatKingTower:
		p.KingTower = value
	case StatTrophies:
		p.Trophies = value
	case StatLevelXP:
		p.LevelXP = value
	default:
		return ErrInvalidValue
	}
	return nil
}

// MenuStats lists the stats offered by the guided points flow, in menu
// order (options 1-5).
var MenuStats = []StatKind{StatWar, StatNaval, StatKingTower, StatTrophies, StatLevelXP}
