package model

// Step identifies a conversation state machine node
type Step string

const (
	// Full registration flow (/nome or group welcome)
	StepNewPlayerName     Step = "awaiting_new_player_name"
	StepNewPlayerLevel    Step = "awaiting_new_player_level"
	StepNewPlayerTower    Step = "awaiting_new_player_tower"
	StepNewPlayerTrophies Step = "awaiting_new_player_trophies"
	StepNewPlayerNaval    Step = "awaiting_new_player_naval"

	// Selective profile update flow (/cadastro)
	StepUpdateLevel    Step = "awaiting_update_level"
	StepUpdateTower    Step = "awaiting_update_tower"
	StepUpdateTrophies Step = "awaiting_update_trophies"
	StepUpdateNaval    Step = "awaiting_update_naval"

	// Guided points entry flow (/lista)
	StepMenuChoice   Step = "awaiting_menu_choice"
	StepDayChoice    Step = "awaiting_day_choice"
	StepPointsInput  Step = "awaiting_points_input"
	StepConfirmation Step = "awaiting_confirmation"

	// Ambiguous name disambiguation for admin commands
	StepAmbiguousPunish Step = "awaiting_ambiguous_choice_punir"
	StepAmbiguousEdit   Step = "awaiting_ambiguous_choice_edit"
	StepAmbiguousRemove Step = "awaiting_ambiguous_choice_remove"

	// Destructive-action confirmation gates
	StepEditConfirmation   Step = "awaiting_edit_confirmation"
	StepRemoveConfirmation Step = "awaiting_remove_confirmation"
)
