package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrNameTaken      = errors.New("name already registered")

	// Session errors
	ErrSessionActive   = errors.New("a conversation is already in progress for this user")
	ErrSessionNotFound = errors.New("no active conversation for this user")

	// Scoring errors
	ErrInvalidDay     = errors.New("invalid war day")
	ErrDayClosed      = errors.New("war day is closed for entry")
	ErrInvalidValue   = errors.New("invalid stat value")
	ErrWarWeekClosed  = errors.New("war week is closed")
	ErrInvalidChoice  = errors.New("invalid menu choice")

	// Backup errors
	ErrBackupNotFound = errors.New("no backup snapshot found")
	ErrBackupEmpty    = errors.New("backup snapshot is empty")

	// Hall of fame errors
	ErrHallOfFameEmpty = errors.New("hall of fame is empty")
)
