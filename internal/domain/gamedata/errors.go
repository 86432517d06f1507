package gamedata

import "errors"

// Sentinel kinds for game data lookups.
var (
	ErrUnknownSpecies = errors.New("unknown species")
	ErrUnknownDust    = errors.New("unknown dust cost")
	ErrUnknownLevel   = errors.New("level outside the modeled range")
	ErrInvalidTable   = errors.New("invalid game data table")
)
