package appraisal

import "errors"

// Sentinel kinds for appraisal statements.
var (
	ErrUnknownPhrase  = errors.New("unknown appraisal phrase")
	ErrNoDominantStat = errors.New("appraisal names no dominant stat")
	ErrInvalidBand    = errors.New("invalid appraisal band")
)
