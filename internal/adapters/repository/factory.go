package repository

import (
	"fmt"
	"strings"
)

// Store engine names accepted by NewByEngine.
const (
	EngineMemory = "memory"
	EngineJSON   = "json"
	EngineSQLite = "sqlite"
)

// NewByEngine opens the store named by engine. path is ignored by the
// memory engine.
func NewByEngine(engine string, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineMemory:
		return NewMemoryStore(), nil
	case EngineJSON:
		return NewJSONStore(path)
	case EngineSQLite:
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEngine, engine)
	}
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*JSONStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)
