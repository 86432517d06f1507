// Package gamemaster loads species and level tables from a JSON game data
// dump. Sections missing from the dump fall back to the built-in tables.
//
// Expected shape:
//
//	{
//	  "species": [{"name": "Pidgey", "attack": 94, "defense": 90, "stamina": 80}],
//	  "cp_multipliers": [0.094, 0.135137432, ...],
//	  "dust": [{"cost": 200, "levels": [1, 1.5, 2, 2.5]}]
//	}
package gamemaster

import (
	"errors"
	"fmt"
	"os"

	"github.com/okian/ivtrack/internal/domain/gamedata"
	"github.com/tidwall/gjson"
)

// ErrInvalidDump marks a game data file that cannot be parsed.
var ErrInvalidDump = errors.New("invalid game master dump")

// Tables is the parsed content of a dump.
type Tables struct {
	Catalog *gamedata.Catalog
	Levels  *gamedata.LevelTable
}

// LoadFile reads and parses the dump at path.
func LoadFile(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read game master: %w", err)
	}
	return Parse(data)
}

// Parse builds tables from a JSON dump.
func Parse(data []byte) (Tables, error) {
	if !gjson.ValidBytes(data) {
		return Tables{}, fmt.Errorf("%w: malformed JSON", ErrInvalidDump)
	}
	root := gjson.ParseBytes(data)

	catalog, err := parseSpecies(root.Get("species"))
	if err != nil {
		return Tables{}, err
	}
	levels, err := parseLevels(root.Get("cp_multipliers"), root.Get("dust"))
	if err != nil {
		return Tables{}, err
	}
	return Tables{Catalog: catalog, Levels: levels}, nil
}

func parseSpecies(list gjson.Result) (*gamedata.Catalog, error) {
	if !list.Exists() {
		return gamedata.DefaultCatalog(), nil
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: species must be an array", ErrInvalidDump)
	}
	var species []gamedata.Species
	list.ForEach(func(_, v gjson.Result) bool {
		species = append(species, gamedata.Species{
			Name:    v.Get("name").String(),
			Attack:  int(v.Get("attack").Int()),
			Defense: int(v.Get("defense").Int()),
			Stamina: int(v.Get("stamina").Int()),
		})
		return true
	})
	c, err := gamedata.NewCatalog(species...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDump, err)
	}
	return c, nil
}

func parseLevels(curve, dust gjson.Result) (*gamedata.LevelTable, error) {
	if !curve.Exists() && !dust.Exists() {
		return gamedata.DefaultLevelTable(), nil
	}
	if !curve.IsArray() || !dust.IsArray() {
		return nil, fmt.Errorf("%w: cp_multipliers and dust must both be arrays", ErrInvalidDump)
	}

	multipliers := make([]float64, 0, len(curve.Array()))
	curve.ForEach(func(_, v gjson.Result) bool {
		multipliers = append(multipliers, v.Float())
		return true
	})

	var (
		bands  []gamedata.DustBand
		badErr error
	)
	dust.ForEach(func(_, v gjson.Result) bool {
		b := gamedata.DustBand{Cost: int(v.Get("cost").Int())}
		v.Get("levels").ForEach(func(_, lvl gjson.Result) bool {
			idx, err := gamedata.IndexForLevel(lvl.Float())
			if err != nil {
				badErr = err
				return false
			}
			if idx.IsHalf() {
				b.Half = append(b.Half, idx)
			} else {
				b.Whole = append(b.Whole, idx)
			}
			return true
		})
		bands = append(bands, b)
		return badErr == nil
	})
	if badErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDump, badErr)
	}

	t, err := gamedata.NewLevelTable(multipliers, bands)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDump, err)
	}
	return t, nil
}
