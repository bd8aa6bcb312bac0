package reference

import (
	"fmt"
	"os"

	hjson "github.com/hjson/hjson-go/v4"
)

// rateOverrideFile mirrors the shape of config/rates.hjson. HJSON is used so
// the hand-maintained rate tables can carry comments and trailing commas.
type rateOverrideFile struct {
	Regional map[string]RegionalData `json:"regional"`
}

// LoadRateOverrides merges regional rate entries from an hjson file over the
// snapshot's compiled-in defaults. Missing file is not an error; the caller
// keeps the defaults. Entries replace whole states, they do not merge fields.
func (t *Tables) LoadRateOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read rate overrides: %w", err)
	}

	var file rateOverrideFile
	if err := hjson.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse rate overrides %s: %w", path, err)
	}

	for state, rd := range file.Regional {
		if rd.InstallMultiplier == 0 {
			rd.InstallMultiplier = 1.0
		}
		t.Regional[state] = rd
	}
	return nil
}
