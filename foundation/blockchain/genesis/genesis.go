// Package genesis maintains access to the genesis settings of a chain.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/powchain/foundation/validate"
)

// Genesis represents the settings a chain is created with.
type Genesis struct {
	Date          time.Time `json:"date"`
	Data          string    `json:"data"`                                    // Payload of the genesis block.
	CreatorAddr   string    `json:"creator_addr" validate:"required"`        // Address of the node creating the genesis block.
	DiffThreshold uint64    `json:"diff_threshold" validate:"required,gt=0"` // Number of blocks after which the difficulty is raised.
	TryLimit      uint64    `json:"try_limit" validate:"required,gt=0"`      // Number of nonces tried for one block.
	ReduxTime     float64   `json:"redux_time" validate:"gte=0"`             // Hours without a new block before the difficulty is relaxed.
	Unit          string    `json:"unit" validate:"omitempty,oneof=hex bit"` // What one unit of difficulty counts.
}

// Default returns the genesis settings used when nothing is configured.
func Default() Genesis {
	return Genesis{
		Date:          time.Now().UTC(),
		CreatorAddr:   "UNSET",
		DiffThreshold: 100,
		TryLimit:      10_000,
		ReduxTime:     0.5,
		Unit:          "hex",
	}
}

// Validate checks the settings are usable.
func (g Genesis) Validate() error {
	return validate.Check(g)
}

// =============================================================================

// Load opens and consumes the genesis file. Settings missing from the file
// keep their default values.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis: %w", err)
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, fmt.Errorf("validating genesis: %w", err)
	}

	return genesis, nil
}
