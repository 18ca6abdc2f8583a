// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/google/uuid"
)

// EventHandler defines a function that is called when events
// occur in the processing of mining and accepting blocks.
type EventHandler func(v string, args ...any)

// =============================================================================

// Config represents the configuration required to start a chain.
type Config struct {
	Genesis   genesis.Genesis
	EvHandler EventHandler
	Now       func() time.Time
}

// State manages one chain: its ledger, the latest block and the timing
// information the difficulty controller needs.
type State struct {
	id        string
	genesis   genesis.Genesis
	unit      database.Unit
	reduxTime time.Duration
	evHandler EventHandler
	now       func() time.Time

	mu           sync.RWMutex
	ledger       *database.Ledger
	latestBlock  database.Block
	lastAccepted time.Time

	// nonceSlot and nonceNext hold where the next concurrent search for the
	// block after nonceSlot starts, so retries for one slot cover new nonces.
	nonceSlot string
	nonceNext uint64
}

// New constructs a new chain and accepts its genesis block.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, fmt.Errorf("validating genesis: %w", err)
	}

	unit, err := database.ParseUnit(cfg.Genesis.Unit)
	if err != nil {
		return nil, err
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	// The redux time is configured in hours and kept with millisecond
	// precision.
	reduxMS := math.Round(cfg.Genesis.ReduxTime * float64(time.Hour/time.Millisecond))

	// The genesis block is accepted as part of constructing the ledger.
	ledger := database.NewLedger(database.NewBlock(cfg.Genesis.Data, cfg.Genesis.CreatorAddr, ""))

	state := State{
		id:        uuid.NewString(),
		genesis:   cfg.Genesis,
		unit:      unit,
		reduxTime: time.Duration(reduxMS) * time.Millisecond,
		evHandler: ev,
		now:       now,

		ledger:       ledger,
		latestBlock:  ledger.Last(),
		lastAccepted: now(),
	}

	ev("state: New: chain[%s]: genesis[%s]: unit[%s]", state.id, state.latestBlock.Hash(), unit)

	return &state, nil
}
