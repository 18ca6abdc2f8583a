package state

import (
	"fmt"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// VerifyBlock checks the block belongs to this chain. The stored hash must
// match the fields, the hash must solve the block's difficulty and the
// previous hash must be the hash of the block one position earlier in this
// chain's ledger. A genesis block must be this chain's genesis block.
func (s *State) VerifyBlock(block database.Block) bool {
	if err := s.validateBlock(block); err != nil {
		s.evHandler("state: VerifyBlock: blk[%d]: FAILED: %s", block.ID(), err)
		return false
	}

	return true
}

func (s *State) validateBlock(block database.Block) error {
	if err := block.ValidateHash(s.unit); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if block.ID() == 0 {
		if genesis := s.ledger.Genesis(); block.Hash() != genesis.Hash() {
			return fmt.Errorf("genesis block doesn't match our genesis, got %s, exp %s", block.Hash(), genesis.Hash())
		}
		return nil
	}

	parent, err := s.ledger.BlockByIndex(block.ID() - 1)
	if err != nil {
		return fmt.Errorf("parent block not found: %w", err)
	}

	if block.PrevHash() != parent.Hash() {
		return fmt.Errorf("parent block hash doesn't match our known parent, got %s, exp %s", block.PrevHash(), parent.Hash())
	}

	return nil
}
