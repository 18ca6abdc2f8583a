// Package database handles all the lower level support for maintaining the
// blockchain in memory: the block type, proof of work and the ledger.
package database

import (
	"errors"
	"fmt"
	"maps"

	"github.com/holiman/uint256"
)

// Set of error variables for querying the ledger.
var (
	ErrIndexExceedsSize = errors.New("index exceeds ledger size")
	ErrRangeExceedsSize = errors.New("range exceeds size of ledger")
	ErrNotContained     = errors.New("ledger does not contain")
)

// =============================================================================

// Ledger is an insertion ordered, hash indexed collection of blocks. The
// position of a block in the ledger is its id. A Ledger is not safe for
// concurrent use, the owner must serialize access.
type Ledger struct {
	blocks []Block
	byHash map[string]int
	byMeta map[string][]int
}

// NewLedger constructs a ledger with the specified genesis block as its head.
func NewLedger(genesis Block) *Ledger {
	genesis.seal()

	l := Ledger{
		byHash: make(map[string]int),
		byMeta: make(map[string][]int),
	}
	l.Append(genesis)

	return &l
}

// Append adds the block to the end of the ledger. The caller is responsible
// for the block id and previous hash being correct.
func (l *Ledger) Append(block Block) {
	if block.hash == "" {
		block.seal()
	}

	pos := len(l.blocks)
	l.blocks = append(l.blocks, block)
	l.byHash[block.hash] = pos

	if tag := block.MetaData(); tag != "" {
		l.byMeta[tag] = append(l.byMeta[tag], pos)
	}
}

// Size returns the number of accepted blocks.
func (l *Ledger) Size() uint64 {
	return uint64(len(l.blocks))
}

// Genesis returns the head of the ledger.
func (l *Ledger) Genesis() Block {
	return l.blocks[0]
}

// Last returns the tail of the ledger.
func (l *Ledger) Last() Block {
	return l.blocks[len(l.blocks)-1]
}

// BlockByHash returns the block with the specified hash.
func (l *Ledger) BlockByHash(hash string) (Block, bool) {
	pos, exists := l.byHash[hash]
	if !exists {
		return Block{}, false
	}
	return l.blocks[pos], true
}

// BlockByIndex returns the block at the specified position.
func (l *Ledger) BlockByIndex(index uint64) (Block, error) {
	if index >= l.Size() {
		return Block{}, fmt.Errorf("index %d, size %d: %w", index, l.Size(), ErrIndexExceedsSize)
	}
	return l.blocks[index], nil
}

// BlocksInRange returns the last n blocks in chain order.
func (l *Ledger) BlocksInRange(n uint64) ([]Block, error) {
	size := l.Size()
	if n > size {
		return nil, fmt.Errorf("range %d, size %d: %w", n, size, ErrRangeExceedsSize)
	}

	out := make([]Block, n)
	copy(out, l.blocks[size-n:])

	return out, nil
}

// BlocksByMeta returns all the blocks tagged with the specified meta data
// in chain order.
func (l *Ledger) BlocksByMeta(tag string) ([]Block, error) {
	positions := l.byMeta[tag]
	if len(positions) == 0 {
		return nil, fmt.Errorf("tag %q: %w", tag, ErrNotContained)
	}

	out := make([]Block, len(positions))
	for i, pos := range positions {
		out[i] = l.blocks[pos]
	}

	return out, nil
}

// Blocks returns a copy of all the blocks in chain order.
func (l *Ledger) Blocks() []Block {
	out := make([]Block, len(l.blocks))
	copy(out, l.blocks)
	return out
}

// Map returns a copy of the ledger keyed by block hash.
func (l *Ledger) Map() map[string]Block {
	out := make(map[string]Block, len(l.blocks))
	for _, block := range l.blocks {
		out[block.hash] = block
	}
	return out
}

// Clone makes a deep copy of the ledger so it can be published elsewhere.
func (l *Ledger) Clone() *Ledger {
	cpy := Ledger{
		blocks: l.Blocks(),
		byHash: maps.Clone(l.byHash),
		byMeta: make(map[string][]int, len(l.byMeta)),
	}

	for tag, positions := range l.byMeta {
		cpy.byMeta[tag] = append([]int(nil), positions...)
	}

	return &cpy
}

// Work returns the cumulative proof of work of every block in the ledger.
func (l *Ledger) Work(unit Unit) *uint256.Int {
	total := new(uint256.Int)
	for _, block := range l.blocks {
		if _, overflow := total.AddOverflow(total, Work(unit, block.difficulty)); overflow {
			return total.SetAllOne()
		}
	}
	return total
}
