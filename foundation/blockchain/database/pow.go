package database

import (
	"context"
	"fmt"
	"math/bits"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ardanlabs/powchain/foundation/blockchain/signature"
	"github.com/holiman/uint256"
)

// Unit defines what one unit of difficulty counts in a hash.
type Unit int

// Set of supported proof of work units.
const (
	UnitHex Unit = iota // Leading zero hex digits.
	UnitBit             // Leading zero bits.
)

// ParseUnit converts the configuration name of a unit into a Unit.
func ParseUnit(name string) (Unit, error) {
	switch strings.ToLower(name) {
	case "", "hex":
		return UnitHex, nil
	case "bit", "bits":
		return UnitBit, nil
	}

	return UnitHex, fmt.Errorf("unknown proof of work unit %q", name)
}

// String implements the fmt.Stringer interface.
func (u Unit) String() string {
	if u == UnitBit {
		return "bit"
	}
	return "hex"
}

// MaxDifficulty returns the largest difficulty a hash can satisfy.
func (u Unit) MaxDifficulty() uint {
	return signature.HexDigits * 4 / u.bits()
}

func (u Unit) bits() uint {
	if u == UnitBit {
		return 1
	}
	return 4
}

// =============================================================================

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// We need to match a difficulty number of leading zero units.
func IsHashSolved(unit Unit, difficulty uint, hash string) bool {
	digits := signature.Digits(hash)
	if len(digits) != signature.HexDigits || difficulty > unit.MaxDifficulty() {
		return false
	}

	if unit == UnitBit {
		return leadingZeroBits(digits) >= difficulty
	}

	for _, c := range digits[:difficulty] {
		if c != '0' {
			return false
		}
	}

	return true
}

// Work returns the expected number of hash attempts needed to solve the
// specified difficulty. The value saturates at the max uint256.
func Work(unit Unit, difficulty uint) *uint256.Int {
	shift := difficulty * unit.bits()
	if shift >= 256 {
		return new(uint256.Int).SetAllOne()
	}

	return new(uint256.Int).Lsh(uint256.NewInt(1), shift)
}

// leadingZeroBits counts the zero bits at the front of the hex digits.
func leadingZeroBits(digits string) uint {
	var n uint
	for _, c := range digits {
		var v uint8
		switch {
		case c >= '0' && c <= '9':
			v = uint8(c - '0')
		case c >= 'a' && c <= 'f':
			v = uint8(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v = uint8(c-'A') + 10
		default:
			return n
		}

		if v != 0 {
			return n + uint(bits.LeadingZeros8(v)) - 4
		}
		n += 4
	}

	return n
}

// =============================================================================

// POW performs the work of mining to find a nonce that solves the candidate
// block. Nonces 0 through tryLimit-1 are tried in order. The returned bool is
// false when the budget is exhausted or the context is cancelled.
func POW(ctx context.Context, unit Unit, nb Block, tryLimit uint64, ev func(v string, args ...any)) (Block, bool) {
	ev("database: POW: MINING: started: blk[%d]: difficulty[%d]: tries[%d]", nb.id, nb.difficulty, tryLimit)
	defer ev("database: POW: MINING: completed: blk[%d]", nb.id)

	var next uint64
	nonces := func() (uint64, bool) {
		if next >= tryLimit {
			return 0, false
		}
		nonce := next
		next++
		return nonce, true
	}

	var solved atomic.Bool
	if !nb.performPOW(ctx, unit, nonces, &solved, ev) {
		return Block{}, false
	}

	return nb, true
}

// ConcurrentPOW races the specified number of workers over a shared budget
// of tryLimit nonces starting at the start nonce. Nonces are handed out by an
// atomic counter so no nonce is tried twice. The first worker to solve the
// puzzle wins and the others are told to stop.
func ConcurrentPOW(ctx context.Context, unit Unit, nb Block, start uint64, tryLimit uint64, workers int, ev func(v string, args ...any)) (Block, bool) {
	ev("database: ConcurrentPOW: MINING: started: blk[%d]: difficulty[%d]: nonces[%d:%d]: workers[%d]", nb.id, nb.difficulty, start, start+tryLimit, workers)
	defer ev("database: ConcurrentPOW: MINING: completed: blk[%d]", nb.id)

	if workers < 1 {
		workers = 1
	}

	// Create a context so the losing workers can be cancelled.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var counter atomic.Uint64
	nonces := func() (uint64, bool) {
		offset := counter.Add(1) - 1
		return start + offset, offset < tryLimit
	}

	var solved atomic.Bool
	winner := make(chan Block, 1)

	// Can't return from this function until these G's are complete.
	var wg sync.WaitGroup
	wg.Add(workers)

	for w := range workers {
		go func() {
			defer wg.Done()

			candidate := nb
			if candidate.performPOW(ctx, unit, nonces, &solved, ev) {
				ev("database: ConcurrentPOW: MINING: worker[%d]: won", w)
				winner <- candidate
				cancel()
			}
		}()
	}

	wg.Wait()

	select {
	case block := <-winner:
		return block, true
	default:
		return Block{}, false
	}
}

// performPOW does the work of mining to find a valid hash for the block.
// Pointer semantics are being used since a nonce is being discovered. Only
// the caller that flips the solved flag reports success.
func (b *Block) performPOW(ctx context.Context, unit Unit, nonces func() (uint64, bool), solved *atomic.Bool, ev func(v string, args ...any)) bool {
	var attempts uint64
	for {
		if solved.Load() || ctx.Err() != nil {
			return false
		}

		nonce, ok := nonces()
		if !ok {
			ev("database: performPOW: MINING: blk[%d]: budget exhausted: attempts[%d]", b.id, attempts)
			return false
		}
		attempts++

		b.nonce = nonce
		hash := b.seal()
		if !IsHashSolved(unit, b.difficulty, hash) {
			continue
		}

		// Someone else might have solved the puzzle at the same time.
		if !solved.CompareAndSwap(false, true) {
			return false
		}

		ev("database: performPOW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: attempts[%d]", b.prevHash, hash, attempts)
		return true
	}
}
