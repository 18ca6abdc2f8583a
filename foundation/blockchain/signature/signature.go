// Package signature provides helper functions for handling the blockchain
// hashing needs.
package signature

import (
	"crypto/sha256"
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ZeroHash represents a hash code of zeros. It is used as the previous
// hash of a genesis block.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// HexDigits is the number of hex digits in a hash, not counting the 0x prefix.
const HexDigits = 2 * sha256.Size

// =============================================================================

// Hash returns a unique string for the value. The value is marshaled to
// JSON before hashing so struct field order defines the canonical form.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	hash := sha256.Sum256(data)
	return hexutil.Encode(hash[:])
}

// Digits returns the hex digits of a hash produced by Hash with the 0x
// prefix removed.
func Digits(hash string) string {
	return strings.TrimPrefix(hash, "0x")
}
