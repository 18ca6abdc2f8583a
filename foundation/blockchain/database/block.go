package database

import (
	"encoding/json"
	"fmt"

	"github.com/ardanlabs/powchain/foundation/blockchain/signature"
)

// GenesisMetaData is the tag a genesis block carries when none is supplied.
const GenesisMetaData = "GENESIS"

// =============================================================================

// Block represents a single entry in the chain. The fields can only be
// changed through the setters so the cached hash is always invalidated.
type Block struct {
	id          uint64
	data        string
	metaData    string
	creatorAddr string
	nonce       uint64
	difficulty  uint
	prevHash    string

	// hash is the stored hash of the block. It is empty until the block has
	// been sealed by the mining process or decoded from BlockData.
	hash string
}

// NewBlock constructs an unmined block with id 0, a nonce of 0 and a
// difficulty of 0. An empty metaData means no tag was supplied.
func NewBlock(data string, creatorAddr string, metaData string) Block {
	return Block{
		data:        data,
		metaData:    metaData,
		creatorAddr: creatorAddr,
		prevHash:    signature.ZeroHash,
	}
}

// NewNextBlock constructs a mining candidate that extends the prev block.
func NewNextBlock(prev Block, data string, creatorAddr string, metaData string, difficulty uint) Block {
	return Block{
		id:          prev.id + 1,
		data:        data,
		metaData:    metaData,
		creatorAddr: creatorAddr,
		difficulty:  difficulty,
		prevHash:    prev.Hash(),
	}
}

// ID returns the position of the block in the chain.
func (b Block) ID() uint64 {
	return b.id
}

// Data returns the payload of the block.
func (b Block) Data() string {
	return b.data
}

// MetaData returns the tag of the block. A genesis block without an explicit
// tag reports GenesisMetaData.
func (b Block) MetaData() string {
	if b.metaData == "" && b.id == 0 {
		return GenesisMetaData
	}
	return b.metaData
}

// CreatorAddr returns the address of the node that produced the block.
func (b Block) CreatorAddr() string {
	return b.creatorAddr
}

// Nonce returns the value identified to solve the hash solution.
func (b Block) Nonce() uint64 {
	return b.nonce
}

// Difficulty returns the proof of work target the block was mined with.
func (b Block) Difficulty() uint {
	return b.difficulty
}

// PrevHash returns the hash of the previous block in the chain.
func (b Block) PrevHash() string {
	return b.prevHash
}

// SetData replaces the payload.
func (b *Block) SetData(data string) {
	b.data = data
	b.hash = ""
}

// SetCreatorAddr replaces the creator address.
func (b *Block) SetCreatorAddr(creatorAddr string) {
	b.creatorAddr = creatorAddr
	b.hash = ""
}

// SetBlockID replaces the block id. This can break the linkage of a chain
// and is mostly useful for ad hoc construction.
func (b *Block) SetBlockID(id uint64) {
	b.id = id
	b.hash = ""
}

// SetMetaData replaces the tag.
func (b *Block) SetMetaData(metaData string) {
	b.metaData = metaData
	b.hash = ""
}

// Hash returns the unique hash for the Block. The stored hash is returned
// when the block is sealed, otherwise it is computed from the fields.
func (b Block) Hash() string {
	if b.hash != "" {
		return b.hash
	}
	return b.computeHash()
}

// ValidateHash recomputes the hash from the fields and checks it against
// the stored hash and the proof of work target of the block.
func (b Block) ValidateHash(unit Unit) error {
	if b.hash == "" {
		return fmt.Errorf("block[%d] has not been sealed", b.id)
	}

	hash := b.computeHash()
	if hash != b.hash {
		return fmt.Errorf("block[%d] hash mismatch, got %s, exp %s", b.id, hash, b.hash)
	}

	if !IsHashSolved(unit, b.difficulty, hash) {
		return fmt.Errorf("block[%d] hash %s does not solve difficulty %d", b.id, hash, b.difficulty)
	}

	return nil
}

// seal stores the computed hash with the block.
func (b *Block) seal() string {
	b.hash = b.computeHash()
	return b.hash
}

// computeHash hashes the fields that define a block. The field order of
// the seed is the canonical encoding.
func (b Block) computeHash() string {
	seed := struct {
		ID          uint64 `json:"id"`
		Data        string `json:"data"`
		Nonce       uint64 `json:"nonce"`
		Difficulty  uint   `json:"difficulty"`
		PrevHash    string `json:"prev_hash"`
		CreatorAddr string `json:"creator_addr"`
		MetaData    string `json:"meta_data"`
	}{
		ID:          b.id,
		Data:        b.data,
		Nonce:       b.nonce,
		Difficulty:  b.difficulty,
		PrevHash:    b.prevHash,
		CreatorAddr: b.creatorAddr,
		MetaData:    b.MetaData(),
	}

	return signature.Hash(seed)
}

// MarshalJSON implements the json.Marshaler interface.
func (b Block) MarshalJSON() ([]byte, error) {
	return json.Marshal(NewBlockData(b))
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (b *Block) UnmarshalJSON(data []byte) error {
	var bd BlockData
	if err := json.Unmarshal(data, &bd); err != nil {
		return err
	}

	*b = ToBlock(bd)
	return nil
}

// =============================================================================

// BlockData represents what is exchanged with clients of the node.
type BlockData struct {
	Hash        string `json:"hash"`
	ID          uint64 `json:"id"`
	Data        string `json:"data"`
	MetaData    string `json:"meta_data"`
	CreatorAddr string `json:"creator_addr"`
	Nonce       uint64 `json:"nonce"`
	Difficulty  uint   `json:"difficulty"`
	PrevHash    string `json:"prev_hash"`
}

// NewBlockData constructs the value to serialize.
func NewBlockData(b Block) BlockData {
	return BlockData{
		Hash:        b.Hash(),
		ID:          b.id,
		Data:        b.data,
		MetaData:    b.MetaData(),
		CreatorAddr: b.creatorAddr,
		Nonce:       b.nonce,
		Difficulty:  b.difficulty,
		PrevHash:    b.prevHash,
	}
}

// ToBlock converts a BlockData into a Block. The transmitted hash becomes
// the stored hash so a tampered block fails validation.
func ToBlock(bd BlockData) Block {
	return Block{
		id:          bd.ID,
		data:        bd.Data,
		metaData:    bd.MetaData,
		creatorAddr: bd.CreatorAddr,
		nonce:       bd.Nonce,
		difficulty:  bd.Difficulty,
		prevHash:    bd.PrevHash,
		hash:        bd.Hash,
	}
}
