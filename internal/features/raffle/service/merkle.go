package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"vrf-raffle-backend/internal/features/raffle/models"
)

// MerkleTree is a binary hash tree over the day's qualified entries. Levels
// with an odd node count duplicate their last node when pairing; proofs are
// only exchanged with our own verifier, but the duplication does admit proof
// ambiguity in adversarial settings, so a domain-separated padding leaf is a
// known hardening option if third parties ever verify proofs independently.
type MerkleTree struct {
	levels [][][32]byte // levels[0] are the leaves, last level is the root
}

// zeroRoot is the sentinel root of an empty entry set.
var zeroRoot [32]byte

// LeafHash is SHA-256 over the canonical entry string wallet:rank:score:tickets.
func LeafHash(e models.QualifiedEntry) [32]byte {
	return sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%d:%d", e.Wallet, e.Rank, e.Score, e.Tickets)))
}

// BuildTree constructs the tree bottom-up. An empty entry list yields a tree
// whose root is 32 zero bytes.
func BuildTree(entries []models.QualifiedEntry) *MerkleTree {
	if len(entries) == 0 {
		return &MerkleTree{}
	}

	leaves := make([][32]byte, len(entries))
	for i, e := range entries {
		leaves[i] = LeafHash(e)
	}

	levels := [][][32]byte{leaves}
	for current := leaves; len(current) > 1; {
		next := make([][32]byte, 0, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			left := current[i]
			right := left // duplicate the last node on odd levels
			if i+1 < len(current) {
				right = current[i+1]
			}
			next = append(next, hashPair(left, right))
		}
		levels = append(levels, next)
		current = next
	}

	return &MerkleTree{levels: levels}
}

// Root returns the tree root, or the zero sentinel for an empty tree.
func (t *MerkleTree) Root() [32]byte {
	if len(t.levels) == 0 {
		return zeroRoot
	}
	return t.levels[len(t.levels)-1][0]
}

// RootHex returns the root as a 0x-prefixed hex string, the external audit
// format.
func (t *MerkleTree) RootHex() string {
	root := t.Root()
	return "0x" + hex.EncodeToString(root[:])
}

// ProofFor returns the ordered sibling hashes from leaf to root for the entry
// at the given leaf index.
func (t *MerkleTree) ProofFor(index int) ([][32]byte, error) {
	if len(t.levels) == 0 || index < 0 || index >= len(t.levels[0]) {
		return nil, fmt.Errorf("leaf index %d out of range", index)
	}

	var proof [][32]byte
	for _, level := range t.levels[:len(t.levels)-1] {
		sibling := index ^ 1
		if sibling >= len(level) {
			sibling = index // duplicated last node is its own sibling
		}
		proof = append(proof, level[sibling])
		index /= 2
	}
	return proof, nil
}

// ProofHex formats a proof as 0x-prefixed hex strings.
func ProofHex(proof [][32]byte) []string {
	out := make([]string, len(proof))
	for i, h := range proof {
		out[i] = "0x" + hex.EncodeToString(h[:])
	}
	return out
}

// ParseProofHex decodes a proof from its external hex format.
func ParseProofHex(proof []string) ([][32]byte, error) {
	out := make([][32]byte, len(proof))
	for i, s := range proof {
		b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
		if err != nil {
			return nil, fmt.Errorf("malformed proof element %d: %w", i, err)
		}
		if len(b) != 32 {
			return nil, fmt.Errorf("proof element %d has length %d, want 32", i, len(b))
		}
		copy(out[i][:], b)
	}
	return out, nil
}

// VerifyProof recomputes the entry's leaf hash, folds in the proof siblings
// in order, and compares the final hash to root. The entry's rank fixes its
// leaf position (rank is 1-based, leaves are rank-ordered).
func VerifyProof(e models.QualifiedEntry, proof [][32]byte, root [32]byte) bool {
	hash := LeafHash(e)
	index := e.Rank - 1
	if index < 0 {
		return false
	}

	for _, sibling := range proof {
		if index%2 == 0 {
			hash = hashPair(hash, sibling)
		} else {
			hash = hashPair(sibling, hash)
		}
		index /= 2
	}
	return hash == root
}

func hashPair(left, right [32]byte) [32]byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return sha256.Sum256(buf)
}
