package ksituation

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
)

// Key is the canonical, identity-free form of a Situation: the plaquette
// name found at every (round, row, col) cell. Two situations using different
// indices or different plaquette values with the same names share a Key.
//
// Key values are comparable and can be used directly as map keys.
type Key struct {
	canonical string
	digest    [md5.Size]byte
}

// Key canonicalizes s.
func (s Situation) Key() (Key, error) {
	names, err := s.Names()
	if err != nil {
		return Key{}, err
	}
	return keyFromNames(names), nil
}

// Names returns names[round][row][col].
func (s Situation) Names() ([][][]string, error) {
	names := make([][][]string, len(s.subtemplates))
	for t, st := range s.subtemplates {
		names[t] = make([][]string, st.Rows())
		for i := 0; i < st.Rows(); i++ {
			names[t][i] = make([]string, st.Cols())
			for j := 0; j < st.Cols(); j++ {
				name, err := s.plaquettes[t].Name(st.At(i, j))
				if err != nil {
					return nil, fmt.Errorf("round %d, cell (%d, %d): %w", t, i, j, err)
				}
				names[t][i][j] = name
			}
		}
	}
	return names, nil
}

func keyFromNames(names [][][]string) Key {
	h := md5.New()
	for _, round := range names {
		for _, row := range round {
			for _, name := range row {
				h.Write([]byte(name))
			}
		}
	}
	var k Key
	copy(k.digest[:], h.Sum(nil))
	// The nested JSON form keeps the structure, so it is injective where the
	// plain concatenation hashed above is not.
	b, _ := json.Marshal(names)
	k.canonical = string(b)
	return k
}

// Names decodes the nested name structure held by k.
func (k Key) Names() [][][]string {
	var names [][][]string
	_ = json.Unmarshal([]byte(k.canonical), &names)
	return names
}

// Digest is the MD5 digest of all names concatenated in round, row, column
// order. It is stable across processes, platforms and releases.
func (k Key) Digest() [md5.Size]byte {
	return k.digest
}

// ReliableHash is Digest read as a big-endian unsigned integer.
func (k Key) ReliableHash() *big.Int {
	return new(big.Int).SetBytes(k.digest[:])
}

func (k Key) HexDigest() string {
	return hex.EncodeToString(k.digest[:])
}

func (k Key) IsZero() bool {
	return k.canonical == ""
}

func (k Key) String() string {
	return k.canonical
}
