// Package gameid generates session identifiers: UUIDv7 values rendered as
// 26-character Crockford base32 strings, so IDs sort by creation time.
package gameid

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Crockford's base32 alphabet
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded ID
const Length = 26

// Generator produces session IDs from an optional entropy source
type Generator struct {
	entropy io.Reader
}

// NewGenerator creates a generator. A nil reader uses crypto/rand.
func NewGenerator(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new session ID using crypto/rand
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new session ID
func (g *Generator) Generate() string {
	var (
		id  uuid.UUID
		err error
	)
	if g.entropy != nil {
		id, err = uuid.NewV7FromReader(g.entropy)
	} else {
		id, err = uuid.NewV7()
	}
	if err != nil {
		panic("failed to generate session id: " + err.Error())
	}
	return Encode(id)
}

// Encode renders a UUID as 26 base32 characters (130 bits, the top two zero)
func Encode(id uuid.UUID) string {
	var out [Length]byte
	// Walk the 128 bits from the least significant end, 5 bits at a time.
	var acc uint64
	var bits uint
	pos := Length - 1
	for i := len(id) - 1; i >= 0; i-- {
		acc |= uint64(id[i]) << bits
		bits += 8
		for bits >= 5 {
			out[pos] = alphabet[acc&0x1f]
			pos--
			acc >>= 5
			bits -= 5
		}
	}
	out[pos] = alphabet[acc&0x1f]
	return string(out[:])
}

// Decode parses an encoded session ID back into a UUID
func Decode(s string) (uuid.UUID, error) {
	var id uuid.UUID
	if err := Validate(s); err != nil {
		return id, err
	}
	var acc uint64
	var bits uint
	i := len(id) - 1
	for pos := Length - 1; pos >= 0 && i >= 0; pos-- {
		acc |= uint64(strings.IndexByte(alphabet, s[pos])) << bits
		bits += 5
		for bits >= 8 && i >= 0 {
			id[i] = byte(acc)
			i--
			acc >>= 8
			bits -= 8
		}
	}
	return id, nil
}

// Validate checks that s is a well-formed session ID
func Validate(s string) error {
	if len(s) != Length {
		return fmt.Errorf("session id must be exactly %d characters, got %d", Length, len(s))
	}
	if s[0] > '7' {
		return fmt.Errorf("session id first character must be 0-7, got %c", s[0])
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(alphabet, s[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", s[i], i)
		}
	}
	return nil
}
