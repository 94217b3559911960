// Package gameid generates sortable game identifiers: a UUIDv7 written as 26
// characters of Crockford base32, TypeID style.
package gameid

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/coder/quartz"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded id.
const Length = 26

// RandSource supplies the random part of an id. *math/rand/v2.Rand satisfies it.
type RandSource interface {
	IntN(n int) int
}

// Generator makes ids from a clock and a source of randomness
type Generator struct {
	clock quartz.Clock
	rng   RandSource
}

// NewGenerator creates a generator. A nil rng uses crypto/rand; a nil clock
// uses the real clock.
func NewGenerator(clock quartz.Clock, rng RandSource) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{clock: clock, rng: rng}
}

// Generate creates an id from the real clock and crypto/rand
func Generate() string {
	return NewGenerator(nil, nil).Generate()
}

// Generate creates a new id. Ids from later milliseconds sort after earlier ones.
func (g *Generator) Generate() string {
	return encode(g.uuid())
}

func (g *Generator) uuid() [16]byte {
	var u [16]byte

	// 48-bit millisecond timestamp, then 80 random bits less version and variant
	ms := uint64(g.clock.Now().UnixMilli())
	for i := range 6 {
		u[i] = byte(ms >> (40 - 8*i))
	}

	if g.rng != nil {
		for i := 6; i < 16; i++ {
			u[i] = byte(g.rng.IntN(256))
		}
	} else if _, err := rand.Read(u[6:]); err != nil {
		panic("failed to generate random bytes: " + err.Error())
	}

	u[6] = (u[6] & 0x0f) | 0x70 // version 7
	u[8] = (u[8] & 0x3f) | 0x80 // variant 10
	return u
}

// encode writes the 128 bits as 26 five-bit groups, with two implicit zero
// bits in front so the first character is always 0-7.
func encode(u [16]byte) string {
	var hi, lo uint64
	for i := range 8 {
		hi = hi<<8 | uint64(u[i])
		lo = lo<<8 | uint64(u[i+8])
	}

	out := make([]byte, Length)
	for i := range Length {
		shift := uint(125 - 5*i)
		var v uint64
		switch {
		case shift >= 64:
			v = hi >> (shift - 64)
		case shift+5 <= 64:
			v = lo >> shift
		default:
			v = lo>>shift | hi<<(64-shift)
		}
		out[i] = alphabet[v&0x1f]
	}
	return string(out)
}

// Time returns the creation time embedded in an id, to the millisecond.
func Time(id string) (time.Time, error) {
	if err := Validate(id); err != nil {
		return time.Time{}, err
	}
	// The first ten characters hold the two padding bits and the 48-bit timestamp.
	var ms int64
	for _, c := range id[:10] {
		ms = ms<<5 | int64(strings.IndexRune(alphabet, c))
	}
	return time.UnixMilli(ms), nil
}

// Validate checks if an id is well formed (26 characters, valid base32)
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("game ID must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("game ID first character must be 0-7, got %c", id[0])
	}
	for i, c := range id {
		if !strings.ContainsRune(alphabet, c) {
			return fmt.Errorf("invalid character %c at position %d", c, i)
		}
	}
	return nil
}
