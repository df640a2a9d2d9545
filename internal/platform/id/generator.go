package id

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/cockroachdb/errors"
)

// Generator creates opaque IDs used for request correlation.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct {
	prefix string
}

// NewRandomGenerator returns a generator of 32 hex chars, optionally prefixed
// as "<prefix>_<hex>".
func NewRandomGenerator(prefix string) *RandomGenerator {
	return &RandomGenerator{prefix: strings.TrimSpace(prefix)}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "read random bytes")
	}

	value := hex.EncodeToString(buf)
	if g == nil || g.prefix == "" {
		return value, nil
	}
	return g.prefix + "_" + value, nil
}
