package game

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
)

// Source supplies the randomness for outcome draws. Engines never reach
// for a global generator; tests inject a scripted Source to force
// outcomes.
type Source interface {
	// DrawInt returns a uniform value in [0, n).
	DrawInt(n int) int
	// DrawFloat returns a uniform value in [0, 1).
	DrawFloat() float64
}

// hmacSource derives draws from an HMAC-SHA256 keystream over a seed
// pair and an incrementing nonce. Each draw consumes one nonce.
type hmacSource struct {
	serverSeed string
	clientSeed string
	nonce      int
}

// NewSource creates a Source with freshly generated seeds.
func NewSource() Source {
	return &hmacSource{
		serverSeed: GenerateSeed(),
		clientSeed: GenerateSeed(),
	}
}

// NewSeededSource creates a Source from explicit seeds. Draws are fully
// determined by the seed pair, which makes replaying a session possible.
func NewSeededSource(serverSeed, clientSeed string) Source {
	return &hmacSource{serverSeed: serverSeed, clientSeed: clientSeed}
}

func (s *hmacSource) DrawFloat() float64 {
	s.nonce++
	data := fmt.Sprintf("%s:%d", s.clientSeed, s.nonce)
	h := hmac.New(sha256.New, []byte(s.serverSeed))
	h.Write([]byte(data))
	hashHex := hex.EncodeToString(h.Sum(nil))

	// Take first 16 hex characters (64 bits)
	i := new(big.Int)
	i.SetString(hashHex[:16], 16)

	const maxUint64F = 18446744073709551616.0
	return float64(i.Uint64()) / maxUint64F
}

func (s *hmacSource) DrawInt(n int) int {
	if n <= 0 {
		return 0
	}
	v := int(s.DrawFloat() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// GenerateSeed creates a cryptographically secure random seed.
func GenerateSeed() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}
