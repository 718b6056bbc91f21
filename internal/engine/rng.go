// Package engine implements the provably-fair byte stream used to simulate
// spins: HMAC-SHA256 keyed by the server seed over "client:nonce:round".
package engine

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const blockSize = sha256.Size

// ByteStream yields bytes for one (server, client, nonce) triple, refilling
// its 32-byte block each time a round is exhausted.
type ByteStream struct {
	serverSeed string
	clientSeed string
	nonce      uint64
	round      uint64
	pos        int
	block      [blockSize]byte
}

// NewByteStream positions a stream at cursor (in bytes).
func NewByteStream(serverSeed, clientSeed string, nonce, cursor uint64) *ByteStream {
	bs := &ByteStream{
		serverSeed: serverSeed,
		clientSeed: clientSeed,
		nonce:      nonce,
		round:      cursor / blockSize,
		pos:        int(cursor % blockSize),
	}
	bs.fill()
	return bs
}

func (bs *ByteStream) fill() {
	mac := hmac.New(sha256.New, []byte(bs.serverSeed))
	fmt.Fprintf(mac, "%s:%d:%d", bs.clientSeed, bs.nonce, bs.round)
	copy(bs.block[:], mac.Sum(nil))
}

// Next returns the next byte.
func (bs *ByteStream) Next() byte {
	if bs.pos >= blockSize {
		bs.round++
		bs.pos = 0
		bs.fill()
	}
	b := bs.block[bs.pos]
	bs.pos++
	return b
}

// NextFloat consumes 4 bytes and maps them to [0, 1).
func (bs *ByteStream) NextFloat() float64 {
	f := 0.0
	div := 1.0
	for i := 0; i < 4; i++ {
		div *= 256
		f += float64(bs.Next()) / div
	}
	return f
}

// Floats returns count floats starting at cursor.
func Floats(serverSeed, clientSeed string, nonce, cursor uint64, count int) []float64 {
	bs := NewByteStream(serverSeed, clientSeed, nonce, cursor)
	out := make([]float64, count)
	for i := range out {
		out[i] = bs.NextFloat()
	}
	return out
}

// HashServerSeed returns the hex SHA-256 commitment for a server seed.
func HashServerSeed(serverSeed string) string {
	sum := sha256.Sum256([]byte(serverSeed))
	return hex.EncodeToString(sum[:])
}
