package ntru

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

// challengeTag separates challenge expansion from any other use of the XOF.
const challengeTag = "NTRUSign/He/v1"

// Challenge is the expansion of (z, msg): Small holds coefficients in
// [-ALPHA, ALPHA] and Canonical the same values reduced mod Q.
type Challenge struct {
	Small     Poly
	Canonical Poly
}

// HashToPoly deterministically expands (z, msg) into a challenge polynomial.
// The XOF absorbs the tag, N, Q, ALPHA, the canonical coefficients of z and
// the length-prefixed message; each output coefficient is drawn uniformly
// from {0..2*ALPHA} by rejecting biased 32-bit words, then shifted to
// [-ALPHA, ALPHA].
func HashToPoly(par Params, z Poly, msg []byte) (Challenge, error) {
	if len(z) != par.N {
		return Challenge{}, fmt.Errorf("%w: z has %d coefficients, want %d", ErrInvalidParams, len(z), par.N)
	}
	xof, err := newXOF(par.Hash, challengeInput(par, z, msg))
	if err != nil {
		return Challenge{}, err
	}

	rangeSize := uint64(2*par.Alpha + 1)
	threshold := (uint64(1) << 32) / rangeSize * rangeSize

	small := NewPoly(par.N)
	buf := make([]byte, 4)
	for i := 0; i < par.N; i++ {
		var word uint64
		for {
			if _, err := io.ReadFull(xof, buf); err != nil {
				return Challenge{}, fmt.Errorf("xof read: %w", err)
			}
			word = uint64(binary.LittleEndian.Uint32(buf))
			if word < threshold {
				break
			}
		}
		small[i] = int64(word%rangeSize) - int64(par.Alpha)
	}
	return Challenge{Small: small, Canonical: par.ReducePoly(small)}, nil
}

func challengeInput(par Params, z Poly, msg []byte) []byte {
	buf := new(bytes.Buffer)
	buf.WriteString(challengeTag)
	binary.Write(buf, binary.LittleEndian, uint32(par.N))
	binary.Write(buf, binary.LittleEndian, uint32(par.Q))
	binary.Write(buf, binary.LittleEndian, uint32(par.Alpha))
	word := make([]byte, 4)
	for _, c := range z {
		binary.LittleEndian.PutUint32(word, uint32(par.ReduceQ(c)))
		buf.Write(word)
	}
	binary.Write(buf, binary.LittleEndian, uint64(len(msg)))
	buf.Write(msg)
	return buf.Bytes()
}

func newXOF(kind HashKind, input []byte) (io.Reader, error) {
	switch kind {
	case HashSHAKE256:
		h := sha3.NewShake256()
		h.Write(input)
		return h, nil
	case HashBLAKE3:
		h := blake3.New()
		h.Write(input)
		return h.Digest(), nil
	default:
		return nil, fmt.Errorf("%w: unknown hash %q", ErrInvalidParams, kind)
	}
}
