package keys

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	ntru "ntrusign/ntru"
)

// Plain-text key files used by earlier tooling:
//
//	PUB1            PRIV1
//	N               N
//	h_0 ... h_N-1   F_0 ... F_N-1
//	                G_0 ... G_N-1
//
// Coefficients are whitespace separated integers, reduced mod Q on read.
const (
	textPublicHeader  = "PUB1"
	textPrivateHeader = "PRIV1"
)

// WritePublicText writes pk in the PUB1 format.
func WritePublicText(w io.Writer, par ntru.Params, pk ntru.PublicKey) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n%d\n", textPublicHeader, par.N)
	writeRow(bw, pk.H)
	return bw.Flush()
}

// WritePrivateText writes F and G in the PRIV1 format.
func WritePrivateText(w io.Writer, par ntru.Params, sk ntru.PrivateKey) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n%d\n", textPrivateHeader, par.N)
	writeRow(bw, ntru.CenterModQ(sk.F, par.Q))
	writeRow(bw, ntru.CenterModQ(sk.G, par.Q))
	return bw.Flush()
}

func writeRow(w *bufio.Writer, p []int64) {
	for i, c := range p {
		if i > 0 {
			w.WriteByte(' ')
		}
		w.WriteString(strconv.FormatInt(c, 10))
	}
	w.WriteByte('\n')
}

// ReadPublicText parses a PUB1 file for par.
func ReadPublicText(r io.Reader, par ntru.Params) (ntru.PublicKey, error) {
	sc, err := openText(r, textPublicHeader, par)
	if err != nil {
		return ntru.PublicKey{}, err
	}
	h, err := readRow(sc, par, "h")
	if err != nil {
		return ntru.PublicKey{}, err
	}
	return ntru.PublicKey{H: h}, nil
}

// ReadPrivateText parses a PRIV1 file for par and recomputes H.
func ReadPrivateText(r io.Reader, par ntru.Params) (ntru.PrivateKey, error) {
	sc, err := openText(r, textPrivateHeader, par)
	if err != nil {
		return ntru.PrivateKey{}, err
	}
	f, err := readRow(sc, par, "F")
	if err != nil {
		return ntru.PrivateKey{}, err
	}
	g, err := readRow(sc, par, "G")
	if err != nil {
		return ntru.PrivateKey{}, err
	}
	h, err := ntru.PublicKeyH(par, f, g)
	if err != nil {
		return ntru.PrivateKey{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return ntru.PrivateKey{F: f, G: g, H: h}, nil
}

func openText(r io.Reader, header string, par ntru.Params) (*bufio.Scanner, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	if !sc.Scan() || sc.Text() != header {
		return nil, fmt.Errorf("%w: missing %s header", ErrFormat, header)
	}
	if !sc.Scan() {
		return nil, fmt.Errorf("%w: missing N", ErrFormat)
	}
	n, err := strconv.Atoi(sc.Text())
	if err != nil || n != par.N {
		return nil, fmt.Errorf("%w: N=%q does not match parameters (N=%d)", ErrFormat, sc.Text(), par.N)
	}
	return sc, nil
}

func readRow(sc *bufio.Scanner, par ntru.Params, name string) (ntru.Poly, error) {
	p := ntru.NewPoly(par.N)
	for i := range p {
		if !sc.Scan() {
			return nil, fmt.Errorf("%w: %s has %d coefficients, want %d", ErrFormat, name, i, par.N)
		}
		v, err := strconv.ParseInt(sc.Text(), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %v", ErrFormat, name, i, err)
		}
		p[i] = par.ReduceQ(v)
	}
	return p, nil
}
