// Command keycheck validates a persisted key pair and, when present, the
// signature stored next to it.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	ntru "ntrusign/ntru"
	"ntrusign/ntru/keys"
	"ntrusign/ntru/signverify"
)

func main() {
	dir := flag.String("dir", keys.DefaultDir, "key directory")
	flag.Parse()

	par, kp, err := signverify.LoadKeyPair(*dir)
	if err != nil {
		log.Fatalf("load keys: %v", err)
	}
	fmt.Printf("params: N=%d Q=%d D=%d ALPHA=%d SIGMA=%g ETA=%g\n", par.N, par.Q, par.D, par.Alpha, par.Sigma, par.Eta)
	if !ntru.CheckPublicKey(par, kp.Private.F, kp.Private.G, kp.Public.H) {
		log.Fatalf("F*H != G (mod Q)")
	}
	fmt.Println("F*H == G (mod Q)")
	fmt.Println("F first 16:", ntru.CenterModQ(kp.Private.F, par.Q)[:min(16, par.N)])
	fmt.Println("H first 16:", ntru.CenterModQ(kp.Public.H, par.Q)[:min(16, par.N)])

	sig, err := keys.Load(*dir)
	if errors.Is(err, os.ErrNotExist) {
		return
	}
	if err != nil {
		log.Fatalf("load signature: %v", err)
	}
	if err := checkSignature(os.Stdout, par, kp.Public, sig); err != nil {
		log.Fatalf("signature: %v", err)
	}
	fmt.Println("signature verified")
}

// checkSignature reports the commitment and norm of sig and verifies it
// against pk. Parameters are compared before any ring operation.
func checkSignature(w io.Writer, par ntru.Params, pk ntru.PublicKey, sig *keys.Signature) error {
	sigPar, _, s, err := sig.Decode()
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if sigPar != par {
		return fmt.Errorf("%w: signature N=%d Q=%d, key N=%d Q=%d",
			signverify.ErrKeyMismatch, sigPar.N, sigPar.Q, par.N, par.Q)
	}
	// z = x2 - H*x1 is the commitment the challenge was bound to.
	z := par.Sub(s.X2, par.Mul(pk.H, s.X1))
	fmt.Fprintln(w, "z Linf:", ntru.Poly(ntru.CenterModQ(z, par.Q)).MaxAbs())
	fmt.Fprintf(w, "signature l2=%.4g bound=%.4g trials_used=%d\n",
		keys.L2Norm(par, s), par.SignatureBound(), sig.Signature.TrialsUsed)
	return signverify.VerifyWithKey(keys.NewPublicKey(par, pk), sig, nil)
}
