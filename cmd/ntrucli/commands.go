package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli"

	ntru "ntrusign/ntru"
	ntruio "ntrusign/ntru/io"
	"ntrusign/ntru/keys"
	"ntrusign/ntru/keystore"
	"ntrusign/ntru/signverify"
)

func rngFromFlags(c *cli.Context) (ntru.RandomSource, error) {
	if c.IsSet("seed") {
		return ntru.NewRNG(c.Int64("seed")), nil
	}
	r, err := ntru.NewSystemRNG()
	if err != nil {
		return nil, err
	}
	return r, nil
}

func messageFromFlags(c *cli.Context) ([]byte, error) {
	switch {
	case c.IsSet("in"):
		return os.ReadFile(c.String("in"))
	case c.IsSet("m"):
		return []byte(c.String("m")), nil
	}
	return nil, nil
}

func runGen(c *cli.Context) error {
	par, err := ntruio.LoadParamsOrDefault(c.String("params"))
	if err != nil {
		return fmt.Errorf("load params: %w", err)
	}
	rng, err := rngFromFlags(c)
	if err != nil {
		return err
	}
	dir := c.String("dir")
	if _, _, err := signverify.GenerateKeypair(dir, par, rng); err != nil {
		return fmt.Errorf("gen: %w", err)
	}
	fmt.Printf("keys written to %s (N=%d Q=%d)\n", dir, par.N, par.Q)
	return nil
}

func runSign(c *cli.Context) error {
	msg, err := messageFromFlags(c)
	if err != nil {
		return err
	}
	if msg == nil {
		return errors.New("sign: -m or -in is required")
	}
	rng, err := rngFromFlags(c)
	if err != nil {
		return err
	}
	dir := c.String("dir")
	sig, err := signverify.Sign(dir, msg, rng)
	if err != nil {
		return fmt.Errorf("sign: %w", err)
	}
	fmt.Printf("sign: trials_used=%d max_trials=%d\n", sig.Signature.TrialsUsed, sig.Signature.MaxTrials)
	if c.Bool("v") {
		fmt.Printf("sign: l2=%.4g bound=%.4g\n", sig.Signature.Norm.L2, sig.Signature.Norm.Bound)
	}
	if path := c.String("bin"); path != "" {
		par, _, s, err := sig.Decode()
		if err != nil {
			return err
		}
		if err := keys.WriteSignatureFile(path, par, s); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Printf("binary signature written to %s\n", path)
	}
	fmt.Printf("signature written to %s/signature.json\n", dir)
	return nil
}

func runVerify(c *cli.Context) error {
	dir := c.String("dir")
	msg, err := messageFromFlags(c)
	if err != nil {
		return err
	}

	if path := c.String("bin"); path != "" {
		if msg == nil {
			return errors.New("verify: -bin needs -m or -in")
		}
		pkFile, err := keys.LoadPublic(dir)
		if err != nil {
			return fmt.Errorf("load public key: %w", err)
		}
		par, pk, err := pkFile.Decode()
		if err != nil {
			return err
		}
		s, err := keys.ReadSignatureFile(path, par)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if err := ntru.CheckSignature(par, pk, msg, s); err != nil {
			return fmt.Errorf("verify failed: %w", err)
		}
		fmt.Println("signature verified")
		return nil
	}

	sig, err := keys.Load(dir)
	if err != nil {
		return fmt.Errorf("load signature: %w", err)
	}
	if c.Bool("trusted") {
		pkFile, err := keys.LoadPublic(dir)
		if err != nil {
			return fmt.Errorf("load public key: %w", err)
		}
		err = signverify.VerifyWithKey(pkFile, sig, msg)
	} else {
		err = signverify.Verify(sig, msg)
	}
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}
	fmt.Println("signature verified")
	return nil
}

func runParams(c *cli.Context) error {
	var (
		par ntru.Params
		err error
	)
	switch c.String("preset") {
	case "toy":
		par, err = ntru.ToyParams()
	case "default":
		par, err = ntru.DefaultParams()
	default:
		return fmt.Errorf("unknown preset %q", c.String("preset"))
	}
	if err != nil {
		return err
	}
	out := c.String("out")
	if err := ntruio.SaveParams(out, par); err != nil {
		return err
	}
	fmt.Printf("parameters written to %s\n", out)
	return nil
}

func openStore(c *cli.Context) (*keystore.Store, error) {
	return keystore.Open(c.String("db"))
}

func requireName(c *cli.Context) (string, error) {
	name := c.String("name")
	if name == "" {
		return "", errors.New("-name is required")
	}
	return name, nil
}

func runStorePut(c *cli.Context) error {
	name, err := requireName(c)
	if err != nil {
		return err
	}
	par, kp, err := signverify.LoadKeyPair(c.String("dir"))
	if err != nil {
		return err
	}
	s, err := openStore(c)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.PutKeyPair(name, par, kp); err != nil {
		return err
	}
	fmt.Printf("stored key pair %q\n", name)
	return nil
}

func runStoreExport(c *cli.Context) error {
	name, err := requireName(c)
	if err != nil {
		return err
	}
	s, err := openStore(c)
	if err != nil {
		return err
	}
	defer s.Close()
	par, kp, err := s.GetKeyPair(name)
	if err != nil {
		return err
	}
	dir := c.String("dir")
	if err := keys.SavePublic(dir, keys.NewPublicKey(par, kp.Public)); err != nil {
		return err
	}
	if err := keys.SavePrivate(dir, keys.NewPrivateKey(par, kp.Private)); err != nil {
		return err
	}
	fmt.Printf("key pair %q written to %s\n", name, dir)
	return nil
}

func runStoreList(c *cli.Context) error {
	s, err := openStore(c)
	if err != nil {
		return err
	}
	defer s.Close()
	names, err := s.ListKeys()
	if err != nil {
		return err
	}
	ids, err := s.ListSignatures()
	if err != nil {
		return err
	}
	fmt.Printf("key pairs (%d):\n", len(names))
	for _, n := range names {
		fmt.Println("  " + n)
	}
	fmt.Printf("signatures (%d):\n", len(ids))
	for _, id := range ids {
		fmt.Println("  " + id)
	}
	return nil
}

func runStoreSign(c *cli.Context) error {
	name, err := requireName(c)
	if err != nil {
		return err
	}
	msg, err := messageFromFlags(c)
	if err != nil {
		return err
	}
	if msg == nil {
		return errors.New("sign: -m or -in is required")
	}
	rng, err := rngFromFlags(c)
	if err != nil {
		return err
	}
	s, err := openStore(c)
	if err != nil {
		return err
	}
	defer s.Close()
	par, kp, err := s.GetKeyPair(name)
	if err != nil {
		return err
	}
	sig, err := signverify.SignMessage(par, kp, msg, rng, ntru.SignOpts{})
	if err != nil {
		return err
	}
	id := c.String("id")
	if id == "" {
		id = fmt.Sprintf("%s/%s", name, time.Now().UTC().Format(time.RFC3339Nano))
	}
	if err := s.PutSignature(id, sig); err != nil {
		return err
	}
	fmt.Printf("signature stored as %q (trials_used=%d)\n", id, sig.Signature.TrialsUsed)
	return nil
}

func runStoreVerify(c *cli.Context) error {
	s, err := openStore(c)
	if err != nil {
		return err
	}
	defer s.Close()
	ids, err := s.ListSignatures()
	if err != nil {
		return err
	}
	docs := make([]signverify.Document, 0, len(ids))
	for _, id := range ids {
		sig, err := s.GetSignature(id)
		if err != nil {
			return err
		}
		docs = append(docs, signverify.Document{Name: id, Signature: sig})
	}
	results := signverify.VerifyBatch(context.Background(), docs, c.Int("workers"))
	failed := 0
	for i, err := range results {
		if err != nil {
			failed++
			fmt.Printf("FAIL %s: %v\n", docs[i].Name, err)
			continue
		}
		fmt.Printf("ok   %s\n", docs[i].Name)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d signatures failed", failed, len(docs))
	}
	return nil
}
