// Package main is the holder-side proving tool. It commits to a credential
// payload under a blinding factor and emits the commitment plus a Groth16
// proof ready to submit to the verification endpoint.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"credvault/internal/zkp"
)

type proofOutput struct {
	Commitment string `json:"commitment"`
	Blinding   string `json:"blinding"`
	Proof      string `json:"proof"`
}

func main() {
	payloadFlag := flag.String("payload", "", "Credential payload to commit to (required)")
	blindingFlag := flag.String("blinding", "", "Hex-encoded blinding factor (random if empty)")
	keyPath := flag.String("proving-key", "keys/proving.key", "Path to the Groth16 proving key")
	flag.Parse()

	if *payloadFlag == "" {
		fmt.Fprintln(os.Stderr, "-payload is required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*payloadFlag, *blindingFlag, *keyPath); err != nil {
		fmt.Fprintf(os.Stderr, "zkprove: %v\n", err)
		os.Exit(1)
	}
}

func run(payload, blindingHex, keyPath string) error {
	blinding, err := resolveBlinding(blindingHex)
	if err != nil {
		return err
	}

	ccs, err := zkp.Compile()
	if err != nil {
		return err
	}
	pk, err := zkp.LoadProvingKey(keyPath)
	if err != nil {
		return err
	}

	proof, commitment, err := zkp.NewProver(ccs, pk).Prove([]byte(payload), blinding)
	if err != nil {
		return err
	}

	out := proofOutput{
		Commitment: commitment.String(),
		Blinding:   hex.EncodeToString(blinding),
		Proof:      base64.StdEncoding.EncodeToString(proof),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func resolveBlinding(blindingHex string) ([]byte, error) {
	if blindingHex != "" {
		blinding, err := hex.DecodeString(blindingHex)
		if err != nil {
			return nil, fmt.Errorf("decode blinding: %w", err)
		}
		return blinding, nil
	}
	blinding := make([]byte, 32)
	if _, err := rand.Read(blinding); err != nil {
		return nil, fmt.Errorf("generate blinding: %w", err)
	}
	return blinding, nil
}
