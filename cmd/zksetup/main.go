// Package main runs the Groth16 trusted setup for the commitment circuit and
// writes the key pair to disk. Run it once per circuit version; the server
// only needs the verifying key, provers need the proving key.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"credvault/internal/zkp"
)

func main() {
	outDir := flag.String("out", "keys", "Directory to write proving.key and verifying.key into")
	flag.Parse()

	if err := run(*outDir); err != nil {
		fmt.Fprintf(os.Stderr, "zksetup: %v\n", err)
		os.Exit(1)
	}
}

func run(outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	ccs, pk, vk, err := zkp.Setup()
	if err != nil {
		return err
	}
	fmt.Printf("circuit compiled: %d constraints\n", ccs.GetNbConstraints())

	provingPath := filepath.Join(outDir, "proving.key")
	verifyingPath := filepath.Join(outDir, "verifying.key")

	// The proving key runs to megabytes; write both keys concurrently.
	var g errgroup.Group
	g.Go(func() error {
		return writeKey(provingPath, func(f *os.File) error {
			return zkp.WriteProvingKey(f, pk)
		})
	})
	g.Go(func() error {
		return writeKey(verifyingPath, func(f *os.File) error {
			return zkp.WriteVerifyingKey(f, vk)
		})
	})
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", provingPath)
	fmt.Printf("wrote %s\n", verifyingPath)
	return nil
}

func writeKey(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close() //nolint:errcheck // write error takes precedence
		return err
	}
	return f.Close()
}
