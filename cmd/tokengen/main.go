// Package main provides a CLI tool for generating bearer tokens for local
// testing. These tokens use the dev signing key and will NOT work against a
// server configured with a real JWT_SIGNING_KEY.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"credvault/internal/platform/token"
	id "credvault/pkg/domain"
	"credvault/pkg/secrets"
)

// Matches config.go when JWT_SIGNING_KEY is not set.
const devSigningKey = "dev-secret-key-change-in-production"

type tokenOutput struct {
	Token     string `json:"token"`
	Principal string `json:"principal"`
	ExpiresIn string `json:"expires_in"`
	Usage     string `json:"usage"`
}

func main() {
	principalFlag := flag.String("principal", "", "Principal identity to embed in the token (required)")
	ttl := flag.Duration("ttl", time.Hour, "Token time-to-live")
	signingKey := flag.String("signing-key", "", "Override signing key (defaults to the dev key)")
	asJSON := flag.Bool("json", false, "Output as JSON")
	genKey := flag.Bool("genkey", false, "Generate a fresh signing key for JWT_SIGNING_KEY and exit")
	flag.Parse()

	if *genKey {
		key, err := secrets.Generate()
		if err != nil {
			fmt.Fprintf(os.Stderr, "generate signing key: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(key)
		return
	}

	principal, err := id.ParsePrincipalID(*principalFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -principal: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	key := *signingKey
	if key == "" {
		key = devSigningKey
	}

	tokenString, err := token.NewManager(key).Issue(principal, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue token: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		out := tokenOutput{
			Token:     tokenString,
			Principal: principal.String(),
			ExpiresIn: ttl.String(),
			Usage:     "Authorization: Bearer <token>",
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintf(os.Stderr, "encode output: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println(tokenString)
}
