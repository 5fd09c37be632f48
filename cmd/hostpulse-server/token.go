package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/VerteraIO/hostpulse/internal/security/runtoken"
)

// runToken implements `hostpulse-server token`: it prints a run token signed
// with HOSTPULSE_RUN_JWT_SECRET.
func runToken(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(stderr)
	ttl := fs.Duration("ttl", 15*time.Minute, "token lifetime")
	subject := fs.String("subject", "operator", "token subject")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	secret := os.Getenv("HOSTPULSE_RUN_JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(stderr, "HOSTPULSE_RUN_JWT_SECRET must be set to mint run tokens")
		return 1
	}
	tok, err := runtoken.IssueToken([]byte(secret), *subject, *ttl)
	if err != nil {
		fmt.Fprintf(stderr, "failed to issue token: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, tok)
	return 0
}
