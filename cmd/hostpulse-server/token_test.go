package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/VerteraIO/hostpulse/internal/security/runtoken"
)

func TestRunTokenPrintsVerifiableToken(t *testing.T) {
	t.Setenv("HOSTPULSE_RUN_JWT_SECRET", "test-secret")
	var out, errOut bytes.Buffer
	if code := runToken([]string{"-ttl", "2m", "-subject", "ci"}, &out, &errOut); code != 0 {
		t.Fatalf("runToken exit %d: %s", code, errOut.String())
	}
	claims, err := runtoken.VerifyToken([]byte("test-secret"), strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.Subject != "ci" {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}
}

func TestRunTokenRequiresSecret(t *testing.T) {
	t.Setenv("HOSTPULSE_RUN_JWT_SECRET", "")
	var out, errOut bytes.Buffer
	if code := runToken(nil, &out, &errOut); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if out.Len() != 0 || !strings.Contains(errOut.String(), "HOSTPULSE_RUN_JWT_SECRET") {
		t.Fatalf("unexpected output: stdout=%q stderr=%q", out.String(), errOut.String())
	}
}
