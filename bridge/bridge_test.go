package bridge_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/0b01/solenoid/bridge"
	solir "github.com/0b01/solenoid/ir"
)

func TestDeclarationsAreIdempotent(t *testing.T) {
	mod := solir.NewModule("test")
	b := bridge.New(mod)

	first := b.Keccak256()
	second := b.Keccak256()
	if first != second {
		t.Error("expected repeated Keccak256() calls to return the same *ir.Func")
	}
}

func TestUnusedHelpersAreNotDeclared(t *testing.T) {
	mod := solir.NewModule("test")
	b := bridge.New(mod)
	b.Revert()

	var buf bytes.Buffer
	if _, err := mod.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "@revert") {
		t.Errorf("expected revert to be declared, got:\n%s", out)
	}
	if strings.Contains(out, "@keccak256") {
		t.Errorf("expected keccak256 to be absent since it was never requested, got:\n%s", out)
	}
}
