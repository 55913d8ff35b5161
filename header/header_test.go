package header_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/0b01/solenoid/header"
	"github.com/stretchr/testify/assert"
)

func TestGenerateWritesHeaderAndRuntimeSources(t *testing.T) {
	dir := t.TempDir()

	g := header.New()
	g.AddContract("Token")
	g.AddShim("Token_transfer_0_abi", []string{"unsigned char *to", "unsigned char *amount"})

	err := g.Generate(dir)
	assert.NoError(t, err)

	headerBytes, err := os.ReadFile(filepath.Join(dir, "contracts.h"))
	assert.NoError(t, err)
	headerText := string(headerBytes)
	assert.Contains(t, headerText, "#include <stdint.h>")
	assert.Contains(t, headerText, "#include \"rt.h\"")
	assert.Contains(t, headerText, "extern void Token_constructor(unsigned char *msg")
	assert.Contains(t, headerText, "extern void Token_runtime(unsigned char *msg")
	assert.Contains(t, headerText, "extern void Token_transfer_0_abi(unsigned char *out_buf")

	for _, name := range []string{"rt.c", "rt.h", "sha3.c", "sha3.h", "utils.c", "utils.h"} {
		info, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
		assert.Greater(t, info.Size(), int64(0), name)
	}
}

func TestStubStringFormatsParams(t *testing.T) {
	s := header.Stub{Name: "foo", Params: []string{"unsigned char *a", "long b"}}
	assert.Equal(t, "extern void foo(unsigned char *a, long b);", s.String())
}
