// Package header emits the harness-facing declarations spec.md §4.G and
// §6 describe: a contracts.h-equivalent listing every compiled
// function's extern C signature, plus verbatim copies of the runtime
// helper sources the emitted IR links against
// (original_source/src/cffigen.rs::generate/write_deps).
package header

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/0b01/solenoid/runtimec"
)

// contractHalfParams is the native parameter list shared by every
// contract's constructor and runtime entry point (spec.md §4.G), spelled
// in real C types so a C toolchain can compile the emitted header.
var contractHalfParams = []string{
	"unsigned char *msg", "long msg_len", "long *ret_offset", "long *ret_len",
	"unsigned char *storage", "unsigned char *caller",
}

// Stub is one `extern void name(params...);` declaration destined for
// contracts.h.
type Stub struct {
	Name   string
	Params []string
}

func (s Stub) String() string {
	return fmt.Sprintf("extern void %s(%s);", s.Name, strings.Join(s.Params, ", "))
}

// Generator accumulates stubs across however many contracts one
// combined-json payload describes, then emits one contracts.h covering
// all of them (original_source/src/cffigen.rs::CFFIGenerator).
type Generator struct {
	stubs []Stub
}

// New creates an empty Generator.
func New() *Generator {
	return &Generator{}
}

// AddContract declares name's constructor and runtime entry points.
func (g *Generator) AddContract(name string) {
	g.stubs = append(g.stubs,
		Stub{Name: name + "_constructor", Params: contractHalfParams},
		Stub{Name: name + "_runtime", Params: contractHalfParams},
	)
}

// AddShim declares one ABI-encoding shim's native signature. cParamTypes
// lists each argument's C type in declaration order, matching whatever
// shim.Generator.paramLLVMType chose for that parameter.
func (g *Generator) AddShim(shimName string, cParamTypes []string) {
	params := append([]string{"unsigned char *out_buf", "int *out_len"}, cParamTypes...)
	g.stubs = append(g.stubs, Stub{Name: shimName, Params: params})
}

// Generate writes contracts.h and the verbatim runtime sources into
// outDir (spec.md §6). It generates no host-language binding.
func (g *Generator) Generate(outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("header: creating %s: %w", outDir, err)
	}

	var b strings.Builder
	b.WriteString("/* This header file is automatically generated by solenoid. Do not modify it by hand. */\n")
	b.WriteString("\n#include <stdint.h>\n#include \"rt.h\"\n\n")
	for i, s := range g.stubs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(s.String())
	}
	b.WriteString("\n")

	headerPath := filepath.Join(outDir, "contracts.h")
	if err := os.WriteFile(headerPath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("header: writing %s: %w", headerPath, err)
	}

	return WriteRuntimeSources(outDir)
}

// WriteRuntimeSources places verbatim copies of rt.{c,h}, sha3.{c,h},
// and utils.{c,h} into outDir so a C toolchain can compile and link the
// emitted IR without checking out this repository separately.
func WriteRuntimeSources(outDir string) error {
	for name, content := range runtimec.Files() {
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("header: writing %s: %w", path, err)
		}
	}
	return nil
}
