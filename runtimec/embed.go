// Package runtimec holds the verbatim C sources implementing the
// externally linked helpers bridge declares (spec.md §4.C), embedded so
// the header package can ship them alongside the generated C header
// without the caller needing to locate this repository's checkout on
// disk (spec.md §6 artifact 4).
package runtimec

import _ "embed"

//go:embed rt.c
var RTC string

//go:embed rt.h
var RTH string

//go:embed sha3.c
var Sha3C string

//go:embed sha3.h
var Sha3H string

//go:embed utils.c
var UtilsC string

//go:embed utils.h
var UtilsH string

// Files maps each source's on-disk name to its verbatim content — the same
// six files original_source/src/cffigen.rs::write_deps ships. As a map it
// carries no order.
func Files() map[string]string {
	return map[string]string{
		"rt.c":    RTC,
		"rt.h":    RTH,
		"sha3.c":  Sha3C,
		"sha3.h":  Sha3H,
		"utils.c": UtilsC,
		"utils.h": UtilsH,
	}
}
