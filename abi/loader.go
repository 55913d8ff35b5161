package abi

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// combinedJSON mirrors the shape `solc --combined-json bin,bin-runtime,abi`
// emits: {"contracts": {"file.sol:Name": {abi, bin, bin-runtime}}}
// (original_source/src/bin.rs's Contracts/Contract structs).
type combinedJSON struct {
	Contracts map[string]struct {
		ABI        json.RawMessage `json:"abi"`
		Bin        string          `json:"bin"`
		BinRuntime string          `json:"bin-runtime"`
	} `json:"contracts"`
}

type abiEntry struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Inputs []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"inputs"`
}

// LoadCombinedJSON decodes the output of the external source-language
// compiler (assumed to exist per spec.md §1) into one Contract per entry,
// keyed by the short contract name (the part after the last ':' in solc's
// "file.sol:Name" keys).
func LoadCombinedJSON(data []byte) (map[string]Contract, error) {
	var raw combinedJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("abi: decoding combined-json: %w", err)
	}

	out := make(map[string]Contract, len(raw.Contracts))
	for fullName, c := range raw.Contracts {
		name := fullName
		if i := strings.LastIndexByte(fullName, ':'); i >= 0 {
			name = fullName[i+1:]
		}

		bin, err := hex.DecodeString(strings.TrimPrefix(c.Bin, "0x"))
		if err != nil {
			return nil, fmt.Errorf("abi: decoding bin for %s: %w", name, err)
		}
		binRuntime, err := hex.DecodeString(strings.TrimPrefix(c.BinRuntime, "0x"))
		if err != nil {
			return nil, fmt.Errorf("abi: decoding bin-runtime for %s: %w", name, err)
		}

		functions, ctorInputs, err := parseABI(c.ABI)
		if err != nil {
			return nil, fmt.Errorf("abi: parsing abi for %s: %w", name, err)
		}

		out[name] = Contract{
			Name:              name,
			Functions:         functions,
			ConstructorInputs: ctorInputs,
			Bin:               bin,
			BinRuntime:        binRuntime,
		}
	}
	return out, nil
}

func parseABI(raw json.RawMessage) (funcs []Function, ctorInputs []Param, err error) {
	if len(raw) == 0 {
		return nil, nil, nil
	}
	var entries []abiEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, nil, err
	}

	for _, e := range entries {
		switch e.Type {
		case "constructor":
			for _, in := range e.Inputs {
				pt, err := Read(in.Type)
				if err != nil {
					return nil, nil, fmt.Errorf("constructor input %s: %w", in.Name, err)
				}
				ctorInputs = append(ctorInputs, Param{Name: in.Name, Type: pt})
			}
		case "", "function":
			fn := Function{Name: e.Name}
			for _, in := range e.Inputs {
				pt, err := Read(in.Type)
				if err != nil {
					return nil, nil, fmt.Errorf("function %s input %s: %w", e.Name, in.Name, err)
				}
				fn.Inputs = append(fn.Inputs, Param{Name: in.Name, Type: pt})
			}
			funcs = append(funcs, fn)
		}
	}
	return funcs, ctorInputs, nil
}
