// Command solenoid is the CLI front end (spec.md §1 item a, §6): it
// shells out to an external source-language compiler, disassembles each
// contract's constructor and runtime bytecode, and drives the codegen,
// shim, and header packages to produce one `<contract>.ll` file per
// contract (each contract is compiled into its own module; no single
// combined module is written) plus one shared `contracts.h`/runtime-source
// bundle per invocation (original_source/src/bin.rs's compile loop).
package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/0b01/solenoid/abi"
	"github.com/0b01/solenoid/codegen"
	"github.com/0b01/solenoid/disasm"
	"github.com/0b01/solenoid/header"
	"github.com/0b01/solenoid/shim"
	"github.com/urfave/cli/v2"
)

func main() {
	log.SetPrefix("solenoid: ")
	log.SetFlags(0)

	app := &cli.App{
		Name:      "solenoid",
		Usage:     "compile EVM-style bytecode to LLVM IR",
		ArgsUsage: "<source.sol>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "insert stack-dump calls after every lowered instruction"},
			&cli.BoolFlag{Name: "print-opcodes", Usage: "print the disassembly of each compiled half before lowering"},
			&cli.StringFlag{Name: "output-dir", Value: "out", Usage: "directory to write .ll files and the C header bundle to"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("solenoid: missing source file argument")
	}
	source := c.Args().Get(0)
	debug := c.Bool("debug")
	printOpcodes := c.Bool("print-opcodes")
	outputDir := c.String("output-dir")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("solenoid: creating output directory %s: %w", outputDir, err)
	}

	combinedJSON, err := runSolc(source)
	if err != nil {
		return err
	}

	contracts, err := abi.LoadCombinedJSON(combinedJSON)
	if err != nil {
		return fmt.Errorf("solenoid: %w", err)
	}

	names := make([]string, 0, len(contracts))
	for name := range contracts {
		names = append(names, name)
	}
	sort.Strings(names)

	hdr := header.New()
	for _, name := range names {
		if err := compileContract(name, contracts[name], outputDir, debug, printOpcodes, hdr); err != nil {
			return err
		}
	}

	return hdr.Generate(outputDir)
}

func runSolc(source string) ([]byte, error) {
	cmd := exec.Command("solc", source, "--combined-json", "bin,bin-runtime,abi")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("solenoid: running solc: %w", err)
	}
	return out, nil
}

func compileContract(name string, contract abi.Contract, outputDir string, debug, printOpcodes bool, hdr *header.Generator) error {
	log.Printf("compiling %s constructor", name)
	c := codegen.NewCompiler(name, debug)

	if printOpcodes {
		printDisassembly(name+"_constructor", contract.Bin)
		printDisassembly(name+"_runtime", contract.BinRuntime)
	}

	if _, err := c.CompileConstructor(name+"_constructor", contract.Bin); err != nil {
		return fmt.Errorf("solenoid: %w", err)
	}

	log.Printf("compiling %s runtime", name)
	if _, err := c.CompileRuntime(name+"_runtime", contract.BinRuntime); err != nil {
		return fmt.Errorf("solenoid: %w", err)
	}

	sg := shim.New(c.Mod, c.Bridge)
	for i, fn := range contract.Functions {
		shimName := shim.FunctionShimName(name, i, fn)
		sg.GenerateFunctionShim(shimName, fn)
		hdr.AddShim(shimName, cParamTypes(fn.Inputs))
	}
	codeGlobal := c.Mod.DataGlobal(name+"_ctor_code", contract.Bin)
	ctorShimName := shim.ConstructorShimName(name)
	sg.GenerateConstructorShim(ctorShimName, codeGlobal, uint64(len(contract.Bin)), contract.ConstructorInputs)
	hdr.AddShim(ctorShimName, cParamTypes(contract.ConstructorInputs))
	hdr.AddContract(name)

	llPath := filepath.Join(outputDir, name+".ll")
	f, err := os.Create(llPath)
	if err != nil {
		return fmt.Errorf("solenoid: creating %s: %w", llPath, err)
	}
	defer f.Close()

	if _, err := c.Mod.WriteTo(f); err != nil {
		return fmt.Errorf("solenoid: writing %s: %w", llPath, err)
	}
	return nil
}

func printDisassembly(label string, code []byte) {
	instrs, err := disasm.Disassemble(code)
	if err != nil {
		log.Printf("%s: %v", label, err)
		return
	}
	fmt.Printf("-- %s --\n%s", label, disasm.FormatOpcodes(instrs))
}

// cParamTypes maps each ABI parameter to the native C type its shim
// declares, mirroring original_source/src/cffigen.rs::add_abi_function's
// table (and shim.Generator.paramLLVMType's LLVM-side counterpart).
func cParamTypes(params []abi.Param) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = fmt.Sprintf("%s %s", cParamType(p.Type), p.Name)
	}
	return out
}

func cParamType(pt abi.ParamType) string {
	switch pt.Kind {
	case abi.KindUint:
		switch pt.Bits {
		case 8:
			return "uint8_t"
		case 16:
			return "uint16_t"
		case 32:
			return "uint32_t"
		case 64:
			return "uint64_t"
		default:
			return "unsigned char *"
		}
	case abi.KindInt:
		switch pt.Bits {
		case 8:
			return "int8_t"
		case 16:
			return "int16_t"
		case 32:
			return "int32_t"
		case 64:
			return "int64_t"
		default:
			return "unsigned char *"
		}
	case abi.KindBool:
		return "int"
	default:
		return "unsigned char *"
	}
}
