// Command uacalc is the calculator's command-line surface (spec §6):
// a fixed `<command> [--key value ...]` grammar, one JSON object on
// stdout per invocation, and an exit code that reflects the outcome
// (0 success, 1 domain-level failure, 2 unknown command or argument
// parse error).
//
// Grounded on sentra-language-sentra/cmd/sentra/main.go's hand-rolled
// os.Args dispatch over a command table: no flag.FlagSet, since the
// standard flag package's `-f value` conventions and lack of
// subcommands don't fit a fixed `<command> [--key value...]` grammar.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jamiewannenburg/uacalcsrc-sub007/uaerr"
)

type command func(args map[string]string) (interface{}, error)

var commands = map[string]command{
	"cg":   cmdCg,
	"con":  cmdCon,
	"sub":  cmdSub,
	"type": cmdType,
	"eval": cmdEval,
	"read": cmdRead,
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	if len(argv) == 0 {
		showUsage()
		return 2
	}
	name := argv[0]
	if name == "help" || name == "--help" || name == "-h" {
		showUsage()
		return 0
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "uacalc: unknown command %q\n", name)
		showUsage()
		return 2
	}
	args, err := parseFlags(argv[1:])
	if err != nil {
		printError(uaerr.New(uaerr.ParseError, "uacalc.parseFlags", err.Error()))
		return 2
	}
	result, err := cmd(args)
	if err != nil {
		printError(err)
		if ae, ok := err.(*uaerr.Error); ok && ae.Kind == uaerr.ParseError {
			return 2
		}
		return 1
	}
	out, jerr := json.Marshal(result)
	if jerr != nil {
		printError(uaerr.Wrap(uaerr.IOError, "uacalc.marshal", "", jerr))
		return 1
	}
	fmt.Println(string(out))
	return 0
}

// parseFlags scans "--key value" pairs, spec §6's entire argument
// grammar: no short flags, no "--flag=value" form, no boolean flags
// without a value.
func parseFlags(argv []string) (map[string]string, error) {
	args := map[string]string{}
	i := 0
	for i < len(argv) {
		tok := argv[i]
		if !strings.HasPrefix(tok, "--") {
			return nil, fmt.Errorf("expected a --key flag, got %q", tok)
		}
		key := strings.TrimPrefix(tok, "--")
		if key == "" {
			return nil, fmt.Errorf("empty flag name")
		}
		if i+1 >= len(argv) {
			return nil, fmt.Errorf("flag --%s is missing its value", key)
		}
		args[key] = argv[i+1]
		i += 2
	}
	return args, nil
}

func printError(err error) {
	kind := uaerr.IOError
	msg := err.Error()
	if ae, ok := err.(*uaerr.Error); ok {
		kind = ae.Kind
	}
	out, _ := json.Marshal(struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}{kind.String(), msg})
	fmt.Println(string(out))
}

func showUsage() {
	fmt.Println("uacalc - finite algebra calculator")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  uacalc read --in <path> [--mace4 true]")
	fmt.Println("  uacalc cg   --in <path> --x <int> --y <int>")
	fmt.Println("  uacalc con  --in <path>")
	fmt.Println("  uacalc sub  --in <path> [--seed 0,1,2]")
	fmt.Println("  uacalc type --in <path>")
	fmt.Println("  uacalc eval --in <path> --term <string> --args <csv>")
}

func requireArg(args map[string]string, key string) (string, error) {
	v, ok := args[key]
	if !ok || v == "" {
		return "", uaerr.New(uaerr.ParseError, "uacalc."+key, fmt.Sprintf("missing required --%s", key))
	}
	return v, nil
}

func parseIntArg(args map[string]string, key string) (int, error) {
	s, err := requireArg(args, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, uaerr.New(uaerr.ParseError, "uacalc."+key, fmt.Sprintf("invalid integer %q for --%s", s, key))
	}
	return n, nil
}

func parseIntCSV(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", p)
		}
		out[i] = n
	}
	return out, nil
}
