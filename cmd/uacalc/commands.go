package main

import (
	"fmt"
	"os"

	"github.com/jamiewannenburg/uacalcsrc-sub007/algebra"
	"github.com/jamiewannenburg/uacalcsrc-sub007/congruence"
	"github.com/jamiewannenburg/uacalcsrc-sub007/subalgebra"
	"github.com/jamiewannenburg/uacalcsrc-sub007/term"
	"github.com/jamiewannenburg/uacalcsrc-sub007/typefind"
	"github.com/jamiewannenburg/uacalcsrc-sub007/uaerr"
	"github.com/jamiewannenburg/uacalcsrc-sub007/uaio"
)

// openFile opens path for reading, wrapping a failure as IOError so
// every Reader entry point surfaces errors the same way.
func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, uaerr.Wrap(uaerr.IOError, "uacalc.openFile", path, err)
	}
	return f, nil
}

// loadAlgebra reads the algebra named by --in (a Mace4 model if
// --mace4 is present, the native .ua/.alg format otherwise) and wires
// its Con/Sub lazy caches to the congruence/subalgebra packages, so
// every other command can call a.Con()/a.Sub() without knowing which
// package built them.
func loadAlgebra(args map[string]string) (*algebra.Algebra, error) {
	path, err := requireArg(args, "in")
	if err != nil {
		return nil, err
	}
	var a *algebra.Algebra
	if _, ok := args["mace4"]; ok {
		f, ferr := openFile(path)
		if ferr != nil {
			return nil, ferr
		}
		defer f.Close()
		algs, rerr := uaio.ReadMace4(f)
		if rerr != nil {
			return nil, rerr
		}
		if len(algs) == 0 {
			return nil, uaerr.New(uaerr.ParseError, "uacalc.loadAlgebra", "no interpretation found in "+path)
		}
		a = algs[0]
	} else {
		a, err = uaio.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}
	congruence.Install(a, congruence.Budget{})
	subalgebra.Install(a, subalgebra.Budget{})
	return a, nil
}

func opSummaries(a *algebra.Algebra) []map[string]interface{} {
	ops := a.Operations()
	out := make([]map[string]interface{}, len(ops))
	for i, o := range ops {
		out[i] = map[string]interface{}{
			"name":  o.Symbol().Name(),
			"arity": o.Arity(),
		}
	}
	return out
}

func cmdRead(args map[string]string) (interface{}, error) {
	a, err := loadAlgebra(args)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"command":     "read",
		"name":        a.Name(),
		"cardinality": a.Cardinality(),
		"operations":  opSummaries(a),
		"status":      "ok",
	}, nil
}

func cmdCg(args map[string]string) (interface{}, error) {
	a, err := loadAlgebra(args)
	if err != nil {
		return nil, err
	}
	x, err := parseIntArg(args, "x")
	if err != nil {
		return nil, err
	}
	y, err := parseIntArg(args, "y")
	if err != nil {
		return nil, err
	}
	pt, err := congruence.Cg(a, x, y, congruence.Budget{})
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"command":   "cg",
		"x":         x,
		"y":         y,
		"partition": pt.RawArray(),
		"status":    "ok",
	}, nil
}

func cmdCon(args map[string]string) (interface{}, error) {
	a, err := loadAlgebra(args)
	if err != nil {
		return nil, err
	}
	lat, err := a.Con()
	if err != nil {
		return nil, err
	}
	cl, ok := lat.(*congruence.Lattice)
	if !ok {
		return nil, uaerr.New(uaerr.InvariantViolation, "uacalc.cmdCon", "unexpected congruence lattice implementation").WithAlgebra(a.Name())
	}
	all := cl.AllCongruences()
	parts := make([][]int32, len(all))
	for i, p := range all {
		parts[i] = p.RawArray()
	}
	distributive, derr := cl.IsDistributive()
	if derr != nil {
		return nil, derr
	}
	modular, merr := cl.IsModular()
	if merr != nil {
		return nil, merr
	}
	return map[string]interface{}{
		"command":      "con",
		"cardinality":  cl.Cardinality(),
		"partitions":   parts,
		"distributive": distributive,
		"modular":      modular,
		"status":       "ok",
	}, nil
}

func cmdSub(args map[string]string) (interface{}, error) {
	a, err := loadAlgebra(args)
	if err != nil {
		return nil, err
	}
	if seedStr, ok := args["seed"]; ok {
		seed, perr := parseIntCSV(seedStr)
		if perr != nil {
			return nil, uaerr.New(uaerr.ParseError, "uacalc.cmdSub", perr.Error())
		}
		su, gerr := subalgebra.GeneratedSubuniverse(a, seed, subalgebra.Budget{})
		if gerr != nil {
			return nil, gerr
		}
		return map[string]interface{}{
			"command":     "sub",
			"seed":        seed,
			"subuniverse": []int(su),
			"status":      "ok",
		}, nil
	}
	lat, err := a.Sub()
	if err != nil {
		return nil, err
	}
	sl, ok := lat.(*subalgebra.Lattice)
	if !ok {
		return nil, uaerr.New(uaerr.InvariantViolation, "uacalc.cmdSub", "unexpected subalgebra lattice implementation").WithAlgebra(a.Name())
	}
	all := sl.AllSubuniverses()
	subs := make([][]int, len(all))
	for i, su := range all {
		subs[i] = []int(su)
	}
	return map[string]interface{}{
		"command":      "sub",
		"cardinality":  sl.Cardinality(),
		"subuniverses": subs,
		"status":       "ok",
	}, nil
}

func cmdType(args map[string]string) (interface{}, error) {
	a, err := loadAlgebra(args)
	if err != nil {
		return nil, err
	}
	types, err := typefind.FindTypeSet(a, congruence.Budget{}, typefind.Budget{})
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(types))
	for t := range types {
		out = append(out, t)
	}
	return map[string]interface{}{
		"command": "type",
		"types":   out,
		"status":  "ok",
	}, nil
}

func cmdEval(args map[string]string) (interface{}, error) {
	a, err := loadAlgebra(args)
	if err != nil {
		return nil, err
	}
	termStr, err := requireArg(args, "term")
	if err != nil {
		return nil, err
	}
	t, perr := term.StringToTerm(termStr)
	if perr != nil {
		return nil, perr
	}
	argCSV, err := requireArg(args, "args")
	if err != nil {
		return nil, err
	}
	vals, perr2 := parseIntCSV(argCSV)
	if perr2 != nil {
		return nil, uaerr.New(uaerr.ParseError, "uacalc.cmdEval", perr2.Error())
	}
	vars := term.Variables(t)
	if len(vars) != len(vals) {
		return nil, uaerr.New(uaerr.OutOfRange, "uacalc.cmdEval",
			fmt.Sprintf("term has %d free variable(s), got %d --args value(s)", len(vars), len(vals)))
	}
	result, verr := term.IntValueAt(t, a, vars, vals)
	if verr != nil {
		return nil, verr
	}
	varNames := make([]string, len(vars))
	for i, v := range vars {
		varNames[i] = v.Name()
	}
	return map[string]interface{}{
		"command":   "eval",
		"term":      termStr,
		"variables": varNames,
		"args":      vals,
		"value":     result,
		"status":    "ok",
	}, nil
}
