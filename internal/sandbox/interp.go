package sandbox

import (
	"errors"
	"fmt"

	"Minerva_1.0/internal/models"
)

// grouped is the intermediate value produced by groupby/resample, waiting for
// an aggregation verb.
type grouped struct {
	ds *models.Dataset
	by string
}

// scope holds the script's variable bindings. It starts with exactly one
// entry, "df", and nothing else from the caller ever leaks in.
type scope map[string]any

func run(stmts []stmt, sc scope) error {
	for _, s := range stmts {
		v, err := eval(s.value, sc)
		if err != nil {
			return err
		}
		if s.target != "" {
			sc[s.target] = v
		}
	}
	return nil
}

func eval(e expr, sc scope) (any, error) {
	switch n := e.(type) {
	case *stringLit:
		return n.val, nil
	case *numberLit:
		return n.val, nil
	case *noneLit:
		return nil, nil
	case *identExpr:
		v, ok := sc[n.name]
		if !ok {
			return nil, fmt.Errorf("undefined name %q", n.name)
		}
		return v, nil
	case *callExpr:
		if n.recv == nil {
			return evalCall(n, sc)
		}
		return evalMethod(n, sc)
	default:
		return nil, fmt.Errorf("unsupported expression")
	}
}

// evalCall dispatches top-level functions: the chart constructors and raise.
func evalCall(call *callExpr, sc scope) (any, error) {
	switch call.name {
	case "bar", "line", "scatter", "pie":
		return buildChart(call, sc)
	case "raise":
		args, err := evalArgs(call.args, sc)
		if err != nil {
			return nil, err
		}
		msg := "raised by script"
		if len(args) > 0 {
			if s, ok := args[0].value.(string); ok {
				msg = s
			}
		}
		return nil, errors.New(msg)
	default:
		return nil, fmt.Errorf("unknown function %q", call.name)
	}
}

// evalMethod dispatches dataset and grouped-handle verbs.
func evalMethod(call *callExpr, sc scope) (any, error) {
	recv, err := eval(call.recv, sc)
	if err != nil {
		return nil, err
	}
	args, err := evalArgs(call.args, sc)
	if err != nil {
		return nil, err
	}

	switch r := recv.(type) {
	case *models.Dataset:
		return datasetMethod(r, call.name, args)
	case *grouped:
		return groupedMethod(r, call.name, args)
	default:
		return nil, fmt.Errorf("cannot call %q on a %T value", call.name, recv)
	}
}

func datasetMethod(ds *models.Dataset, name string, args []evaluatedArg) (any, error) {
	switch name {
	case "groupby":
		col, err := stringArg(args, 0, "column")
		if err != nil {
			return nil, err
		}
		if !ds.HasColumn(col) {
			return nil, fmt.Errorf("unknown column %q", col)
		}
		return &grouped{ds: ds, by: col}, nil
	case "resample":
		col, err := stringArg(args, 0, "column")
		if err != nil {
			return nil, err
		}
		period, err := stringArg(args, 1, "period")
		if err != nil {
			return nil, err
		}
		derived, err := ds.Resample(col, period)
		if err != nil {
			return nil, err
		}
		return &grouped{ds: derived, by: col}, nil
	case "head":
		if len(args) == 0 {
			return ds.Head(5), nil
		}
		n, ok := args[0].value.(float64)
		if !ok {
			return nil, fmt.Errorf("head expects a number")
		}
		return ds.Head(int(n)), nil
	case "filter":
		col, err := stringArg(args, 0, "column")
		if err != nil {
			return nil, err
		}
		op, err := stringArg(args, 1, "operator")
		if err != nil {
			return nil, err
		}
		if len(args) < 3 {
			return nil, fmt.Errorf("filter expects a comparison value")
		}
		return ds.Filter(col, op, args[2].value)
	case "sort":
		col, err := stringArg(args, 0, "column")
		if err != nil {
			return nil, err
		}
		desc := false
		if len(args) > 1 {
			if dir, ok := args[1].value.(string); ok && dir == "desc" {
				desc = true
			}
		}
		return ds.SortBy(col, desc)
	case "reset_index":
		// Renames the aggregate column, mirroring the pandas habit the
		// models already know.
		name, err := stringArg(args, 0, "name")
		if err != nil {
			return nil, err
		}
		if len(ds.Columns) == 0 {
			return ds, nil
		}
		out := ds.Clone()
		out.Columns[len(out.Columns)-1].Name = name
		return out, nil
	default:
		return nil, fmt.Errorf("dataset has no operation %q", name)
	}
}

func groupedMethod(g *grouped, name string, args []evaluatedArg) (any, error) {
	switch name {
	case "count":
		return g.ds.GroupCount(g.by, "count")
	case "sum":
		col, err := stringArg(args, 0, "column")
		if err != nil {
			return nil, err
		}
		return g.ds.GroupSum(g.by, col, "sum")
	case "mean":
		col, err := stringArg(args, 0, "column")
		if err != nil {
			return nil, err
		}
		return g.ds.GroupMean(g.by, col, "mean")
	default:
		return nil, fmt.Errorf("grouped data has no operation %q", name)
	}
}

// buildChart constructs a ChartSpec from a chart constructor call. The first
// positional (or data=) argument must be an aggregated dataset; referenced
// columns must exist in it.
func buildChart(call *callExpr, sc scope) (*models.ChartSpec, error) {
	args, err := evalArgs(call.args, sc)
	if err != nil {
		return nil, err
	}

	spec := &models.ChartSpec{Kind: call.name}
	for _, a := range args {
		switch a.name {
		case "":
			if ds, ok := a.value.(*models.Dataset); ok && spec.Data == nil {
				spec.Data = ds
				continue
			}
			return nil, fmt.Errorf("%s: unexpected positional argument", call.name)
		case "data":
			ds, ok := a.value.(*models.Dataset)
			if !ok {
				return nil, fmt.Errorf("%s: data must be a dataset", call.name)
			}
			spec.Data = ds
		case "x":
			spec.X, _ = a.value.(string)
		case "y":
			spec.Y, _ = a.value.(string)
		case "names":
			spec.Names, _ = a.value.(string)
		case "values":
			spec.Values, _ = a.value.(string)
		case "title":
			spec.Title, _ = a.value.(string)
		default:
			return nil, fmt.Errorf("%s: unknown argument %q", call.name, a.name)
		}
	}
	if spec.Data == nil {
		return nil, fmt.Errorf("%s: missing chart data", call.name)
	}
	for _, col := range []string{spec.X, spec.Y, spec.Names, spec.Values} {
		if col != "" && !spec.Data.HasColumn(col) {
			return nil, fmt.Errorf("%s: unknown column %q in chart data", call.name, col)
		}
	}
	return spec, nil
}

type evaluatedArg struct {
	name  string
	value any
}

func evalArgs(args []callArg, sc scope) ([]evaluatedArg, error) {
	out := make([]evaluatedArg, len(args))
	for i, a := range args {
		v, err := eval(a.value, sc)
		if err != nil {
			return nil, err
		}
		out[i] = evaluatedArg{name: a.name, value: v}
	}
	return out, nil
}

func stringArg(args []evaluatedArg, i int, what string) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("missing %s argument", what)
	}
	s, ok := args[i].value.(string)
	if !ok {
		return "", fmt.Errorf("%s argument must be a string", what)
	}
	return s, nil
}
