package sandbox

import (
	"fmt"
	"runtime/debug"

	"Minerva_1.0/internal/models"
	"Minerva_1.0/pkg/logger"
)

// Contract binding names every generated script is asked to define.
const (
	bindChartType = "chart_type"
	bindPlotData  = "plot_data"
	bindFig       = "fig"
)

// Executor runs chart-plan scripts to completion or failure. Failures never
// escape Execute: the orchestrator always gets a structured Result back.
type Executor struct {
	log *logger.Logger
}

// NewExecutor creates an Executor.
func NewExecutor(log *logger.Logger) *Executor {
	return &Executor{log: log}
}

// Execute runs the script against a scope holding only the input dataset
// under the name "df" and reads back the three contract bindings. A missing
// binding degrades to a benign default rather than failing: a partial chart
// and table may still be individually useful.
func (e *Executor) Execute(script string, ds *models.Dataset) (result *models.Result) {
	defer func() {
		if r := recover(); r != nil {
			e.log.WithError(models.ErrorInfo{
				Message: fmt.Sprintf("%v", r),
				Stack:   string(debug.Stack()),
				Type:    "execution_error",
			}).Error("Chart plan execution panicked")
			result = &models.Result{Success: false, Error: fmt.Sprintf("%v", r)}
		}
	}()

	toks, err := lex(script)
	if err != nil {
		return e.failure(err)
	}
	stmts, err := parse(toks)
	if err != nil {
		return e.failure(err)
	}

	// The script sees a copy of the dataset, so even in-place verbs added
	// later could not reach the caller's value.
	sc := scope{"df": ds.Clone()}
	if err := run(stmts, sc); err != nil {
		return e.failure(err)
	}

	res := &models.Result{Success: true, ChartType: "Unknown", PlotData: &models.Dataset{}}
	if v, ok := sc[bindChartType].(string); ok {
		res.ChartType = v
	}
	if v, ok := sc[bindPlotData].(*models.Dataset); ok {
		res.PlotData = v
	}
	if v, ok := sc[bindFig].(*models.ChartSpec); ok {
		res.Fig = v
	}
	return res
}

// failure logs the diagnostic trace and converts the error into a failure
// record; only the description text travels back to the caller.
func (e *Executor) failure(err error) *models.Result {
	e.log.WithError(models.ErrorInfo{Message: err.Error(), Type: "execution_error"}).
		Error("Chart plan execution failed")
	return &models.Result{Success: false, Error: err.Error()}
}
