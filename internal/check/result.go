package check

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Result is the outcome of one scenario; Err is nil on success.
type Result struct {
	Name string
	Err  error
}

// Results collects every scenario outcome of a suite run.
type Results struct {
	Scenarios []Result
	Failures  []Result
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

func (r *Results) record(name string, err error) {
	res := Result{Name: name, Err: err}
	r.Scenarios = append(r.Scenarios, res)
	if err != nil {
		r.Failures = append(r.Failures, res)
	}
}

// Reporter receives progress while a suite runs.
type Reporter interface {
	ScenarioStarted(name string)
	ScenarioFinished(name string, err error)
	Summary(results Results)
}

// ConsoleReporter prints one line per scenario and a closing summary.
type ConsoleReporter struct {
	Out     io.Writer
	Verbose bool
}

var (
	passLabel = color.New(color.FgGreen).SprintFunc()
	failLabel = color.New(color.FgRed, color.Bold).SprintFunc()
)

func (c ConsoleReporter) ScenarioStarted(name string) {
	if c.Verbose {
		fmt.Fprintf(c.Out, "... %s\n", name)
	}
}

func (c ConsoleReporter) ScenarioFinished(name string, err error) {
	if err != nil {
		fmt.Fprintf(c.Out, "%s %s\n      %s\n", failLabel("FAIL"), name, err)
		return
	}
	fmt.Fprintf(c.Out, "%s %s\n", passLabel("PASS"), name)
}

func (c ConsoleReporter) Summary(results Results) {
	if results.OK() {
		fmt.Fprintf(c.Out, "\n%s: %d scenarios\n", passLabel("all passed"), len(results.Scenarios))
		return
	}
	fmt.Fprintf(c.Out, "\n%s: %d of %d scenarios\n",
		failLabel("failed"), len(results.Failures), len(results.Scenarios))
	for _, f := range results.Failures {
		fmt.Fprintf(c.Out, "  - %s: %s\n", f.Name, f.Err)
	}
}

type nullReporter struct{}

func (nullReporter) ScenarioStarted(string)         {}
func (nullReporter) ScenarioFinished(string, error) {}
func (nullReporter) Summary(Results)                {}
