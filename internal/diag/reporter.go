package diag

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/mdsync/internal/errors"
)

// Format specifies the output format for validation reports.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
	// FormatYAML produces machine-readable YAML output.
	FormatYAML Format = "yaml"
)

// ValidFormat reports whether f is a supported report format.
func ValidFormat(f Format) bool {
	switch f {
	case FormatText, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// Reporter formats and writes validation results.
type Reporter struct {
	out    io.Writer
	format Format
}

// NewReporter creates a new Reporter.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{
		out:    out,
		format: format,
	}
}

// report is the serialized shape for JSON and YAML output.
type report struct {
	Valid    bool      `json:"valid" yaml:"valid"`
	Errors   int       `json:"errors" yaml:"errors"`
	Warnings int       `json:"warnings" yaml:"warnings"`
	Problems []Problem `json:"problems" yaml:"problems"`
	Failures []string  `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Report writes the validation result to the output.
func (r *Reporter) Report(result *Result) error {
	if result == nil {
		return nil
	}

	switch r.format {
	case FormatJSON:
		return r.reportJSON(result)
	case FormatYAML:
		return r.reportYAML(result)
	default:
		return r.reportText(result)
	}
}

func (r *Reporter) buildReport(result *Result) report {
	rep := report{
		Valid:    result.Count() == 0,
		Errors:   result.CountBySeverity(SeverityError),
		Warnings: result.CountBySeverity(SeverityWarning),
		Problems: result.Problems,
	}
	for _, f := range result.Failures {
		rep.Failures = append(rep.Failures, fmt.Sprintf("%s: %v", f.File, f.Err))
	}
	return rep
}

// reportJSON writes the result as JSON.
func (r *Reporter) reportJSON(result *Result) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(r.buildReport(result)), "encoding JSON report")
}

// reportYAML writes the result as YAML.
func (r *Reporter) reportYAML(result *Result) error {
	encoder := yaml.NewEncoder(r.out)
	defer encoder.Close()
	return errors.Wrap(encoder.Encode(r.buildReport(result)), "encoding YAML report")
}

// reportText writes the result as human-readable text, grouped by file.
func (r *Reporter) reportText(result *Result) error {
	if result.Count() == 0 && len(result.Failures) == 0 {
		fmt.Fprintln(r.out, color.GreenString("✓ Validation passed"))
		return nil
	}

	// Group problems by file, preserving first-seen file order.
	var order []string
	byFile := make(map[string][]Problem)
	for _, p := range result.Problems {
		if _, seen := byFile[p.File]; !seen {
			order = append(order, p.File)
		}
		byFile[p.File] = append(byFile[p.File], p)
	}

	errorCount := result.CountBySeverity(SeverityError)
	warningCount := result.CountBySeverity(SeverityWarning)

	var summary []string
	if errorCount > 0 {
		summary = append(summary, color.RedString("%d error(s)", errorCount))
	}
	if warningCount > 0 {
		summary = append(summary, color.YellowString("%d warning(s)", warningCount))
	}
	if other := result.Count() - errorCount - warningCount; other > 0 {
		summary = append(summary, fmt.Sprintf("%d note(s)", other))
	}
	if len(summary) > 0 {
		fmt.Fprintf(r.out, "Validation failed: %s\n\n", strings.Join(summary, ", "))
	}

	for _, file := range order {
		fmt.Fprintln(r.out, color.New(color.Bold).Sprint(file))
		for _, p := range byFile[file] {
			r.printProblem(p)
		}
		fmt.Fprintln(r.out)
	}

	if len(result.Failures) > 0 {
		fmt.Fprintln(r.out, "Skipped (could not validate):")
		for _, f := range result.Failures {
			fmt.Fprintf(r.out, "  • %s: %v\n", f.File, f.Err)
		}
		fmt.Fprintln(r.out)
	}

	return nil
}

func (r *Reporter) printProblem(p Problem) {
	var c color.Attribute
	switch p.Severity {
	case SeverityError:
		c = color.FgRed
	case SeverityWarning:
		c = color.FgYellow
	default:
		c = color.FgCyan
	}
	printer := color.New(c).SprintFunc()

	// Format:  line:col severity message (source)
	var sb strings.Builder
	fmt.Fprintf(&sb, "  %d:%d ", p.Range.Start.Line+1, p.Range.Start.Character+1)
	sb.WriteString(printer(p.Severity.String()))
	sb.WriteString(" ")
	sb.WriteString(p.Message)
	if p.Source != "" {
		sb.WriteString(" ")
		sb.WriteString(color.New(color.FgHiBlack).Sprintf("(%s)", p.Source))
	}
	fmt.Fprintln(r.out, sb.String())
}
