package diag

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func sampleResult() *Result {
	r := &Result{}
	r.Add(
		Problem{
			File:     "/repo/content/blog/hello/index.json",
			Message:  "Missing required field: title",
			Severity: SeverityError,
			Source:   "metadata-fields",
		},
		Problem{
			File:     "/repo/content/blog/hello/index.mdx",
			Message:  "Content should include at least one heading",
			Severity: SeverityWarning,
			Source:   "content-structure",
		},
	)
	return r
}

func TestReporter_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := NewReporter(&buf, FormatText).Report(sampleResult()); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"1 error(s)",
		"1 warning(s)",
		"/repo/content/blog/hello/index.json",
		"Missing required field: title",
		"(metadata-fields)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestReporter_TextClean(t *testing.T) {
	var buf bytes.Buffer
	if err := NewReporter(&buf, FormatText).Report(&Result{}); err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Validation passed") {
		t.Errorf("clean run should report success: %q", buf.String())
	}
}

func TestReporter_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewReporter(&buf, FormatJSON).Report(sampleResult()); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	var rep struct {
		Valid    bool `json:"valid"`
		Errors   int  `json:"errors"`
		Warnings int  `json:"warnings"`
		Problems []struct {
			Severity string `json:"severity"`
			Message  string `json:"message"`
		} `json:"problems"`
	}
	if err := json.Unmarshal(buf.Bytes(), &rep); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if rep.Valid {
		t.Error("valid should be false")
	}
	if rep.Errors != 1 || rep.Warnings != 1 {
		t.Errorf("counts = %d/%d, want 1/1", rep.Errors, rep.Warnings)
	}
	if len(rep.Problems) != 2 || rep.Problems[0].Severity != "error" {
		t.Errorf("problems = %+v", rep.Problems)
	}
}

func TestReporter_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := NewReporter(&buf, FormatYAML).Report(sampleResult()); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	var rep map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &rep); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if rep["valid"] != false {
		t.Errorf("valid = %v, want false", rep["valid"])
	}
}

func TestValidFormat(t *testing.T) {
	for _, f := range []Format{FormatText, FormatJSON, FormatYAML} {
		if !ValidFormat(f) {
			t.Errorf("ValidFormat(%q) = false", f)
		}
	}
	if ValidFormat(Format("xml")) {
		t.Error("xml should not be a valid format")
	}
}
