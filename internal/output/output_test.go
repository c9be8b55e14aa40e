package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/tidyedit/pkg/cleaner/tidy"
)

func testReport(source string) Report {
	return Report{
		Source:   source,
		Pipeline: []string{"strip_container(div)", "prune_empty(em)"},
		Stats: &tidy.Stats{
			InputBytes:  20,
			OutputBytes: 5,
			Stages: []tidy.StageStats{
				{Name: "strip_container(div)", Removed: 2},
				{Name: "prune_empty(em)", Removed: 1},
			},
		},
	}
}

// --- Factory ---

func TestNewWriter(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatText, "*output.TextWriter"},
		{FormatJSON, "*output.JSONWriter"},
		{FormatJSONL, "*output.JSONLWriter"},
		{FormatYAML, "*output.YAMLWriter"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			w, err := NewWriter(&bytes.Buffer{}, tt.format)
			if err != nil {
				t.Fatalf("NewWriter() error = %v", err)
			}
			if got := fmt.Sprintf("%T", w); got != tt.want {
				t.Errorf("NewWriter(%s) = %s, want %s", tt.format, got, tt.want)
			}
		})
	}
}

func TestNewWriter_UnsupportedFormat(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, Format("xml"))
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected unsupported format error, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{" JSONL ", FormatJSONL, false},
		{"yaml", FormatYAML, false},
		{"text", FormatText, false},
		{"xml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// --- JSON ---

func TestJSONWriter_SingleReportIsObject(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, true, "  ")

	if err := w.Write(testReport("a.html")); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Error("JSON output should be buffered until Close")
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	var got Report
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not a JSON object: %v\n%s", err, buf.String())
	}
	if got.Source != "a.html" || got.Stats.TotalRemoved() != 3 {
		t.Errorf("unexpected report: %+v", got)
	}
	if !strings.Contains(buf.String(), "\n  \"source\"") {
		t.Errorf("expected indented output, got %s", buf.String())
	}
}

func TestJSONWriter_MultipleReportsIsArray(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, false, "")

	_ = w.Write(testReport("a.html"))
	_ = w.Write(testReport("b.html"))
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	var got []Report
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not a JSON array: %v\n%s", err, buf.String())
	}
	if len(got) != 2 || got[1].Source != "b.html" {
		t.Errorf("unexpected reports: %+v", got)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("compact output should be one line, got %q", buf.String())
	}
}

func TestJSONWriter_Empty(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, true, "  ")
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

// --- JSONL ---

func TestJSONLWriter_StreamsLines(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONLWriter(buf)

	_ = w.Write(testReport("a.html"))
	if lines := strings.Count(buf.String(), "\n"); lines != 1 {
		t.Errorf("expected 1 line after first write, got %d", lines)
	}
	_ = w.Write(testReport("b.html"))
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for i, line := range lines {
		var r Report
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			t.Errorf("line %d is not JSON: %v", i, err)
		}
	}
}

// --- YAML ---

func TestYAMLWriter_Documents(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewYAMLWriter(buf)

	_ = w.Write(testReport("a.html"))
	_ = w.Write(testReport("b.html"))
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	dec := yaml.NewDecoder(strings.NewReader(buf.String()))
	var sources []string
	for {
		var r Report
		if err := dec.Decode(&r); err != nil {
			break
		}
		sources = append(sources, r.Source)
	}
	if len(sources) != 2 || sources[0] != "a.html" || sources[1] != "b.html" {
		t.Errorf("decoded sources = %v\n%s", sources, buf.String())
	}
	if !strings.Contains(buf.String(), "input_bytes: 20") {
		t.Errorf("expected yaml field names, got:\n%s", buf.String())
	}
}

// --- Text ---

func TestTextWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewTextWriter(buf)

	r := testReport("-")
	r.Warnings = []tidy.Warning{{Stage: "dom_prune(em)", Message: "boom"}}
	if err := w.Write(r); err != nil {
		t.Fatal(err)
	}
	_ = w.Close()

	out := buf.String()
	for _, want := range []string{"== -", "20 -> 5 bytes", "Removed: 3", "Warning: [dom_prune(em)] boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestNewReport(t *testing.T) {
	result := &tidy.Result{Content: "x", Stats: &tidy.Stats{InputBytes: 1, OutputBytes: 1}}
	result.AddWarning("s", "m")

	r := NewReport("in.html", []string{"s"}, result)
	if r.Source != "in.html" || r.Stats != result.Stats || len(r.Warnings) != 1 {
		t.Errorf("unexpected report: %+v", r)
	}
}
