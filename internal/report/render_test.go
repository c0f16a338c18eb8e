package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/wenchiehlee-investment/Gemini-CLI/internal/core"
)

func sampleTable() core.ModelLimitsTable {
	return core.ModelLimitsTable{
		"Global":         {core.RequestsPerMinute: core.NumericLimit(1000)},
		"gemini-2.5-pro": {core.RequestsPerDay: core.UnlimitedLimit()},
	}
}

func TestRender_Snapshot(t *testing.T) {
	got := Render(sampleTable(), []string{"Global", "gemini-2.5-pro"})

	want := "" +
		"Model Name                     | RPM             | RPD             | TPM            \n" +
		"-------------------------------------------------------------------------------------\n" +
		"Global                         | 1000            | -               | -              \n" +
		"gemini-2.5-pro                 | -               | Unlimited       | -              \n" +
		"-------------------------------------------------------------------------------------\n" +
		"RPM = Requests Per Minute, RPD = Requests Per Day, TPM = Tokens Per Minute\n" +
		"'-' means no specific limit found (or unlimited if not explicitly set to -1).\n"

	if got != want {
		t.Errorf("Render() mismatch\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRender_Deterministic(t *testing.T) {
	models := []string{"Global", "gemini-2.5-pro"}
	first := Render(sampleTable(), models)
	for i := 0; i < 20; i++ {
		if got := Render(sampleTable(), models); got != first {
			t.Fatalf("render %d differs from first render", i)
		}
	}
}

func TestRender_OnlyListedModels(t *testing.T) {
	got := Render(sampleTable(), []string{"gemini-2.5-pro"})
	if strings.Contains(got, "Global") {
		t.Error("unlisted model should not be rendered")
	}
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 6 {
		t.Errorf("lines = %d, want 6", len(lines))
	}
	if len(lines[1]) != 85 {
		t.Errorf("separator width = %d, want 85", len(lines[1]))
	}
}

func TestRender_LongModelNameNotTruncated(t *testing.T) {
	long := "gemini-2.5-flash-lite-001-some-very-long-suffix"
	table := core.ModelLimitsTable{long: {core.TokensPerMinute: core.NumericLimit(5)}}
	got := Render(table, []string{long})
	if !strings.Contains(got, long+" | - ") {
		t.Errorf("long model row missing or truncated:\n%s", got)
	}
}

func TestStyler_StripsToPlain(t *testing.T) {
	var buf bytes.Buffer
	models := []string{"Global", "gemini-2.5-pro"}
	styled := NewStyler(&buf).Render(sampleTable(), models)
	if got, want := ansi.Strip(styled), Render(sampleTable(), models); got != want {
		t.Errorf("stripped styled output differs from plain\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestBlock(t *testing.T) {
	report := "Model Name\n"

	got := Block(report, time.Time{})
	want := "\n```text\nModel Name\n```\n"
	if got != want {
		t.Errorf("Block() = %q, want %q", got, want)
	}

	at := time.Date(2026, 10, 17, 8, 30, 0, 0, time.FixedZone("CST", 8*3600))
	got = Block(report, at)
	want = "\n```text\nLast updated: 2026-10-17T00:30:00Z\n\nModel Name\n```\n"
	if got != want {
		t.Errorf("Block() with timestamp = %q, want %q", got, want)
	}

	if got := Block("no newline", time.Time{}); !strings.HasSuffix(got, "no newline\n```\n") {
		t.Errorf("Block() should terminate the report line, got %q", got)
	}
}
