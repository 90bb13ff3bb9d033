package output

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/blackwell-systems/revibe/internal/metrics"
)

func TestVisualLen_PlainText(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"hello", 5},
		{"", 0},
		{"abc def", 7},
	}

	for _, tc := range tests {
		got := visualLen(tc.input)
		if got != tc.want {
			t.Errorf("visualLen(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestVisualLen_StripsANSI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{
			name:  "bold",
			input: "\x1b[1mhello\x1b[0m",
			want:  5,
		},
		{
			name:  "color",
			input: "\x1b[31mred\x1b[0m",
			want:  3,
		},
		{
			name:  "multiple sequences",
			input: "\x1b[1m\x1b[34mblue bold\x1b[0m",
			want:  9,
		},
		{
			name:  "no ansi",
			input: "plain text",
			want:  10,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := visualLen(tc.input)
			if got != tc.want {
				t.Errorf("visualLen() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestPad(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  int // expected length of output
	}{
		{"needs padding", "hi", 10, 10},
		{"exact width", "hello", 5, 5},
		{"over width", "toolong", 3, 7}, // no truncation
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := pad(tc.input, tc.width)
			if len(got) != tc.want {
				t.Errorf("pad(%q, %d) len = %d, want %d", tc.input, tc.width, len(got), tc.want)
			}
		})
	}
}

func TestTable_Render(t *testing.T) {
	// Disable color so we get predictable output.
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("Name", "Score")
	tbl.AddRow("Alice", "95")
	tbl.AddRow("Bob", "87")

	output := tbl.Render()

	// Should contain headers.
	if !strings.Contains(output, "Name") {
		t.Error("expected header 'Name' in output")
	}
	if !strings.Contains(output, "Score") {
		t.Error("expected header 'Score' in output")
	}

	// Should contain data.
	if !strings.Contains(output, "Alice") {
		t.Error("expected 'Alice' in output")
	}
	if !strings.Contains(output, "Bob") {
		t.Error("expected 'Bob' in output")
	}

	// Should have separator line.
	if !strings.Contains(output, "─") {
		t.Error("expected separator character in output")
	}

	// Count lines: header + separator + 2 data rows = 4 lines.
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) != 4 {
		t.Errorf("expected 4 lines, got %d", len(lines))
	}
}

func TestTable_EmptyHeaders(t *testing.T) {
	tbl := NewTable()
	output := tbl.Render()
	if output != "" {
		t.Errorf("expected empty output for empty table, got %q", output)
	}
}

func TestTable_ColumnWidths(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("A", "LongHeader")
	tbl.AddRow("VeryLongValue", "X")

	output := tbl.Render()
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")

	if len(lines) < 3 {
		t.Fatalf("expected at least 3 lines, got %d", len(lines))
	}

	// The data row should be padded so columns align.
	dataLine := lines[2]
	if !strings.Contains(dataLine, "VeryLongValue") {
		t.Error("expected data row to contain 'VeryLongValue'")
	}
}

func TestTable_String(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("Col1")
	tbl.AddRow("Val1")

	// String() should equal Render().
	if tbl.String() != tbl.Render() {
		t.Error("String() != Render()")
	}
}

func TestTable_AddRowPadsMissingValues(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	tbl := NewTable("Language", "Files", "Lines")
	tbl.AddRow("Go")
	tbl.AddRow("Python", "3", "120", "extra")

	if tbl.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tbl.Len())
	}
	if strings.Contains(tbl.Render(), "extra") {
		t.Error("expected extra values to be dropped")
	}
}

func TestTable_StyledCellsAlign(t *testing.T) {
	tbl := NewTable("Name", "Risk")
	tbl.AddRow("a", "\x1b[31mHIGH\x1b[0m")
	tbl.AddRow("bb", "LOW")

	if tbl.widths[1] != 4 {
		t.Errorf("expected styled column width 4, got %d", tbl.widths[1])
	}
}

func TestSetNoColor(t *testing.T) {
	SetNoColor(true)
	if !IsNoColor() {
		t.Error("expected IsNoColor after SetNoColor(true)")
	}
	rendered := StyleHeader.Render("test")
	if strings.Contains(rendered, "\x1b[") {
		t.Error("expected no ANSI codes after SetNoColor(true)")
	}

	SetNoColor(false)
	if IsNoColor() {
		t.Error("expected color re-enabled")
	}
}

func TestShouldColor(t *testing.T) {
	var buf bytes.Buffer
	if ShouldColor(&buf, false, true) {
		t.Error("expected no color for a non-file writer")
	}
	if ShouldColor(os.Stdout, true, true) {
		t.Error("expected the flag to disable color")
	}
	if ShouldColor(os.Stdout, false, false) {
		t.Error("expected config to disable color")
	}
}

// ---------------------------------------------------------------------------
// Bars and styles
// ---------------------------------------------------------------------------

func TestScoreBar(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	if got := ScoreBar(80, 10); got != "████████░░ 80/100" {
		t.Errorf("unexpected bar %q", got)
	}
	if got := ScoreBar(150, 4); got != "████ 150/100" {
		t.Errorf("expected clamped bar, got %q", got)
	}
	if got := ScoreBar(-5, 4); got != "░░░░ -5/100" {
		t.Errorf("expected empty bar, got %q", got)
	}
}

func TestSmellBar(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	if got := SmellBar(0.3, 10); got != "███░░░░░░░  30%" {
		t.Errorf("unexpected bar %q", got)
	}
	if got := SmellBar(1, 5); got != "█████ 100%" {
		t.Errorf("unexpected bar %q", got)
	}
}

func TestTrendArrow(t *testing.T) {
	SetNoColor(true)
	defer SetNoColor(false)

	if got := TrendArrow(2.5, true); got != "▲ +2.5" {
		t.Errorf("unexpected arrow %q", got)
	}
	if got := TrendArrow(-1, false); got != "▼ -1.0" {
		t.Errorf("unexpected arrow %q", got)
	}
	if got := TrendArrow(0, true); got != "─" {
		t.Errorf("unexpected arrow %q", got)
	}
}

func TestRiskColor(t *testing.T) {
	if RiskColor(metrics.RiskLow) != ColorSuccess {
		t.Error("expected LOW to be green")
	}
	if RiskColor(metrics.RiskCritical) != ColorError {
		t.Error("expected CRITICAL to be red")
	}
	if RiskColor(metrics.RiskUnknown) != ColorMuted {
		t.Error("expected UNKNOWN to be muted")
	}
}

func TestThousands(t *testing.T) {
	tests := map[int]string{0: "0", 999: "999", 1000: "1,000", 10001: "10,001", 1234567: "1,234,567", -4500: "-4,500"}
	for n, want := range tests {
		if got := Thousands(n); got != want {
			t.Errorf("Thousands(%d): expected %q, got %q", n, want, got)
		}
	}
}
