package common

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kylelemons/godebug/pretty"
	"github.com/ledgerwatch/log/v3"

	"cromulator/cromulator"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.out.js")
	if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := WriteFileAtomic(path, []byte("new contents")); err != nil {
		t.Fatalf("TestWriteFileAtomic: got err == %s, want err == nil", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new contents" {
		t.Errorf("TestWriteFileAtomic: got %q, want %q", got, "new contents")
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("TestWriteFileAtomic: got mode %v, want 0600", info.Mode().Perm())
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("TestWriteFileAtomic: got %d entries, want 1 (temp file left behind)", len(entries))
	}
}

func TestWriteFileAtomicNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.js")
	if err := WriteFileAtomic(path, []byte("x")); err != nil {
		t.Fatalf("TestWriteFileAtomicNewFile: got err == %s, want err == nil", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Errorf("TestWriteFileAtomicNewFile: got mode %v, want 0644", info.Mode().Perm())
	}
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "a.js")
	if err := WriteFileAtomic(path, []byte("x")); err == nil {
		t.Errorf("TestWriteFileAtomicMissingDir: got err == nil, want err != nil")
	}
}

func TestReadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.js")
	if err := os.WriteFile(path, []byte("from file"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"Success: file", path, "from file", false},
		{"Success: stdin", StdinPath, "from stdin", false},
		{"Error: missing file", filepath.Join(t.TempDir(), "missing.js"), "", true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ReadInput(test.path, strings.NewReader("from stdin"))
			switch {
			case err != nil && !test.wantErr:
				t.Errorf("got err == %s, want err == nil", err)
			case err == nil && test.wantErr:
				t.Errorf("got err == nil, want err != nil")
			case string(got) != test.want:
				t.Errorf("got %q, want %q", got, test.want)
			}
		})
	}
}

func TestSummarizeScores(t *testing.T) {
	steps := []cromulator.Step{
		{Score: -10, Side: cromulator.Tail},
		{Score: -4, Side: cromulator.Head},
		{Score: 0, Side: cromulator.Tail},
		{Score: 2, Side: cromulator.Head},
	}
	got := SummarizeScores(steps)
	want := &ScoreStats{
		Steps:       4,
		Min:         -10,
		Max:         2,
		Sum:         -12,
		Mean:        -3,
		Median:      -2,
		StdDev:      math.Sqrt((49 + 1 + 9 + 25) / 4.0),
		Q1:          -5.5,
		Q3:          0.5,
		HeadCount:   2,
		HeadRatio:   0.5,
		NoGainCount: 2,
	}
	if diff := pretty.Compare(want, got); diff != "" {
		t.Errorf("TestSummarizeScores: mismatch (-want +got):\n%s", diff)
	}

	if empty := SummarizeScores(nil); empty.Steps != 0 || empty.Min != 0 {
		t.Errorf("TestSummarizeScores: empty input got %+v", empty)
	}
}

func TestHumanSizeAndRatio(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"bytes", HumanSize(512), "512 B"},
		{"kilobytes", HumanSize(2048), "2.0 KB"},
		{"negative", HumanSize(-2048), "-2.0 KB"},
		{"ratio", Ratio(1, 4), "25.00%"},
		{"ratio of zero", Ratio(1, 0), "n/a"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if test.got != test.want {
				t.Errorf("got %q, want %q", test.got, test.want)
			}
		})
	}
}

func TestCountingWriter(t *testing.T) {
	var w CountingWriter
	_, _ = w.Write([]byte("abc"))
	_, _ = w.Write([]byte("de"))
	if w.N != 5 {
		t.Errorf("TestCountingWriter: got %d, want 5", w.N)
	}
	w.Reset()
	if w.N != 0 {
		t.Errorf("TestCountingWriter: got %d after reset, want 0", w.N)
	}
}

func TestProgressNonTTY(t *testing.T) {
	var logs bytes.Buffer
	logger := log.New()
	logger.SetHandler(log.StreamHandler(&logs, log.LogfmtFormat()))

	var out bytes.Buffer
	p := NewProgress(&out, logger, "a.js")
	for done := 1; done <= 100; done++ {
		p.Update(done, 100)
	}
	if out.Len() != 0 {
		t.Errorf("TestProgressNonTTY: got %q on the writer, want nothing", out.String())
	}
	lines := strings.Count(logs.String(), "reorder progress")
	// 首次 + 每 10% + 最后一步
	if lines < 10 || lines > 12 {
		t.Errorf("TestProgressNonTTY: got %d log lines, want about 11:\n%s", lines, logs.String())
	}
	if !strings.Contains(logs.String(), "done=100") {
		t.Errorf("TestProgressNonTTY: final step not reported:\n%s", logs.String())
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		quiet, verbose bool
		want           log.Lvl
	}{
		{false, false, log.LvlInfo},
		{true, false, log.LvlWarn},
		{false, true, log.LvlDebug},
		{true, true, log.LvlWarn},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("quiet=%v,verbose=%v", test.quiet, test.verbose), func(t *testing.T) {
			if got := LogLevel(test.quiet, test.verbose); got != test.want {
				t.Errorf("got %v, want %v", got, test.want)
			}
		})
	}
}

func TestPlotGains(t *testing.T) {
	steps := make([]cromulator.Step, 20)
	for i := range steps {
		steps[i] = cromulator.Step{Done: i + 2, Score: -i}
	}
	path := filepath.Join(t.TempDir(), "gains.png")
	if err := PlotGains(steps, "a.js", path); err != nil {
		t.Fatalf("TestPlotGains: got err == %s, want err == nil", err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Errorf("TestPlotGains: got (%v, %v), want a non-empty file", info, err)
	}
}
