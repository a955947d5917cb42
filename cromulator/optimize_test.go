package cromulator

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

func TestOptimize(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		window     int
		wantBlocks int
	}{
		{"Success: identical bodies", scenarioInput, DefaultWindowSize, 2},
		{"Success: no functions", "a\n// EMSCRIPTEN_START_FUNCS\n\n// EMSCRIPTEN_END_FUNCS\nb", DefaultWindowSize, 0},
		{"Success: one function", "a\n// EMSCRIPTEN_START_FUNCS\nfunction f(){}\n// EMSCRIPTEN_END_FUNCS\nb", DefaultWindowSize, 1},
		{"Success: many functions, unbounded window", corpusInput(makeCorpus(5, 2)), 0, 5},
		{"Success: many functions, small window", corpusInput(makeCorpus(30, 4)), 4, 30},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			oracle := &zlibOracle{}
			out, report, err := Optimize(context.Background(), []byte(test.input), oracle, Options{WindowSize: test.window})
			if err != nil {
				t.Fatalf("got err == %s, want err == nil", err)
			}
			if report.Blocks != test.wantBlocks {
				t.Errorf("got %d blocks, want %d", report.Blocks, test.wantBlocks)
			}
			if want := max(test.wantBlocks-1, 0); len(report.Steps) != want {
				t.Errorf("got %d steps, want %d", len(report.Steps), want)
			}
			if report.Before <= 0 || report.After <= 0 {
				t.Errorf("got before %d after %d, want both > 0", report.Before, report.After)
			}
			// 没有可重排的块时，只有报告用的两次整体压缩
			if test.wantBlocks == 0 && oracle.calls.Load() != 2 {
				t.Errorf("got %d oracle calls, want 2", oracle.calls.Load())
			}

			in, err := Split([]byte(test.input))
			if err != nil {
				t.Fatal(err)
			}
			got, err := Split(out)
			if err != nil {
				t.Fatalf("output does not split: %s", err)
			}
			if !bytes.Equal(in.Prologue, got.Prologue) || !bytes.Equal(in.Epilogue, got.Epilogue) || !bytes.Equal(in.Lead, got.Lead) {
				t.Errorf("wrapper changed")
			}
			want, have := blockTexts(in.Blocks), blockTexts(got.Blocks)
			sort.Strings(want)
			sort.Strings(have)
			if diff := pretty.Compare(want, have); diff != "" {
				t.Errorf("blocks are not a permutation (-want +got):\n%s", diff)
			}
			if test.wantBlocks <= 1 && string(out) != test.input {
				t.Errorf("got %q, want input unchanged", out)
			}
		})
	}
}

func TestOptimizeScenarioOne(t *testing.T) {
	out, _, err := Optimize(context.Background(), []byte(scenarioInput), &zlibOracle{}, Options{WindowSize: DefaultWindowSize})
	if err != nil {
		t.Fatalf("TestOptimizeScenarioOne: got err == %s, want err == nil", err)
	}
	s := string(out)
	if !strings.HasPrefix(s, "PRE\n// EMSCRIPTEN_START_FUNCS\n") || !strings.HasSuffix(s, "// EMSCRIPTEN_END_FUNCS\nPOST") {
		t.Errorf("TestOptimizeScenarioOne: wrapper lost in %q", s)
	}
	for _, f := range []string{"function a(){X}", "function b(){X}"} {
		if strings.Count(s, f) != 1 {
			t.Errorf("TestOptimizeScenarioOne: %q appears %d times, want 1", f, strings.Count(s, f))
		}
	}
}

func TestOptimizeMalformed(t *testing.T) {
	oracle := &zlibOracle{}
	out, report, err := Optimize(context.Background(), []byte("PRE\n// EMSCRIPTEN_START_FUNCS\nfunction a(){}\n"), oracle, Options{})
	if !errors.Is(err, ErrMalformedInput) {
		t.Errorf("TestOptimizeMalformed: got err == %v, want ErrMalformedInput", err)
	}
	if out != nil || report != nil {
		t.Errorf("TestOptimizeMalformed: got output, want none")
	}
	if oracle.calls.Load() != 0 {
		t.Errorf("TestOptimizeMalformed: oracle was called")
	}
}

func TestOptimizeOracleFailure(t *testing.T) {
	boom := errors.New("exhausted")
	oracle := &zlibOracle{fail: func(data []byte) error {
		if bytes.Count(data, []byte(FuncToken)) >= 2 && len(data) < 1000 {
			return boom
		}
		return nil
	}}
	out, _, err := Optimize(context.Background(), []byte(corpusInput(makeCorpus(20, 8))), oracle, Options{WindowSize: 3})
	if !errors.Is(err, boom) {
		t.Errorf("TestOptimizeOracleFailure: got err == %v, want %s", err, boom)
	}
	if out != nil {
		t.Errorf("TestOptimizeOracleFailure: got partial output")
	}
}

func corpusInput(texts []string) string {
	return "var Module = {};\n" + StartMarker + "\n" + strings.Join(texts, "") + EndMarker + "\nrun();\n"
}
