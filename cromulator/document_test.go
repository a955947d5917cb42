package cromulator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/kylelemons/godebug/pretty"
	"pgregory.net/rapid"
)

const scenarioInput = "PRE\n// EMSCRIPTEN_START_FUNCS\nfunction a(){X}\nfunction b(){X}\n// EMSCRIPTEN_END_FUNCS\nPOST"

func blockTexts(blocks []Block) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = string(b.Text)
	}
	return out
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantPrologue string
		wantLead     string
		wantBlocks   []string
		wantEpilogue string
	}{
		{
			name:         "Success: two functions",
			input:        scenarioInput,
			wantPrologue: "PRE\n",
			wantLead:     "\n",
			wantBlocks:   []string{"function a(){X}\n", "function b(){X}\n"},
			wantEpilogue: "\nPOST",
		},
		{
			name:         "Success: no functions",
			input:        "var x;// EMSCRIPTEN_START_FUNCS\n\n// EMSCRIPTEN_END_FUNCS",
			wantPrologue: "var x;",
			wantLead:     "\n\n",
			wantBlocks:   []string{},
			wantEpilogue: "",
		},
		{
			name:         "Success: function right after marker",
			input:        "// EMSCRIPTEN_START_FUNCSfunction f(){}// EMSCRIPTEN_END_FUNCS",
			wantPrologue: "",
			wantLead:     "",
			wantBlocks:   []string{"function f(){}"},
			wantEpilogue: "",
		},
		{
			name:         "Success: function keyword without space is not a boundary",
			input:        "// EMSCRIPTEN_START_FUNCS\nfunction g(){return function(){}}\n// EMSCRIPTEN_END_FUNCS",
			wantPrologue: "",
			wantLead:     "\n",
			wantBlocks:   []string{"function g(){return function(){}}\n"},
			wantEpilogue: "",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc, err := Split([]byte(test.input))
			if err != nil {
				t.Fatalf("got err == %s, want err == nil", err)
			}
			if got := string(doc.Prologue); got != test.wantPrologue {
				t.Errorf("prologue got %q, want %q", got, test.wantPrologue)
			}
			if got := string(doc.Lead); got != test.wantLead {
				t.Errorf("lead got %q, want %q", got, test.wantLead)
			}
			if diff := pretty.Compare(test.wantBlocks, blockTexts(doc.Blocks)); diff != "" {
				t.Errorf("blocks mismatch (-want +got):\n%s", diff)
			}
			if got := string(doc.Epilogue); got != test.wantEpilogue {
				t.Errorf("epilogue got %q, want %q", got, test.wantEpilogue)
			}
			if got := string(doc.Assemble(doc.Blocks)); got != test.input {
				t.Errorf("round trip got %q, want %q", got, test.input)
			}
		})
	}
}

func TestSplitMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Error: empty input", ""},
		{"Error: missing end marker", "// EMSCRIPTEN_START_FUNCS\nfunction a(){}\n"},
		{"Error: missing start marker", "function a(){}\n// EMSCRIPTEN_END_FUNCS"},
		{"Error: markers reversed", "// EMSCRIPTEN_END_FUNCS\nfunction a(){}\n// EMSCRIPTEN_START_FUNCS"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc, err := Split([]byte(test.input))
			if err == nil {
				t.Fatalf("got err == nil, want err != nil")
			}
			if !errors.Is(err, ErrMalformedInput) {
				t.Errorf("got err == %s, want ErrMalformedInput", err)
			}
			var me *MalformedInputError
			if !errors.As(err, &me) {
				t.Errorf("got %T, want *MalformedInputError", err)
			}
			if doc != nil {
				t.Errorf("got a document, want nil")
			}
		})
	}
}

func TestReadDocument(t *testing.T) {
	doc, err := ReadDocument(strings.NewReader(scenarioInput))
	if err != nil {
		t.Fatalf("TestReadDocument: got err == %s, want err == nil", err)
	}
	if len(doc.Blocks) != 2 {
		t.Errorf("TestReadDocument: got %d blocks, want 2", len(doc.Blocks))
	}
}

func TestWriteTo(t *testing.T) {
	doc, err := Split([]byte(scenarioInput))
	if err != nil {
		t.Fatalf("TestWriteTo: got err == %s, want err == nil", err)
	}
	order := []Block{doc.Blocks[1], doc.Blocks[0]}
	var buf bytes.Buffer
	n, err := doc.WriteTo(&buf, order)
	if err != nil {
		t.Fatalf("TestWriteTo: got err == %s, want err == nil", err)
	}
	want := "PRE\n// EMSCRIPTEN_START_FUNCS\nfunction b(){X}\nfunction a(){X}\n// EMSCRIPTEN_END_FUNCS\nPOST"
	if buf.String() != want {
		t.Errorf("TestWriteTo: got %q, want %q", buf.String(), want)
	}
	if int(n) != len(want) || doc.Len(order) != len(want) {
		t.Errorf("TestWriteTo: got n == %d, Len == %d, want %d", n, doc.Len(order), len(want))
	}
}

// genDocument 生成带标记的随机输入
func genDocument() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		noise := rapid.StringMatching(`[a-z ;\n]{0,12}`)
		var sb strings.Builder
		sb.WriteString(noise.Draw(t, "prologue"))
		sb.WriteString(StartMarker)
		sb.WriteString(rapid.StringMatching(`[ \n]{0,3}`).Draw(t, "lead"))
		n := rapid.IntRange(0, 8).Draw(t, "functions")
		for i := 0; i < n; i++ {
			sb.WriteString(FuncToken)
			sb.WriteString(rapid.StringMatching(`[a-z]{1,4}\(\)\{[a-z0-9 =+;]{0,30}\}\n`).Draw(t, "body"))
		}
		sb.WriteString(EndMarker)
		sb.WriteString(noise.Draw(t, "epilogue"))
		return sb.String()
	})
}

func TestRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := genDocument().Draw(t, "input")
		doc, err := Split([]byte(input))
		if err != nil {
			t.Fatalf("Split: %v", err)
		}
		if got := string(doc.Assemble(doc.Blocks)); got != input {
			t.Fatalf("round trip got %q, want %q", got, input)
		}

		// 任意排列都不改变总长度
		perm := rapid.Permutation(doc.Blocks).Draw(t, "perm")
		out := doc.Assemble(perm)
		if len(out) != len(input) || doc.Len(perm) != len(input) {
			t.Fatalf("permuted length %d, want %d", len(out), len(input))
		}
		if !bytes.HasPrefix(out, append(append([]byte{}, doc.Prologue...), StartMarker...)) {
			t.Fatalf("permuted output lost its prologue")
		}
	})
}
