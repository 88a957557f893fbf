package format

import (
	"context"
	"errors"
	"testing"

	"github.com/dhamidi/greentree/java/parser"
	"github.com/dhamidi/greentree/syntax"
	"github.com/dhamidi/greentree/text"
)

func TestSource(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  []Option
		want  string
	}{
		{
			name:  "members on their own lines",
			input: "class A{int x;int y;}",
			want:  "class A {\n    int x;\n    int y;\n}\n",
		},
		{
			name:  "empty body stays on one line",
			input: "class A{}",
			want:  "class A { }\n",
		},
		{
			name:  "blank lines are capped",
			input: "class A {\n\n\n    int x;\n\n\n\n    int y;\n\n}\n",
			want:  "class A {\n    int x;\n\n    int y;\n}\n",
		},
		{
			name:  "comments keep their lines",
			input: "class A { // c\nint x; /* d */ int y;\n}",
			want:  "class A { // c\n    int x; /* d */\n    int y;\n}\n",
		},
		{
			name:  "comment before closing brace",
			input: "class A {\n  int x;\n  // end\n}",
			want:  "class A {\n    int x;\n    // end\n}\n",
		},
		{
			name:  "doc comment at start of file",
			input: "\n\n/** Doc. */\nclass A{}",
			want:  "/** Doc. */\nclass A { }\n",
		},
		{
			name:  "statements and expressions",
			input: "class A{void f(int a,int b){if(a<b)g(-a,!b);else return;}}",
			want:  "class A {\n    void f(int a, int b) {\n        if (a < b) g(-a, !b);\n        else return;\n    }\n}\n",
		},
		{
			name:  "tab indentation",
			input: "class A{int x;}",
			opts:  []Option{WithIndent("\t")},
			want:  "class A {\n\tint x;\n}\n",
		},
		{
			name:  "no blank lines",
			input: "class A {\n    int x;\n\n    int y;\n}\n",
			opts:  []Option{WithMaxBlankLines(0)},
			want:  "class A {\n    int x;\n    int y;\n}\n",
		},
		{
			name:  "empty file",
			input: "",
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.opts...).Source(tt.input)
			if err != nil {
				t.Fatalf("Source() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Source() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatIsIdempotent(t *testing.T) {
	inputs := []string{
		"class A {\n    int x; // note\n\n    int y;\n}\n",
		"/** Doc.\n * @param a first\n */\ninterface I {\n    int f(int a);\n}\n",
		"package a;\n\nimport b.*;\n\nclass A { }\n",
	}
	f := New()
	for _, src := range inputs {
		root := parser.ParseTree(src)
		formatted := f.Format(root)
		if formatted.Green() != root.Green() {
			t.Errorf("%q: formatting a formatted tree built a new tree:\n%s", src, formatted.FullText())
		}
	}
}

func TestFormatAnnotatesTouchedTokens(t *testing.T) {
	f := New()
	formatted := f.Format(parser.ParseTree("class A{}"))
	seq, err := syntax.GetAnnotatedNodesAndTokens(formatted, f.Annotation())
	if err != nil {
		t.Fatal(err)
	}
	var kinds []syntax.Kind
	for e := range seq {
		kinds = append(kinds, e.Kind())
	}
	want := []syntax.Kind{syntax.KindIdentifier, syntax.KindLBrace, syntax.KindRBrace}
	if len(kinds) != len(want) {
		t.Fatalf("annotated %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("annotated %d: %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestFormatKeepsDiagnostics(t *testing.T) {
	root := parser.ParseTree("class A { ) int x; }")
	formatted := New().Format(root)
	diags := formatted.Diagnostics()
	if len(diags) != 1 || diags[0].Message != "unexpected ')'" {
		t.Errorf("diagnostics %v", diags)
	}
}

func TestEdits(t *testing.T) {
	src := "class A{int x;}"
	changes, err := New().Edits(context.Background(), parser.ParseTree(src))
	if err != nil {
		t.Fatal(err)
	}
	got, err := text.Apply(src, changes)
	if err != nil {
		t.Fatal(err)
	}
	if want := "class A {\n    int x;\n}\n"; got != want {
		t.Errorf("applied edits give %q, want %q", got, want)
	}
}

func TestSourceRejectsSyntaxErrors(t *testing.T) {
	_, err := New().Source("class {")
	if !errors.Is(err, ErrSyntax) {
		t.Errorf("Source() error = %v, want ErrSyntax", err)
	}
}
