package text

import (
	"errors"
	"testing"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		changes []Change
		want    string
	}{
		{"no changes", "class A { }", nil, "class A { }"},
		{"replace", "class A { }", []Change{NewChange(NewSpan(6, 1), "B")}, "class B { }"},
		{"insert", "class A { }", []Change{NewChange(NewSpan(0, 0), "class ")}, "class class A { }"},
		{"delete", "class A { int X; }", []Change{NewChange(NewSpan(10, 7), "")}, "class A { }"},
		{
			"several",
			"class A { } class B { }",
			[]Change{NewChange(NewSpan(6, 1), "C"), NewChange(NewSpan(18, 1), "D")},
			"class C { } class D { }",
		},
		{"append", "ab", []Change{NewChange(NewSpan(2, 0), "c")}, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.src, tt.changes)
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Apply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyRejectsBadChanges(t *testing.T) {
	t.Run("overlapping", func(t *testing.T) {
		_, err := Apply("abcdef", []Change{NewChange(NewSpan(1, 3), "x"), NewChange(NewSpan(2, 1), "y")})
		if !errors.Is(err, ErrOverlappingChanges) {
			t.Errorf("Apply() error = %v, want ErrOverlappingChanges", err)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := Apply("abc", []Change{NewChange(NewSpan(2, 5), "x")})
		if !errors.Is(err, ErrChangeOutOfRange) {
			t.Errorf("Apply() error = %v, want ErrChangeOutOfRange", err)
		}
	})
}

func TestChangeClassification(t *testing.T) {
	if !NewChange(NewSpan(3, 0), "x").IsInsertion() {
		t.Error("expected zero-length change with text to be an insertion")
	}
	if !NewChange(NewSpan(3, 2), "").IsDeletion() {
		t.Error("expected change with empty text to be a deletion")
	}
	c := NewChange(NewSpan(3, 2), "yy")
	if c.IsInsertion() || c.IsDeletion() {
		t.Error("expected replacement to be neither insertion nor deletion")
	}
}

func TestSpan(t *testing.T) {
	s := NewSpan(4, 3)
	if s.End() != 7 {
		t.Errorf("End() = %d, want 7", s.End())
	}
	if !s.Contains(4) || s.Contains(7) {
		t.Error("Contains() must include start and exclude end")
	}
	if !s.OverlapsWith(NewSpan(6, 5)) || s.OverlapsWith(NewSpan(7, 1)) {
		t.Error("OverlapsWith() mismatch")
	}
	if got := s.Union(NewSpan(10, 2)); got != NewSpan(4, 8) {
		t.Errorf("Union() = %v, want [4..12)", got)
	}
	if got := s.String(); got != "[4..7)" {
		t.Errorf("String() = %q", got)
	}
}
