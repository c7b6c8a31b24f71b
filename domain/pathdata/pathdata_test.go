package pathdata_test

import (
	"testing"

	"github.com/tigerabrodi/rudo/domain/pathdata"
)

func TestBuilder_FluentChain(t *testing.T) {
	got := pathdata.New().
		MoveTo(20, 200).
		LineTo(120, 260).
		CurveTo(80, 140, 160, 260, 220, 200).
		Close().
		String()

	want := "M 20 200 L 120 260 C 80 140 160 260 220 200 Z"
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

func TestBuilder_AllCommands(t *testing.T) {
	got := pathdata.New().
		MoveTo(0, 0).
		HorizTo(50).
		VertTo(50.5).
		QuadTo(60, 60, 70, 70).
		ArcTo(25, 25, 0, true, false, 100, 100).
		Close().
		String()

	want := "M 0 0 H 50 V 50.5 Q 60 60 70 70 A 25 25 0 1 0 100 100 Z"
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

func TestBuilder_ZeroValueUsable(t *testing.T) {
	var b pathdata.Builder
	if got := b.MoveTo(1, 2).String(); got != "M 1 2" {
		t.Errorf("path = %q, want %q", got, "M 1 2")
	}
}

func TestFormat_Empty(t *testing.T) {
	if got := pathdata.Format(nil); got != "" {
		t.Errorf("path = %q, want empty", got)
	}
}

func TestArity(t *testing.T) {
	tests := []struct {
		op   pathdata.Op
		want int
	}{
		{pathdata.OpMove, 2},
		{pathdata.OpHoriz, 1},
		{pathdata.OpCurve, 6},
		{pathdata.OpQuad, 4},
		{pathdata.OpArc, 7},
		{pathdata.OpClose, 0},
		{pathdata.Op("X"), -1},
	}
	for _, tt := range tests {
		if got := pathdata.Arity(tt.op); got != tt.want {
			t.Errorf("Arity(%q) = %d, want %d", tt.op, got, tt.want)
		}
	}
	if pathdata.Known("X") {
		t.Error("Known(X) = true, want false")
	}
}

func TestCommands_CopyIsIsolated(t *testing.T) {
	b := pathdata.New().MoveTo(1, 2)
	cmds := b.Commands()
	cmds[0] = pathdata.Command{Op: pathdata.OpClose}

	if got := b.String(); got != "M 1 2" {
		t.Errorf("path = %q after mutating returned commands, want %q", got, "M 1 2")
	}
}
