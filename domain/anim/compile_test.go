package anim_test

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/tigerabrodi/rudo/domain/anim"
	"github.com/tigerabrodi/rudo/domain/element"
)

// countingIDs hands out a1, a2, … deterministically.
type countingIDs struct{ n int }

func (s *countingIDs) New() string {
	s.n++
	return fmt.Sprintf("a%d", s.n)
}

func TestCompile_CheckpointDirective(t *testing.T) {
	c := anim.NewCompiler(anim.Options{IDs: &countingIDs{}})
	spec := anim.Spec{
		Values:   []float64{0, 50, 100},
		KeyTimes: []float64{0, 0.5, 1},
		Easing:   anim.EasingName("linear"),
		Dur:      "2s",
	}

	d, err := c.Compile(element.Rect, "x", spec, "box")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `<animate id="a1" attributeName="x" dur="2s" values="0;50;100" keyTimes="0;0.5;1" calcMode="spline" keySplines="0 0 1 1"/>`
	if got := d.String(); got != want {
		t.Errorf("directive =\n  %s\nwant\n  %s", got, want)
	}
}

func TestCompile_EndpointDirective(t *testing.T) {
	c := anim.NewCompiler(anim.Options{IDs: &countingIDs{}})
	spec := anim.Spec{
		From:        fp(20),
		To:          fp(220.5),
		Dur:         "750ms",
		RepeatCount: "indefinite",
		Fill:        "freeze",
	}

	d, err := c.Compile(element.Circle, "cx", spec, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `<animate id="a1" attributeName="cx" dur="750ms" from="20" to="220.5" repeatCount="indefinite" fill="freeze"/>`
	if got := d.String(); got != want {
		t.Errorf("directive =\n  %s\nwant\n  %s", got, want)
	}
}

func TestCompile_EasingSequencePerTransition(t *testing.T) {
	c := anim.NewCompiler(anim.Options{IDs: &countingIDs{}})
	spec := anim.Spec{
		Values: []float64{0, 40, 100},
		Easing: anim.EasingSequence("ease", "bounce"),
		Dur:    "1s",
	}

	d, err := c.Compile(element.Rect, "y", spec, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	splines, _ := d.Attr("keySplines")
	want := "0.25 0.1 0.25 1; 0.68 -0.55 0.265 1.55"
	if splines != want {
		t.Errorf("keySplines = %q, want %q", splines, want)
	}
	if mode, _ := d.Attr("calcMode"); mode != "spline" {
		t.Errorf("calcMode = %q, want %q", mode, "spline")
	}
}

func TestCompile_RawKeySplinesBeatsEasing(t *testing.T) {
	c := anim.NewCompiler(anim.Options{IDs: &countingIDs{}})
	spec := anim.Spec{
		Values:     []float64{0, 100},
		Easing:     anim.EasingName("bounce"),
		KeySplines: "0.1 0.2 0.3 0.4",
		Dur:        "1s",
	}

	d, err := c.Compile(element.Rect, "x", spec, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if splines, _ := d.Attr("keySplines"); splines != "0.1 0.2 0.3 0.4" {
		t.Errorf("keySplines = %q, want raw value preserved", splines)
	}
	if mode, _ := d.Attr("calcMode"); mode != "spline" {
		t.Errorf("calcMode = %q, want %q", mode, "spline")
	}
}

func TestCompile_ExplicitCalcModePassesThrough(t *testing.T) {
	c := anim.NewCompiler(anim.Options{IDs: &countingIDs{}})
	spec := anim.Spec{
		Values:   []float64{0, 100},
		CalcMode: "discrete",
		Dur:      "1s",
	}

	d, err := c.Compile(element.Rect, "x", spec, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mode, _ := d.Attr("calcMode"); mode != "discrete" {
		t.Errorf("calcMode = %q, want %q", mode, "discrete")
	}
	if _, present := d.Attr("keySplines"); present {
		t.Error("keySplines present without easing")
	}
}

func TestCompile_TriggerBeginFollowsTargetNotOwner(t *testing.T) {
	resolver := staticResolver{"n1": "btn1"}
	c := anim.NewCompiler(anim.Options{IDs: &countingIDs{}, Resolver: resolver})
	spec := anim.Spec{
		From:  fp(1),
		To:    fp(0.2),
		Dur:   "300ms",
		Begin: anim.BeginOn(anim.EventClick, "n1"),
	}

	d, err := c.Compile(element.Rect, "opacity", spec, "btn1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if begin, _ := d.Attr("begin"); begin != "btn1.click" {
		t.Errorf("begin = %q, want %q", begin, "btn1.click")
	}
}

func TestCompile_UnresolvedTriggerEmitsPlaceholder(t *testing.T) {
	c := anim.NewCompiler(anim.Options{IDs: &countingIDs{}})
	spec := anim.Spec{
		From:  fp(0),
		To:    fp(1),
		Dur:   "1s",
		Begin: anim.BeginOn(anim.EventClick, "missing"),
	}

	d, err := c.Compile(element.Rect, "opacity", spec, "box")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if begin, _ := d.Attr("begin"); begin != "unresolved.click" {
		t.Errorf("begin = %q, want %q", begin, "unresolved.click")
	}
}

func TestCompile_StrictModeRejectsUnresolvedTrigger(t *testing.T) {
	c := anim.NewCompiler(anim.Options{IDs: &countingIDs{}, Strict: true})
	spec := anim.Spec{
		From:  fp(0),
		To:    fp(1),
		Dur:   "1s",
		Begin: anim.BeginOn(anim.EventClick, "missing"),
	}

	_, err := c.Compile(element.Rect, "opacity", spec, "box")
	if !errors.Is(err, anim.ErrTriggerUnresolved) {
		t.Fatalf("error = %v, want %v", err, anim.ErrTriggerUnresolved)
	}
}

func TestCompile_LiteralBeginPassesThrough(t *testing.T) {
	c := anim.NewCompiler(anim.Options{IDs: &countingIDs{}})
	spec := anim.Spec{
		From:  fp(0),
		To:    fp(1),
		Dur:   "1s",
		Begin: anim.BeginLiteral("2s; prev.end"),
	}

	d, err := c.Compile(element.Rect, "opacity", spec, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if begin, _ := d.Attr("begin"); begin != "2s; prev.end" {
		t.Errorf("begin = %q, want literal passed through", begin)
	}
}

func TestCompile_SpecIDWins(t *testing.T) {
	ids := &countingIDs{}
	c := anim.NewCompiler(anim.Options{IDs: ids})
	spec := anim.Spec{From: fp(0), To: fp(1), Dur: "1s", ID: "fade-in"}

	d, err := c.Compile(element.Rect, "opacity", spec, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID() != "fade-in" {
		t.Errorf("id = %q, want %q", d.ID(), "fade-in")
	}
	if ids.n != 0 {
		t.Errorf("id source consulted %d times, want 0", ids.n)
	}
}

func TestCompile_InvalidSpecProducesNoDirective(t *testing.T) {
	c := anim.NewCompiler(anim.Options{IDs: &countingIDs{}})
	spec := anim.Spec{Values: []float64{0, 100}, KeyTimes: []float64{0, 0.9}}

	_, err := c.Compile(element.Rect, "x", spec, "")
	if !errors.Is(err, anim.ErrKeyTimesEndOne) {
		t.Fatalf("error = %v, want %v", err, anim.ErrKeyTimesEndOne)
	}
}

func TestCompile_DeterministicForSameIDState(t *testing.T) {
	spec := anim.Spec{
		Values:   []float64{0, 50, 100},
		KeyTimes: []float64{0, 0.5, 1},
		Easing:   anim.EasingName("ease-in-out"),
		Dur:      "2s",
		Begin:    anim.BeginOn(anim.EventClick, "n1"),
	}
	resolver := staticResolver{"n1": "play"}

	first, err := anim.NewCompiler(anim.Options{IDs: &countingIDs{}, Resolver: resolver}).
		Compile(element.Rect, "x", spec, "box")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := anim.NewCompiler(anim.Options{IDs: &countingIDs{}, Resolver: resolver}).
		Compile(element.Rect, "x", spec, "box")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.String() != second.String() {
		t.Errorf("directives differ:\n  %s\n  %s", first, second)
	}
}

func TestCompile_FallbackCounterIsMonotonic(t *testing.T) {
	var c anim.Compiler
	spec := anim.Spec{From: fp(0), To: fp(1), Dur: "1s"}

	first, err := c.Compile(element.Rect, "x", spec, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := c.Compile(element.Rect, "x", spec, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n1 := parseAnimSeq(t, first.ID())
	n2 := parseAnimSeq(t, second.ID())
	if n2 <= n1 {
		t.Errorf("ids not increasing: %q then %q", first.ID(), second.ID())
	}
}

func parseAnimSeq(t *testing.T, id string) uint64 {
	t.Helper()
	rest, ok := strings.CutPrefix(id, "anim-")
	if !ok {
		t.Fatalf("id = %q, want anim-<n>", id)
	}
	n, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		t.Fatalf("id = %q, want numeric suffix", id)
	}
	return n
}

func TestCompileAll_SortedPropertyOrder(t *testing.T) {
	c := anim.NewCompiler(anim.Options{IDs: &countingIDs{}})
	specs := map[string]anim.Spec{
		"x":       {From: fp(0), To: fp(10), Dur: "1s"},
		"opacity": {From: fp(0), To: fp(1), Dur: "1s"},
		"y":       {From: fp(0), To: fp(10), Dur: "1s"},
	}

	dirs, err := c.CompileAll(element.Rect, specs, "box")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []string
	for _, d := range dirs {
		name, _ := d.Attr("attributeName")
		got = append(got, name)
	}
	want := []string{"opacity", "x", "y"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("property order = %v, want %v", got, want)
	}
}

func TestCompileAll_FirstFailureAbortsWithNoPartialResults(t *testing.T) {
	c := anim.NewCompiler(anim.Options{IDs: &countingIDs{}})
	specs := map[string]anim.Spec{
		"opacity": {From: fp(0), To: fp(1), Dur: "1s"},
		"x":       {Values: []float64{0, 100}, KeyTimes: []float64{0.5, 1}, Dur: "1s"},
		"y":       {From: fp(0), To: fp(10), Dur: "1s"},
	}

	dirs, err := c.CompileAll(element.Rect, specs, "box")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if dirs != nil {
		t.Errorf("got %d partial directives, want none", len(dirs))
	}

	var verr *anim.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error type = %T, want *anim.ValidationError", err)
	}
	if verr.Property != "x" {
		t.Errorf("failed property = %q, want %q", verr.Property, "x")
	}
}

func TestCompileAll_EmptyInput(t *testing.T) {
	c := anim.NewCompiler(anim.Options{})
	dirs, err := c.CompileAll(element.Rect, nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dirs != nil {
		t.Errorf("directives = %v, want nil", dirs)
	}
}

func TestDirective_AttrsCopyIsIsolated(t *testing.T) {
	c := anim.NewCompiler(anim.Options{IDs: &countingIDs{}})
	d, err := c.Compile(element.Rect, "x", anim.Spec{From: fp(0), To: fp(1), Dur: "1s"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	attrs := d.Attrs()
	attrs[0].Value = "mutated"

	if d.ID() == "mutated" {
		t.Error("mutating the returned slice changed the directive")
	}
}

func TestDirective_EscapesAttributeValues(t *testing.T) {
	c := anim.NewCompiler(anim.Options{IDs: &countingIDs{}})
	spec := anim.Spec{
		From:  fp(0),
		To:    fp(1),
		Dur:   "1s",
		Begin: anim.BeginLiteral(`a<b"&c`),
	}

	d, err := c.Compile(element.Rect, "opacity", spec, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(d.String(), `begin="a&lt;b&quot;&amp;c"`) {
		t.Errorf("directive %q does not escape markup metacharacters", d)
	}
}
