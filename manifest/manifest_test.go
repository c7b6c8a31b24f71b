package manifest_test

import (
	"strings"
	"testing"

	"github.com/tigerabrodi/rudo/manifest"
)

const sampleManifest = `
canvas: {width: 400, height: 300, viewBox: "0 0 400 300", background: "#111"}
params:
  travel: 260
  mid: "travel / 2 + 20"
elements:
  - id: box
    kind: rect
    attrs: {x: 20, y: 40, width: 60, height: 60, fill: "#38bdf8"}
    animations:
      x:       {from: 20, to: "travel", dur: 2s, easing: ease-in-out,
                repeatCount: indefinite, fill: freeze}
      opacity: {values: [0, 0.5, 1], keyTimes: [0, 0.3, 1],
                easing: [ease, linear], dur: 1.5s}
  - id: knob
    kind: circle
    attrs: {cx: 340, cy: 60, r: 18}
    animations:
      r: {from: 18, to: 24, dur: 0.4s, begin: {event: click, target: knob},
          restart: whenNotActive}
  - kind: path
    path:
      - {move: [20, 200]}
      - {curve: [80, 140, 160, 260, 220, 200]}
      - {close: true}
    attrs: {stroke: "#fbbf24", fill: none}
    animations:
      stroke-dashoffset: {from: 420, to: 0, dur: 3s, easing: ease-out,
                          begin: {event: click, target: knob}}
`

func TestParse_SampleManifest(t *testing.T) {
	doc, err := manifest.Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Canvas.Width != 400 || doc.Canvas.Height != 300 {
		t.Errorf("canvas = %v x %v, want 400 x 300", doc.Canvas.Width, doc.Canvas.Height)
	}
	if doc.Canvas.Background != "#111" {
		t.Errorf("background = %q, want #111", doc.Canvas.Background)
	}
	if len(doc.Elements) != 3 {
		t.Fatalf("elements = %d, want 3", len(doc.Elements))
	}
}

func TestParse_ParamsPreserveOrder(t *testing.T) {
	doc, err := manifest.Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	params := doc.Params.All()
	if len(params) != 2 {
		t.Fatalf("params = %d, want 2", len(params))
	}
	if params[0].Name != "travel" || params[1].Name != "mid" {
		t.Errorf("param order = %q, %q, want travel, mid", params[0].Name, params[1].Name)
	}
	if params[0].Value.IsExpr() {
		t.Error("travel should be a literal")
	}
	if params[0].Value.Literal != 260 {
		t.Errorf("travel = %v, want 260", params[0].Value.Literal)
	}
	if !params[1].Value.IsExpr() || params[1].Value.Expr != "travel / 2 + 20" {
		t.Errorf("mid = %+v, want expression", params[1].Value)
	}
}

func TestParse_AttrsPreserveOrder(t *testing.T) {
	doc, err := manifest.Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var keys []string
	for _, a := range doc.Elements[0].Attrs {
		keys = append(keys, a.Key)
	}
	want := "x,y,width,height,fill"
	if got := strings.Join(keys, ","); got != want {
		t.Errorf("attr order = %s, want %s", got, want)
	}
	if doc.Elements[0].Attrs[4].Value != "#38bdf8" {
		t.Errorf("fill = %q, want #38bdf8", doc.Elements[0].Attrs[4].Value)
	}
}

func TestParse_AnimationForms(t *testing.T) {
	doc, err := manifest.Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	x := doc.Elements[0].Animations["x"]
	if x.From == nil || x.From.Literal != 20 {
		t.Errorf("x.from = %+v, want literal 20", x.From)
	}
	if x.To == nil || !x.To.IsExpr() || x.To.Expr != "travel" {
		t.Errorf("x.to = %+v, want expression travel", x.To)
	}
	if x.Dur != "2s" {
		t.Errorf("x.dur = %q, want 2s", x.Dur)
	}
	if x.Easing.Name != "ease-in-out" {
		t.Errorf("x.easing = %+v, want scalar ease-in-out", x.Easing)
	}
	if x.RepeatCount != "indefinite" || x.Fill != "freeze" {
		t.Errorf("x pass-through = %q/%q, want indefinite/freeze", x.RepeatCount, x.Fill)
	}

	op := doc.Elements[0].Animations["opacity"]
	if len(op.Values) != 3 || op.Values[1].Literal != 0.5 {
		t.Errorf("opacity.values = %+v, want 3 literals", op.Values)
	}
	if len(op.KeyTimes) != 3 || op.KeyTimes[1] != 0.3 {
		t.Errorf("opacity.keyTimes = %v, want [0 0.3 1]", op.KeyTimes)
	}
	if len(op.Easing.Names) != 2 {
		t.Errorf("opacity.easing = %+v, want sequence of 2", op.Easing)
	}
}

func TestParse_BeginForms(t *testing.T) {
	doc, err := manifest.Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := doc.Elements[1].Animations["r"]
	if r.Begin == nil || !r.Begin.IsTrigger() {
		t.Fatalf("r.begin = %+v, want trigger", r.Begin)
	}
	if r.Begin.Event != "click" || r.Begin.Target != "knob" {
		t.Errorf("r.begin = %q on %q, want click on knob", r.Begin.Event, r.Begin.Target)
	}

	literal := `
canvas: {width: 10, height: 10}
elements:
  - id: a
    kind: rect
    animations:
      x: {from: 0, to: 1, dur: 1s, begin: "2s; prev.end"}
`
	doc, err = manifest.Parse([]byte(literal))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b := doc.Elements[0].Animations["x"].Begin
	if b == nil || b.IsTrigger() || b.Literal != "2s; prev.end" {
		t.Errorf("begin = %+v, want literal pass-through", b)
	}
}

func TestParse_PathSteps(t *testing.T) {
	doc, err := manifest.Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	steps := doc.Elements[2].Path
	if len(steps) != 3 {
		t.Fatalf("steps = %d, want 3", len(steps))
	}
	if steps[0].Name != "move" || len(steps[0].Args) != 2 {
		t.Errorf("step 0 = %+v, want move with 2 args", steps[0])
	}
	if steps[1].Name != "curve" || len(steps[1].Args) != 6 {
		t.Errorf("step 1 = %+v, want curve with 6 args", steps[1])
	}
	if steps[2].Name != "close" || len(steps[2].Args) != 0 {
		t.Errorf("step 2 = %+v, want close with no args", steps[2])
	}

	cmd, ok := steps[1].Command()
	if !ok || cmd.Op != "C" {
		t.Errorf("command = %+v, want C", cmd)
	}
}

func TestParse_TextContent(t *testing.T) {
	src := `
canvas: {width: 200, height: 60}
elements:
  - id: label
    kind: text
    attrs: {x: 12, y: 38}
    text: "Ready to launch"
`
	doc, err := manifest.Parse([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := doc.Elements[0].Text; got != "Ready to launch" {
		t.Errorf("text = %q, want %q", got, "Ready to launch")
	}
}

func TestParse_RepeatCountNumberKeepsSourceText(t *testing.T) {
	src := `
canvas: {width: 10, height: 10}
elements:
  - kind: rect
    animations:
      x: {from: 0, to: 1, dur: 1s, repeatCount: 2}
`
	doc, err := manifest.Parse([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := doc.Elements[0].Animations["x"].RepeatCount; got != "2" {
		t.Errorf("repeatCount = %q, want %q", got, "2")
	}
}

func TestDecode_RejectsMalformedFields(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "number as mapping",
			src: `
canvas: {width: 10, height: 10}
elements:
  - kind: rect
    animations:
      x: {from: {v: 1}, to: 1, dur: 1s}
`,
		},
		{
			name: "easing as mapping",
			src: `
canvas: {width: 10, height: 10}
elements:
  - kind: rect
    animations:
      x: {from: 0, to: 1, dur: 1s, easing: {name: ease}}
`,
		},
		{
			name: "begin as sequence",
			src: `
canvas: {width: 10, height: 10}
elements:
  - kind: rect
    animations:
      x: {from: 0, to: 1, dur: 1s, begin: [click]}
`,
		},
		{
			name: "path step with two keys",
			src: `
canvas: {width: 10, height: 10}
elements:
  - kind: path
    path:
      - {move: [0, 0], line: [1, 1]}
`,
		},
		{
			name: "path step argument not numeric",
			src: `
canvas: {width: 10, height: 10}
elements:
  - kind: path
    path:
      - {horiz: wide}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := manifest.Decode([]byte(tt.src)); err == nil {
				t.Error("expected decode error, got nil")
			}
		})
	}
}

func TestValidate_Problems(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string // substring of the collected problem
	}{
		{
			name: "nonpositive canvas",
			src:  "canvas: {width: 0, height: 10}\nelements: []\n",
			want: "canvas.width",
		},
		{
			name: "param name not an identifier",
			src:  "canvas: {width: 10, height: 10}\nparams:\n  \"2fast\": 1\nelements: []\n",
			want: "not a valid identifier",
		},
		{
			name: "param shadows canvas dimension",
			src:  "canvas: {width: 10, height: 10}\nparams:\n  width: 5\nelements: []\n",
			want: "shadows a canvas dimension",
		},
		{
			name: "unknown element kind",
			src: `
canvas: {width: 10, height: 10}
elements:
  - kind: sprite
`,
			want: `unknown element kind "sprite"`,
		},
		{
			name: "missing element kind",
			src: `
canvas: {width: 10, height: 10}
elements:
  - id: a
`,
			want: "missing kind",
		},
		{
			name: "duplicate element id",
			src: `
canvas: {width: 10, height: 10}
elements:
  - {id: a, kind: rect}
  - {id: a, kind: circle}
`,
			want: `duplicate id "a"`,
		},
		{
			name: "path steps on non-path element",
			src: `
canvas: {width: 10, height: 10}
elements:
  - kind: rect
    path:
      - {move: [0, 0]}
`,
			want: "only valid on path elements",
		},
		{
			name: "text content on non-text element",
			src: `
canvas: {width: 10, height: 10}
elements:
  - kind: rect
    text: hello
`,
			want: "only valid on text elements",
		},
		{
			name: "unknown path step",
			src: `
canvas: {width: 10, height: 10}
elements:
  - kind: path
    path:
      - {bend: [0, 0]}
`,
			want: `unknown path step "bend"`,
		},
		{
			name: "path step arity",
			src: `
canvas: {width: 10, height: 10}
elements:
  - kind: path
    path:
      - {curve: [1, 2, 3]}
`,
			want: "wants 6 arguments, got 3",
		},
		{
			name: "unknown scalar easing",
			src: `
canvas: {width: 10, height: 10}
elements:
  - kind: rect
    animations:
      x: {from: 0, to: 1, dur: 1s, easing: swoosh}
`,
			want: `unknown easing "swoosh"`,
		},
		{
			name: "unknown easing inside sequence",
			src: `
canvas: {width: 10, height: 10}
elements:
  - kind: rect
    animations:
      x: {values: [0, 1, 2], dur: 1s, easing: [ease, swoosh]}
`,
			want: `unknown easing "swoosh"`,
		},
		{
			name: "unknown trigger event",
			src: `
canvas: {width: 10, height: 10}
elements:
  - {id: a, kind: rect}
  - kind: circle
    animations:
      r: {from: 0, to: 1, dur: 1s, begin: {event: doubletap, target: a}}
`,
			want: `unknown trigger event "doubletap"`,
		},
		{
			name: "missing trigger target",
			src: `
canvas: {width: 10, height: 10}
elements:
  - kind: rect
    animations:
      x: {from: 0, to: 1, dur: 1s, begin: {event: click}}
`,
			want: "trigger target is required",
		},
		{
			name: "unknown trigger target",
			src: `
canvas: {width: 10, height: 10}
elements:
  - kind: rect
    animations:
      x: {from: 0, to: 1, dur: 1s, begin: {event: click, target: ghost}}
`,
			want: `unknown trigger target "ghost"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := manifest.Decode([]byte(tt.src))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}

			problems := manifest.Validate(doc)
			if len(problems) == 0 {
				t.Fatal("expected problems, got none")
			}
			for _, p := range problems {
				if strings.Contains(p.String(), tt.want) {
					return
				}
			}
			t.Errorf("no problem mentions %q, got %v", tt.want, problems)
		})
	}
}

func TestValidate_CleanDocument(t *testing.T) {
	doc, err := manifest.Decode([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if problems := manifest.Validate(doc); len(problems) != 0 {
		t.Errorf("unexpected problems: %v", problems)
	}
}

func TestParse_JoinsProblems(t *testing.T) {
	src := `
canvas: {width: 0, height: 10}
elements:
  - kind: sprite
`
	_, err := manifest.Parse([]byte(src))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	msg := err.Error()
	if !strings.Contains(msg, "validation errors:") {
		t.Errorf("error %q does not collect problems", msg)
	}
	if !strings.Contains(msg, "canvas.width") || !strings.Contains(msg, "sprite") {
		t.Errorf("error %q missing individual problems", msg)
	}
}
