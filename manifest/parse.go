package manifest

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tigerabrodi/rudo/domain/anim"
	"github.com/tigerabrodi/rudo/domain/element"
	"github.com/tigerabrodi/rudo/domain/pathdata"
)

// Problem is one manifest diagnostic: where plus what.
type Problem struct {
	Path    string
	Message string
}

func (p Problem) String() string { return p.Path + ": " + p.Message }

// ParseFile parses a scene manifest from a YAML file.
func ParseFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses and validates a scene manifest from YAML bytes.
func Parse(data []byte) (Document, error) {
	doc, err := Decode(data)
	if err != nil {
		return Document{}, err
	}

	if problems := Validate(doc); len(problems) > 0 {
		msgs := make([]string, len(problems))
		for i, p := range problems {
			msgs[i] = p.String()
		}
		return Document{}, fmt.Errorf("validation errors:\n  - %s", strings.Join(msgs, "\n  - "))
	}

	return doc, nil
}

// Decode unmarshals a manifest without validating it. Callers that
// want per-problem diagnostics pair it with Validate.
func Decode(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parse yaml: %w", err)
	}
	return doc, nil
}

// Validate checks everything the document structure can express
// wrongly: canvas geometry, param naming, element kinds, duplicate
// ids, path steps, easing names, and trigger references. Structural
// animation rules (value counts, keyTimes ordering) are enforced
// later, during compilation.
func Validate(doc Document) []Problem {
	var problems []Problem
	fail := func(path, format string, args ...any) {
		problems = append(problems, Problem{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if doc.Canvas.Width <= 0 {
		fail("canvas.width", "must be positive, got %v", doc.Canvas.Width)
	}
	if doc.Canvas.Height <= 0 {
		fail("canvas.height", "must be positive, got %v", doc.Canvas.Height)
	}

	seenParams := make(map[string]bool)
	for _, p := range doc.Params.All() {
		path := "params." + p.Name
		switch {
		case !isIdentifier(p.Name):
			fail(path, "name is not a valid identifier")
		case p.Name == "width" || p.Name == "height":
			fail(path, "name shadows a canvas dimension")
		case seenParams[p.Name]:
			fail(path, "duplicate param")
		}
		seenParams[p.Name] = true
	}

	ids := make(map[string]int)
	for i, el := range doc.Elements {
		if el.ID != "" {
			if first, dup := ids[el.ID]; dup {
				fail(elementPath(i, el), "duplicate id %q, first used by elements[%d]", el.ID, first)
			} else {
				ids[el.ID] = i
			}
		}
	}

	for i, el := range doc.Elements {
		path := elementPath(i, el)

		kind, known := element.ParseKind(el.Kind)
		switch {
		case el.Kind == "":
			fail(path, "missing kind")
		case !known:
			fail(path, "unknown element kind %q", el.Kind)
		}

		if len(el.Path) > 0 && known && kind != element.Path {
			fail(path+".path", "path steps are only valid on path elements, not <%s>", el.Kind)
		}
		if el.Text != "" && known && kind != element.Text {
			fail(path+".text", "text content is only valid on text elements, not <%s>", el.Kind)
		}
		for j, step := range el.Path {
			stepPath := fmt.Sprintf("%s.path[%d]", path, j)
			op, ok := stepOps[step.Name]
			if !ok {
				fail(stepPath, "unknown path step %q", step.Name)
				continue
			}
			if want := pathdata.Arity(op); len(step.Args) != want {
				fail(stepPath, "%s wants %d arguments, got %d", step.Name, want, len(step.Args))
			}
		}

		props := make([]string, 0, len(el.Animations))
		for prop := range el.Animations {
			props = append(props, prop)
		}
		sort.Strings(props)

		for _, prop := range props {
			a := el.Animations[prop]
			animPath := path + ".animations." + prop

			if a.Easing.Name != "" && !anim.KnownCurve(a.Easing.Name) {
				fail(animPath+".easing", "unknown easing %q", a.Easing.Name)
			}
			for _, name := range a.Easing.Names {
				if !anim.KnownCurve(name) {
					fail(animPath+".easing", "unknown easing %q", name)
				}
			}

			if a.Begin != nil && a.Begin.IsTrigger() {
				switch {
				case a.Begin.Event == "":
					fail(animPath+".begin", "trigger event is required")
				default:
					if _, ok := anim.ParseEvent(a.Begin.Event); !ok {
						fail(animPath+".begin", "unknown trigger event %q", a.Begin.Event)
					}
				}
				switch {
				case a.Begin.Target == "":
					fail(animPath+".begin", "trigger target is required")
				default:
					if _, ok := ids[a.Begin.Target]; !ok {
						fail(animPath+".begin", "unknown trigger target %q", a.Begin.Target)
					}
				}
			}
		}
	}

	return problems
}

func elementPath(i int, el Element) string {
	if el.ID != "" {
		return fmt.Sprintf("elements[%d] (%s)", i, el.ID)
	}
	return fmt.Sprintf("elements[%d]", i)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
