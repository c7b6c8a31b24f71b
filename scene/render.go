package scene

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/tigerabrodi/rudo/domain/anim"
	"github.com/tigerabrodi/rudo/domain/element"
	"github.com/tigerabrodi/rudo/domain/pathdata"
)

// Options control document serialization.
type Options struct {
	// XMLDecl prepends an XML declaration, for standalone .svg files.
	XMLDecl bool
}

// Render serializes the scene as an SVG document. Each element's
// compiled directives, looked up by node reference, are attached as
// child markup of that element; a nil map yields the static document.
// Whether directives belong in the document at all is the caller's
// decision, made before Render runs.
func Render(w io.Writer, s *Scene, directives map[anim.NodeRef][]anim.Directive, opts Options) error {
	var sb strings.Builder

	if opts.XMLDecl {
		sb.WriteString(xml.Header)
	}

	sb.WriteString(`<svg xmlns="http://www.w3.org/2000/svg"`)
	writeAttr(&sb, "width", num(s.Canvas.Width))
	writeAttr(&sb, "height", num(s.Canvas.Height))
	if s.Canvas.ViewBox != "" {
		writeAttr(&sb, "viewBox", s.Canvas.ViewBox)
	}
	sb.WriteString(">\n")

	if s.Canvas.Background != "" {
		sb.WriteString(`  <rect width="100%" height="100%"`)
		writeAttr(&sb, "fill", s.Canvas.Background)
		sb.WriteString("/>\n")
	}

	for _, ref := range s.refs {
		el := s.elements[ref]

		sb.WriteString("  <")
		sb.WriteString(string(el.Kind))
		if el.ID != "" {
			writeAttr(&sb, "id", el.ID)
		}
		if el.Kind == element.Path && len(el.Path) > 0 {
			writeAttr(&sb, "d", pathdata.Format(el.Path))
		}
		for _, a := range el.Attrs {
			writeAttr(&sb, a.Key, a.Value)
		}

		dirs := directives[ref]
		if len(dirs) == 0 && el.Text == "" {
			sb.WriteString("/>\n")
			continue
		}

		sb.WriteByte('>')
		if el.Text != "" {
			sb.WriteString(escaper.Replace(el.Text))
		}
		if len(dirs) == 0 {
			sb.WriteString("</")
			sb.WriteString(string(el.Kind))
			sb.WriteString(">\n")
			continue
		}

		sb.WriteByte('\n')
		for _, d := range dirs {
			sb.WriteString("    ")
			sb.WriteString(d.String())
			sb.WriteByte('\n')
		}
		sb.WriteString("  </")
		sb.WriteString(string(el.Kind))
		sb.WriteString(">\n")
	}

	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeAttr(sb *strings.Builder, key, value string) {
	sb.WriteByte(' ')
	sb.WriteString(key)
	sb.WriteString(`="`)
	sb.WriteString(escaper.Replace(value))
	sb.WriteByte('"')
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
