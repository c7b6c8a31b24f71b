package web

import "html/template"

// Preview page template - a single inline page kept deliberately
// lightweight. The document is embedded through <object> so directive
// triggers (click, hover) stay live inside the preview.

type indexData struct {
	Manifest   string
	HasDoc     bool
	Error      string
	Elements   int
	Directives int
	CompiledAt string
	Took       string
	Seq        uint64
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>rudo preview</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
            background: #0b1020;
            color: #e2e8f0;
            min-height: 100vh;
            display: flex;
            flex-direction: column;
        }
        header {
            display: flex;
            align-items: baseline;
            gap: 16px;
            padding: 12px 20px;
            background: #131a30;
            border-bottom: 1px solid #232d4d;
        }
        header h1 { font-size: 16px; font-weight: 600; }
        header code { color: #7dd3fc; font-size: 13px; }
        .stats { margin-left: auto; font-size: 12px; color: #94a3b8; }
        .alert {
            margin: 16px 20px 0;
            padding: 12px 16px;
            border-radius: 6px;
            background: #451a1a;
            border: 1px solid #7f1d1d;
            color: #fecaca;
            font-size: 13px;
            white-space: pre-wrap;
        }
        main {
            flex: 1;
            display: flex;
            align-items: center;
            justify-content: center;
            padding: 24px;
        }
        object { max-width: 100%; max-height: 80vh; }
        .empty { color: #64748b; font-size: 14px; }
    </style>
</head>
<body>
    <header>
        <h1>rudo preview</h1>
        <code>{{.Manifest}}</code>
        {{if .HasDoc}}<span class="stats">{{.Elements}} elements, {{.Directives}} directives, compiled {{.CompiledAt}} in {{.Took}}</span>{{end}}
    </header>
    {{if .Error}}<div class="alert">{{.Error}}</div>{{end}}
    <main>
        {{if .HasDoc}}
        <object data="/scene.svg?v={{.Seq}}" type="image/svg+xml"></object>
        {{else}}
        <p class="empty">Waiting for the first successful compile&hellip;</p>
        {{end}}
    </main>
    <script>
        const es = new EventSource('/events');
        es.addEventListener('reload', () => location.reload());
    </script>
</body>
</html>
`))
