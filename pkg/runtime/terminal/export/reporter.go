package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
)

type TableConfig struct {
	NameWidth  int
	ValueWidth int
	NoteWidth  int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:  28,
		ValueWidth: 28,
		NoteWidth:  32,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

const reportTemplate = `
{{.Title}}
{{- if .Subtitle}}
({{.Subtitle}})
{{- end}}
{{range .Sections}}
=== {{.Title}} ===
{{- range $key, $value := .Summary}}
{{$key}}: {{$value}}
{{- end}}
{{- if .Details}}
{{separator}}
{{formatRow "Name" "Value" "Note"}}
{{separator}}
{{range .Details}}{{formatRow .Name .Value .Note}}
{{end}}{{separator}}
{{- end}}
{{- range .Notes}}
- {{.}}
{{- end}}
{{end}}`

func (c *Reporter) Handle(report *Report) error {
	funcMap := template.FuncMap{
		"formatRow": func(name, value, note string) string {
			return fmt.Sprintf("| %-*s | %*s | %-*s |",
				c.config.NameWidth, name,
				c.config.ValueWidth, value,
				c.config.NoteWidth, note)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+",
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2),
				strings.Repeat("-", c.config.NoteWidth+2))
		},
	}

	t, err := template.New("report").Funcs(funcMap).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}
