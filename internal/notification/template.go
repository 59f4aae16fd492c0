package notification

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"text/template"
	"time"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(
	template.New("").Funcs(template.FuncMap{
		"date":   func(t time.Time) string { return t.Format("2006-01-02 15:04 MST") },
		"sorted": sortedKeys,
	}).ParseFS(templateFS, "templates/*.tmpl"),
)

const fallbackTemplate = "default.tmpl"

// Render builds the email body for e. Events without a template of their own
// are rendered with the generic one that lists every data field.
func Render(e Event) (string, error) {
	name := e.Name + ".tmpl"
	if templates.Lookup(name) == nil {
		name = fallbackTemplate
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, e); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
