package render

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/compozy/licensegen/engine/codegen"
)

const readmeTemplate = `<!-- {{ .Header }} -->
# {{ .PackageName }}

` + "`{{ .ImportPath }}`" + ` provides license marker types generated from the license catalog.

| Type | License | ID | Aliases |
| ---- | ------- | -- | ------- |
{{- range .Licenses }}
| ` + "`{{ .Type }}`" + ` | {{ .Name | replace "|" "\\|" }} | {{ .ID | default "-" }} | {{ .Aliases | join ", " | replace "|" "\\|" | default "-" }} |
{{- end }}
`

var readme = template.Must(template.New(readmeName).Funcs(sprig.TxtFuncMap()).Parse(readmeTemplate))

type readmeLicense struct {
	Type    string
	Name    string
	ID      string
	Aliases []string
}

type readmeData struct {
	Header      string
	PackageName string
	ImportPath  string
	Licenses    []readmeLicense
}

// renderReadme lists every license of one package.
func renderReadme(importPath string, reqs []codegen.Request) ([]byte, error) {
	data := readmeData{Header: GeneratedHeader, ImportPath: importPath}
	for _, req := range reqs {
		data.PackageName = req.PackageName
		data.Licenses = append(data.Licenses, readmeLicense{
			Type:    req.ArtifactName,
			Name:    req.Source.Name(),
			ID:      req.Source.NormativeID(),
			Aliases: req.Source.Aliases(),
		})
	}
	var buf bytes.Buffer
	if err := readme.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render README for %s: %w", importPath, err)
	}
	return buf.Bytes(), nil
}
