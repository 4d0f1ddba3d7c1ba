package render

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/compozy/licensegen/engine/codegen"
)

type markerField struct {
	name string
	tag  string
	doc  string
	bool bool
}

var markerFields = []markerField{
	{name: "Project", tag: "project", doc: "Project is the name of the original project. May be empty."},
	{
		name: "ProjectSourceCode",
		tag:  "project_source_code",
		doc:  "ProjectSourceCode links the source repository of the original project. May be empty.",
	},
	{name: "OriginalLocation", tag: "original_location", doc: "OriginalLocation is where the copied code lived. May be empty."},
	{name: "FirstCopied", tag: "first_copied", doc: "FirstCopied is the date the code was first copied. May be empty."},
	{name: "LastUpdate", tag: "last_update", doc: "LastUpdate is when the original or the edited code last changed."},
	{name: "SmallChanges", tag: "small_changes", doc: "SmallChanges reports whether only small edits were made.", bool: true},
	{name: "OtherInformation", tag: "other_information", doc: "OtherInformation holds free-form notes."},
}

// renderSource builds the marker type, its accessors and alias types for req.
func renderSource(req codegen.Request) ([]byte, error) {
	entry := req.Source
	f := jen.NewFilePathName(req.TargetPackage, req.PackageName)
	f.HeaderComment(GeneratedHeader)

	fields := make([]jen.Code, 0, 2*len(markerFields))
	for _, field := range markerFields {
		stmt := jen.Id(field.name)
		if field.bool {
			stmt = stmt.Bool()
		} else {
			stmt = stmt.String()
		}
		fields = append(fields,
			jen.Comment(field.doc),
			stmt.Tag(map[string]string{"json": field.tag + ",omitempty"}),
		)
	}
	f.Commentf("%s marks code distributed under the %s.", req.ArtifactName, entry.Name())
	f.Type().Id(req.ArtifactName).Struct(fields...)

	f.Comment("LicenseName returns the display name of the license.")
	f.Func().Params(jen.Id(req.ArtifactName)).Id("LicenseName").Params().String().Block(
		jen.Return(jen.Lit(entry.Name())),
	)
	f.Comment("LicenseID returns the normative id, or an empty string when there is none.")
	f.Func().Params(jen.Id(req.ArtifactName)).Id("LicenseID").Params().String().Block(
		jen.Return(jen.Lit(entry.NormativeID())),
	)
	f.Comment("LicenseAliases returns the alternative names of the license.")
	f.Func().Params(jen.Id(req.ArtifactName)).Id("LicenseAliases").Params().Index().String().Block(
		jen.Return(aliasValues(entry.Aliases())),
	)

	for _, alias := range req.AliasArtifacts {
		f.Commentf("%s is an alternative name for %s.", alias, req.ArtifactName)
		f.Type().Id(alias).Op("=").Id(req.ArtifactName)
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", req.ArtifactName, err)
	}
	return buf.Bytes(), nil
}

func aliasValues(aliases []string) jen.Code {
	if len(aliases) == 0 {
		return jen.Nil()
	}
	values := make([]jen.Code, len(aliases))
	for i, alias := range aliases {
		values[i] = jen.Lit(alias)
	}
	return jen.Index().String().Values(values...)
}
