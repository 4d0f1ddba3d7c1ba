package codegen

import (
	"slices"

	"github.com/compozy/licensegen/engine/license"
)

// GenerateAll returns one request per catalog entry in catalog order.
// It performs no I/O; the same catalog always yields the same requests.
func GenerateAll(c *license.Catalog) []Request {
	if c == nil {
		return nil
	}
	entries := c.Entries()
	reqs := make([]Request, len(entries))
	for i, entry := range entries {
		reqs[i] = Generate(entry)
	}
	return reqs
}

// Generate builds the request for a single entry.
func Generate(entry *license.Entry) Request {
	artifact := ArtifactName(entry.Name())
	return Request{
		TargetPackage:  entry.Package(),
		ArtifactName:   artifact,
		PackageName:    PackageIdent(entry.Package()),
		FileStem:       FileStem(entry.Name()),
		AliasArtifacts: aliasArtifacts(artifact, entry.Aliases()),
		Source:         entry,
	}
}

func aliasArtifacts(artifact string, aliases []string) []string {
	var out []string
	for _, alias := range aliases {
		name := ArtifactName(alias)
		if name == artifact || slices.Contains(out, name) {
			continue
		}
		out = append(out, name)
	}
	return out
}
