// Package codegen turns a license catalog into the ordered list of generation
// requests handed to the renderer.
package codegen

import "github.com/compozy/licensegen/engine/license"

// Request describes the artifact to emit for one catalog entry.
type Request struct {
	TargetPackage  string         `json:"target_package"`
	ArtifactName   string         `json:"artifact_name"`
	PackageName    string         `json:"package_name"`
	FileStem       string         `json:"file_stem"`
	AliasArtifacts []string       `json:"alias_artifacts,omitempty"`
	Source         *license.Entry `json:"source"`
}

// Identifiers returns every Go identifier the request declares, artifact first.
func (r Request) Identifiers() []string {
	ids := make([]string, 0, 1+len(r.AliasArtifacts))
	ids = append(ids, r.ArtifactName)
	return append(ids, r.AliasArtifacts...)
}
