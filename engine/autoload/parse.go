package autoload

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/gosimple/slug"
	"github.com/tidwall/gjson"

	"github.com/compozy/licensegen/engine/codegen"
	"github.com/compozy/licensegen/engine/license"
)

// Origin locates a record inside the catalog sources.
type Origin struct {
	File  string `json:"file"`
	Index int    `json:"index"`
}

func (o Origin) String() string {
	return fmt.Sprintf("%s[%d]", o.File, o.Index)
}

// Record is one raw catalog tuple and where it came from.
type Record struct {
	Config license.EntryConfig `json:"config"`
	Origin Origin              `json:"origin"`
}

// parseFile decodes a catalog file according to its extension.
func parseFile(file string, data []byte) ([]license.EntryConfig, error) {
	switch strings.ToLower(path.Ext(file)) {
	case ".json":
		return parseJSON(data)
	case ".yaml", ".yml":
		return parseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported catalog file extension %q", path.Ext(file))
	}
}

// parseJSON reads a raw license list:
//
//	[{"id": "MIT", "name": "MIT License", "other_names": [{"name": "Expat"}]}]
//
// An optional "package" field overrides package derivation.
func parseJSON(data []byte) ([]license.EntryConfig, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, errors.New("expected a JSON array of licenses")
	}
	var cfgs []license.EntryConfig
	var parseErr error
	root.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			parseErr = fmt.Errorf("element %d is not an object", key.Int())
			return false
		}
		cfg := license.EntryConfig{
			Name:    value.Get("name").String(),
			Package: value.Get("package").String(),
			ID:      value.Get("id").String(),
		}
		for _, alias := range value.Get("other_names.#.name").Array() {
			cfg.Aliases = append(cfg.Aliases, alias.String())
		}
		cfgs = append(cfgs, cfg)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return cfgs, nil
}

func parseYAML(data []byte) ([]license.EntryConfig, error) {
	var doc CatalogDocument
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.DisallowUnknownField()); err != nil {
		return nil, errors.New(yaml.FormatError(err, false, true))
	}
	return doc.Licenses, nil
}

// derivePackage fills a missing package from prefix and the entry's id, or
// its name when it has no id.
func derivePackage(cfg license.EntryConfig, prefix string) (license.EntryConfig, error) {
	if strings.TrimSpace(cfg.Package) != "" {
		return cfg, nil
	}
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return cfg, fmt.Errorf("license %q has no package and catalog.package_prefix is not set", cfg.Name)
	}
	elem := codegen.PackageElem(slug.Make(cfg.Name))
	if id := strings.TrimSpace(cfg.ID); id != "" {
		elem = codegen.PackageElem(id)
	}
	cfg.Package = prefix + "/" + elem
	return cfg, nil
}
