package profile

import _ "embed"

//go:embed profiles/default.yaml
var defaultYAML []byte

//go:embed profiles/strict.yaml
var strictYAML []byte

// builtinProfiles maps profile names to their embedded YAML content.
var builtinProfiles = map[string][]byte{
	"default": defaultYAML,
	"strict":  strictYAML,
}
