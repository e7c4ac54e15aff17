package ledger

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/samber/oops"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Contract tags the dispatcher binds to.
const (
	TagActions    = "di-actions"
	TagGameSystem = "di-game_system"
)

// VRFProviderAddress is the well-known randomness oracle. Its address is
// fixed per deployment and not part of the manifest.
const VRFProviderAddress = "0x15f542e25a4ce31481f986888c179b6e57412be340b8095f72f75a328fbb27b"

const manifestSchema = `{
	"type": "object",
	"required": ["contracts"],
	"properties": {
		"contracts": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["tag", "address"],
				"properties": {
					"tag": {"type": "string", "minLength": 1},
					"address": {"type": "string", "pattern": "^0x[0-9a-fA-F]+$"}
				}
			}
		}
	}
}`

var compiledManifestSchema = jsonschema.MustCompileString("manifest.json", manifestSchema)

// Manifest maps contract tags to deployed addresses.
type Manifest struct {
	Contracts []ManifestContract `json:"contracts"`
}

type ManifestContract struct {
	Tag     string `json:"tag"`
	Address string `json:"address"`
}

// ParseManifest validates raw against the manifest schema before decoding.
// The dispatcher refuses to bind to an invalid manifest.
func ParseManifest(raw []byte) (Manifest, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Manifest{}, oops.Wrapf(err, "decode manifest")
	}
	if err := compiledManifestSchema.Validate(doc); err != nil {
		return Manifest{}, oops.Wrapf(err, "validate manifest")
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return Manifest{}, oops.Wrapf(err, "decode manifest")
	}
	return m, nil
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, oops.With("path", path).Wrapf(err, "read manifest")
	}
	return ParseManifest(raw)
}

// Address resolves a contract tag, matching on the tag suffix so namespaced
// tags ("ns-di-actions") still bind.
func (m Manifest) Address(tag string) (string, bool) {
	for _, c := range m.Contracts {
		if c.Tag == tag || strings.HasSuffix(c.Tag, tag) {
			return c.Address, true
		}
	}
	return "", false
}
