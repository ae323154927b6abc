package dispatch

import (
	"fmt"

	"directory-bridge-server/internal/models"
)

// ArgSpec describes one key of an argument bundle.
type ArgSpec struct {
	Key         string
	Kind        models.Kind
	Required    bool
	Description string
}

// Schema is the ordered argument list of one operation.
type Schema []ArgSpec

// Schemas is the per-operation argument table. Keys not listed are ignored.
var Schemas = map[Operation]Schema{
	OpGetPlatformVersion: {},
	OpSelectDirectory:    {},
	OpHasPermission: {
		{Key: "directoryPath", Kind: models.KindString, Required: true, Description: "Directory to probe for write access"},
	},
	OpRequestPermission: {
		{Key: "directoryPath", Kind: models.KindString, Required: true, Description: "Directory to probe for write access"},
	},
	OpWriteFile: {
		{Key: "directoryPath", Kind: models.KindString, Required: true, Description: "Existing, writable directory"},
		{Key: "fileName", Kind: models.KindString, Required: true, Description: "Name of a direct child; must not contain '..', '/' or '\\'"},
		{Key: "content", Kind: models.KindString, Required: true, Description: "Full file body, written verbatim"},
	},
	OpListDirectory: {
		{Key: "directoryPath", Kind: models.KindString, Required: true, Description: "Directory to enumerate"},
		{Key: "recursive", Kind: models.KindBool, Description: "List all descendants as '/'-joined relative paths"},
	},
	OpReadFile: {
		{Key: "filePath", Kind: models.KindString, Required: true, Description: "File to read"},
	},
	OpGetDirectoryDetails: {
		{Key: "directoryPath", Kind: models.KindString, Required: true, Description: "Directory to enumerate"},
		{Key: "recursive", Kind: models.KindBool, Description: "Describe all descendants"},
		{Key: "strict", Kind: models.KindBool, Description: "Fail the call when any entry cannot be stat'ed"},
	},
}

// ValidationError is returned by Validate. Its message is sent to callers.
type ValidationError struct {
	Key  string
	Kind models.Kind
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s must be a %s", e.Key, e.Kind)
}

// Validate checks args against s. Every spec is checked in order and the
// first violation is reported. Optional keys may be absent but, when
// present, must have the declared kind.
func (s Schema) Validate(args models.Arguments) error {
	for _, spec := range s {
		v, ok := args.Lookup(spec.Key)
		if !ok {
			if spec.Required {
				return &ValidationError{Key: spec.Key, Kind: spec.Kind}
			}
			continue
		}
		if v.Kind() != spec.Kind {
			return &ValidationError{Key: spec.Key, Kind: spec.Kind}
		}
	}
	return nil
}

// HasRequired reports whether the schema needs an argument bundle at all.
func (s Schema) HasRequired() bool {
	for _, spec := range s {
		if spec.Required {
			return true
		}
	}
	return false
}
