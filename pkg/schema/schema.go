package schema

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	cache   = make(map[reflect.Type]*Schema)
	cacheMu sync.Mutex
)

// Schema holds the reflected JSON schema of a Go type,
// both the raw form and the function-parameters form
// sent to chat providers.
type Schema struct {
	RawSchema *jsonschema.Schema
	// Parameters represents the Function parameters definition
	Parameters *jsonschema.Schema
}

// New creates a new schema from the given type.
// Schemas are cached per type.
func New(t reflect.Type) (*Schema, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if s, ok := cache[t]; ok {
		return s, nil
	}

	raw := JSONSchema(t)
	s := &Schema{
		RawSchema:  raw,
		Parameters: ToFunctionSchema(raw),
	}
	cache[t] = s

	return s, nil
}

func (s *Schema) String() string {
	js, _ := json.MarshalIndent(s.Parameters, "", "\t")
	return string(js)
}

// ToFunctionSchema flattens a reflected schema into the shape used for
// function/tool parameter definitions: top-level type, properties and
// required, with $defs references inlined.
func ToFunctionSchema(tSchema *jsonschema.Schema) *jsonschema.Schema {
	rootID := strings.TrimPrefix(tSchema.Ref, "#/$defs/")

	defs := make(map[string]*jsonschema.Schema)
	root := tSchema

	for name, def := range tSchema.Definitions {
		if name == rootID {
			root = def
		} else {
			defs[name] = def
		}
	}

	res := &jsonschema.Schema{
		Type:       root.Type,
		Properties: root.Properties,
		Required:   root.Required,
	}

	resolveRefs(res.Properties, defs)

	return res
}

func resolveRefs(props *orderedmap.OrderedMap[string, *jsonschema.Schema], defs map[string]*jsonschema.Schema) {
	if props == nil {
		return
	}
	for pair := props.Oldest(); pair != nil; pair = pair.Next() {
		child := pair.Value
		if child.Ref != "" {
			if def, ok := defs[strings.TrimPrefix(child.Ref, "#/$defs/")]; ok {
				pair.Value = def
			} else {
				pair.Value = &jsonschema.Schema{
					Type:        "object",
					Description: child.Description,
					Properties:  child.Properties,
					Required:    child.Required,
				}
			}
		}
		if child.Properties != nil {
			resolveRefs(child.Properties, defs)
		}
		if child.Items != nil && child.Items.Ref != "" {
			if def, ok := defs[strings.TrimPrefix(child.Items.Ref, "#/$defs/")]; ok {
				child.Items = def
			} else {
				child.Items = &jsonschema.Schema{
					Type:        "object",
					Description: child.Items.Description,
					Properties:  child.Items.Properties,
					Required:    child.Items.Required,
				}
			}
		}
	}
}

// JSONSchema reflects the json schema of the given type.
func JSONSchema(t reflect.Type) *jsonschema.Schema {
	// VS Code does not support the jsonschema version 2020-12
	jsonschema.Version = "http://json-schema.org/draft-07/schema#"

	r := new(jsonschema.Reflector)
	r.ExpandedStruct = true
	r.DoNotReference = true
	r.AllowAdditionalProperties = true

	// Struct names may collide across packages, which breaks $ref targets.
	// Qualify each struct name with a hash of its package path.
	// See https://github.com/invopop/jsonschema/issues/42
	r.Namer = func(t reflect.Type) string {
		name := t.Name()
		if t.Kind() == reflect.Struct {
			v := reflect.New(t)
			vt := v.Elem().Type()
			fullname := vt.PkgPath() + "/" + vt.Name()
			name = vt.Name() + "@" + strconv.FormatUint(xxhash.Sum64String(fullname), 10)
		}
		return name
	}

	return r.ReflectFromType(t)
}
