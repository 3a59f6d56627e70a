package dictionary

import (
	_ "embed"
	"fmt"
	"iter"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/hsdfat8/gy-dcca/datatype"
)

//go:embed gy.yaml
var defaultSchema []byte

type avpKey struct {
	code   uint32
	vendor uint32
}

// Registry is the immutable set of AVP definitions. Construct it once at
// startup and pass it by reference; concurrent readers need no locking.
type Registry struct {
	byName map[string]*AVPDefinition
	byCode map[avpKey]*AVPDefinition
	names  []string
}

// schemaDoc mirrors the YAML schema document layout.
type schemaDoc struct {
	AVPs []schemaAVP `yaml:"avps"`
}

type schemaAVP struct {
	Name        string           `yaml:"name"`
	Code        uint32           `yaml:"code"`
	Type        string           `yaml:"type"`
	Must        bool             `yaml:"must"`
	MayEncrypt  bool             `yaml:"may_encrypt"`
	VendorID    uint32           `yaml:"vendor_id"`
	Description string           `yaml:"description"`
	Enum        map[string]int32 `yaml:"enum"`
	Grouped     []string         `yaml:"grouped"`
}

// Load reads the schema document at path. A missing file yields an empty
// registry, not an error; callers check Empty() before relying on it.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return emptyRegistry(), nil
		}
		return nil, ErrSchemaLoad{Reason: err.Error()}
	}
	return Parse(data)
}

// LoadDefault builds the registry from the embedded Gy dictionary.
func LoadDefault() (*Registry, error) {
	return Parse(defaultSchema)
}

// Parse builds and validates a registry from schema document bytes.
func Parse(data []byte) (*Registry, error) {
	var doc schemaDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, ErrSchemaLoad{Reason: err.Error()}
	}

	r := emptyRegistry()
	for _, a := range doc.AVPs {
		def, err := buildDefinition(a)
		if err != nil {
			return nil, err
		}
		if _, dup := r.byName[def.Name]; dup {
			return nil, ErrSchemaLoad{AVP: def.Name, Reason: "duplicate name"}
		}
		key := avpKey{code: def.Code, vendor: def.VendorID}
		if other, dup := r.byCode[key]; dup {
			return nil, ErrSchemaLoad{AVP: def.Name,
				Reason: fmt.Sprintf("duplicate code %d (vendor %d), already used by %s", def.Code, def.VendorID, other.Name)}
		}
		r.byName[def.Name] = def
		r.byCode[key] = def
		r.names = append(r.names, def.Name)
	}

	if err := r.validateGroupedClosure(); err != nil {
		return nil, err
	}

	sort.Strings(r.names)
	return r, nil
}

func emptyRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*AVPDefinition),
		byCode: make(map[avpKey]*AVPDefinition),
	}
}

func buildDefinition(a schemaAVP) (*AVPDefinition, error) {
	if a.Name == "" {
		return nil, ErrSchemaLoad{Reason: "AVP with empty name"}
	}
	if a.Code == 0 {
		return nil, ErrSchemaLoad{AVP: a.Name, Reason: "missing code"}
	}
	typeID, ok := datatype.Available[a.Type]
	if !ok {
		return nil, ErrSchemaLoad{AVP: a.Name, Reason: fmt.Sprintf("unknown type %q", a.Type)}
	}
	if typeID == datatype.EnumeratedType && len(a.Enum) == 0 {
		return nil, ErrSchemaLoad{AVP: a.Name, Reason: "Enumerated AVP without enum values"}
	}
	if typeID != datatype.EnumeratedType && len(a.Enum) > 0 {
		return nil, ErrSchemaLoad{AVP: a.Name, Reason: fmt.Sprintf("enum values declared on %s AVP", a.Type)}
	}
	if typeID == datatype.GroupedType && len(a.Grouped) == 0 {
		return nil, ErrSchemaLoad{AVP: a.Name, Reason: "Grouped AVP without child list"}
	}
	if typeID != datatype.GroupedType && len(a.Grouped) > 0 {
		return nil, ErrSchemaLoad{AVP: a.Name, Reason: fmt.Sprintf("grouped children declared on %s AVP", a.Type)}
	}
	return &AVPDefinition{
		Name:       a.Name,
		Code:       a.Code,
		Type:       typeID,
		TypeName:   a.Type,
		Must:       a.Must,
		MayEncrypt: a.MayEncrypt,
		VendorID:   a.VendorID,
		Enum:       a.Enum,
		Grouped:    a.Grouped,
	}, nil
}

// validateGroupedClosure checks that every grouped child name, transitively,
// resolves inside this registry and that no AVP reaches itself.
func (r *Registry) validateGroupedClosure() error {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(r.byName))

	var walk func(name string) error
	walk = func(name string) error {
		def := r.byName[name]
		state[name] = visiting
		for _, child := range def.Grouped {
			childDef, ok := r.byName[child]
			if !ok {
				return ErrSchemaLoad{AVP: name, Reason: fmt.Sprintf("grouped child %q has no definition", child)}
			}
			switch state[child] {
			case visiting:
				return ErrSchemaLoad{AVP: name, Reason: fmt.Sprintf("grouped child %q creates a reference cycle", child)}
			case unvisited:
				if childDef.Type == datatype.GroupedType {
					if err := walk(child); err != nil {
						return err
					}
				} else {
					state[child] = done
				}
			}
		}
		state[name] = done
		return nil
	}

	for name, def := range r.byName {
		if def.Type != datatype.GroupedType || state[name] == done {
			continue
		}
		if err := walk(name); err != nil {
			return err
		}
	}
	return nil
}

// Empty reports whether the registry holds no definitions, which happens
// when the schema document was missing.
func (r *Registry) Empty() bool {
	return len(r.byName) == 0
}

// Len returns the number of definitions.
func (r *Registry) Len() int {
	return len(r.byName)
}

// ByName looks up a definition by its unique name.
func (r *Registry) ByName(name string) (*AVPDefinition, bool) {
	def, ok := r.byName[name]
	return def, ok
}

// ByCode looks up a definition by protocol code and vendor scope.
func (r *Registry) ByCode(code, vendorID uint32) (*AVPDefinition, bool) {
	def, ok := r.byCode[avpKey{code: code, vendor: vendorID}]
	return def, ok
}

// EnumValue resolves an enumerated symbol for the named AVP.
func (r *Registry) EnumValue(name, symbol string) (int32, error) {
	def, ok := r.byName[name]
	if !ok {
		return 0, ErrUnknownAttribute{Name: name}
	}
	v, ok := def.Enum[symbol]
	if !ok {
		return 0, ErrUnknownEnumSymbol{AVP: name, Symbol: symbol}
	}
	return v, nil
}

// Names iterates the definition names in sorted order. The sequence is
// restartable; each range starts from the beginning.
func (r *Registry) Names() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, name := range r.names {
			if !yield(name) {
				return
			}
		}
	}
}
