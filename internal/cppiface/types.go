package cppiface

// Kind is the canonical semantic tag of a C++ type.
type Kind int

const (
	// KindOpaque marks a type the normalizer could not resolve. The raw
	// text is carried in Type.Raw for emitters to pass through as an
	// object/any type.
	KindOpaque Kind = iota
	KindVoid
	KindBoolean
	KindByte
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindString
)

var kindNames = map[Kind]string{
	KindVoid:    "void",
	KindBoolean: "boolean",
	KindByte:    "byte",
	KindShort:   "short",
	KindInt:     "int",
	KindLong:    "long",
	KindFloat:   "float",
	KindDouble:  "double",
	KindString:  "string",
}

// String returns the canonical name, or "opaque".
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "opaque"
}

// Type is a canonical type: one of the closed kinds, or an opaque
// pass-through of the original type text.
type Type struct {
	Kind Kind
	// Raw is set only for KindOpaque.
	Raw string
}

// IsOpaque reports whether the type could not be resolved.
func (t Type) IsOpaque() bool {
	return t.Kind == KindOpaque
}

// Is reports whether t is the canonical kind k.
func (t Type) Is(k Kind) bool {
	return t.Kind == k
}

// String returns the canonical name for resolved types and the raw text
// for opaque ones.
func (t Type) String() string {
	if t.IsOpaque() {
		return t.Raw
	}
	return t.Kind.String()
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Text is normalized, so
// a marshaled Type always decodes to an equal value.
func (t *Type) UnmarshalText(text []byte) error {
	*t = Normalize(string(text))
	return nil
}

// Parameter is one parsed function parameter.
type Parameter struct {
	Type Type   `json:"type" yaml:"type"`
	Name string `json:"name" yaml:"name"`

	IsConst     bool `json:"isConst" yaml:"isConst"`
	IsPointer   bool `json:"isPointer" yaml:"isPointer"`
	IsReference bool `json:"isReference" yaml:"isReference"`

	// DefaultValue is the raw default expression, empty if none.
	DefaultValue string `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
}

// HasDefault reports whether the parameter declares a default value.
func (p Parameter) HasDefault() bool {
	return p.DefaultValue != ""
}

// Diagnostics records partial failures that did not abort the parse.
type Diagnostics struct {
	// Unparsed holds the text of parameters that could not be parsed and
	// were left out of Parameters.
	Unparsed []string `json:"unparsed,omitempty" yaml:"unparsed,omitempty"`
}

// Empty reports whether nothing went wrong.
func (d Diagnostics) Empty() bool {
	return len(d.Unparsed) == 0
}

// ParsedInterface is the structured description of one C++ function
// declaration. It is never mutated after Parse returns it.
type ParsedInterface struct {
	// Namespace is the first enclosing namespace identifier, empty if none.
	Namespace    string      `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	FunctionName string      `json:"functionName" yaml:"functionName"`
	ReturnType   Type        `json:"returnType" yaml:"returnType"`
	Parameters   []Parameter `json:"parameters" yaml:"parameters"`

	IsStatic  bool `json:"isStatic" yaml:"isStatic"`
	IsVirtual bool `json:"isVirtual" yaml:"isVirtual"`
	IsConst   bool `json:"isConst" yaml:"isConst"`

	// OriginalCode is the trimmed input, kept for diagnostics.
	OriginalCode string `json:"originalCode" yaml:"originalCode"`

	Diagnostics Diagnostics `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// HasNamespace reports whether a namespace was found.
func (pi *ParsedInterface) HasNamespace() bool {
	return pi.Namespace != ""
}

// QualifiedName returns Namespace::FunctionName, or the bare name.
func (pi *ParsedInterface) QualifiedName() string {
	if pi.HasNamespace() {
		return pi.Namespace + "::" + pi.FunctionName
	}
	return pi.FunctionName
}

// ReturnsVoid reports whether the function returns void.
func (pi *ParsedInterface) ReturnsVoid() bool {
	return pi.ReturnType.Is(KindVoid)
}
