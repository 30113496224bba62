// Package scanner consumes the token stream produced by the xml package
// and builds the in-memory protocol AST: interfaces, requests, events,
// enums, and their arguments.
package scanner

// ArgType is the tagged union of wire argument types a Method.Args entry
// can hold.
type ArgType int

const (
	ArgInt ArgType = iota
	ArgUint
	ArgFixed
	ArgArray
	ArgFd
	ArgString
	ArgObject
	ArgNewId
	ArgEnum
)

func (t ArgType) String() string {
	switch t {
	case ArgInt:
		return "int"
	case ArgUint:
		return "uint"
	case ArgFixed:
		return "fixed"
	case ArgArray:
		return "array"
	case ArgFd:
		return "fd"
	case ArgString:
		return "string"
	case ArgObject:
		return "object"
	case ArgNewId:
		return "new_id"
	case ArgEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Arg is a single request/event argument.
type Arg struct {
	Name        string
	Type        ArgType
	Interface   string // set for object/new_id args with a known interface
	AllowNull   bool   // string/object nullability
	EnumName    string // qualified enum reference, for ArgEnum
	EnumSigned  bool   // true if the enum's base type is int, false if uint
	Summary     string
	Description string
}

// Entry is a single enum variant.
type Entry struct {
	Name             string
	Value            uint32
	Summary          string
	Since            uint32
	DeprecatedSince  uint32
	Description      string
}

// Enum is a named, optionally bitfield-flagged set of integer constants.
type Enum struct {
	Name        string
	Since       uint32
	Bitfield    bool
	Description string
	Entries     []Entry
}

// Method is a request or an event: a name, an ordered argument list, and
// the metadata the emitter needs (destructor-ness, version gating).
type Method struct {
	Name            string
	IsDestructor    bool
	Since           uint32
	DeprecatedSince uint32
	Description     string
	Args            []Arg
}

// NewIdArg returns the method's new_id argument, if it has one. Per
// spec.md's invariant, a method has at most one.
func (m Method) NewIdArg() (Arg, bool) {
	for _, a := range m.Args {
		if a.Type == ArgNewId {
			return a, true
		}
	}
	return Arg{}, false
}

// Interface is one protocol interface: its requests, events, and enums.
type Interface struct {
	Name        string
	Version     uint8
	Description string
	Requests    []Method
	Events      []Method
	Enums       []Enum
}

// Protocol is the root of the AST, one per XML file.
type Protocol struct {
	Name        string
	Copyright   string
	Description string
	Interfaces  []Interface
}
