// Package normalize turns wire-format protocol identifiers (snake_case
// interface/method/entry names, dotted enum references) into the Go
// identifiers the emitter writes into generated source. It is purely
// textual: every function here takes and returns strings, never AST types.
package normalize

import (
	"strconv"
	"strings"
)

// Rule is a (prefix, module) replace rule: an interface whose wire name
// begins with prefix resolves into the Go package named module, per the
// generator CLI's `-R prefix:name` directive.
type Rule struct {
	Prefix string
	Module string
}

// Import is a `-I name:path` directive: an importable module named name,
// bound to one or more underlying paths. `@This()` denotes the protocol
// currently being generated (a self-reference, carrying no import path).
type Import struct {
	Name  string
	Paths []string
}

// Table holds the replace rules and import declarations a single
// generation run was invoked with.
type Table struct {
	Rules   []Rule
	Imports []Import
}

// SelfModule is the sentinel module name denoting `@This()`: the protocol
// currently being generated, requiring no import qualifier.
const SelfModule = "@This()"

func (t Table) lookupModule(ifaceName string) (module string, rest string, ok bool) {
	best := -1
	for _, r := range t.Rules {
		if strings.HasPrefix(ifaceName, r.Prefix) && len(r.Prefix) > best {
			best = len(r.Prefix)
			module = r.Module
			rest = ifaceName[len(r.Prefix):]
			ok = true
		}
	}
	return module, rest, ok
}

// InterfaceRef normalizes a wire interface name into a Go reference. If
// the name matches a known prefix rule, it becomes `module.PascalCase(rest)`
// (or bare `PascalCase(rest)` when the matched module is the self module);
// otherwise it Pascal-cases the whole name.
func (t Table) InterfaceRef(ifaceName string) string {
	if module, rest, ok := t.lookupModule(ifaceName); ok {
		if module == SelfModule || module == "" {
			return PascalCase(rest)
		}
		return module + "." + PascalCase(rest)
	}
	return PascalCase(ifaceName)
}

// Resolve reports the Go type reference for ifaceName if a replace rule
// matches it, and whether one did. Used by the emitter to decide between a
// typed cross-protocol reference and a bare wlproto.ObjectId fallback.
func (t Table) Resolve(ifaceName string) (string, bool) {
	module, rest, ok := t.lookupModule(ifaceName)
	if !ok {
		return "", false
	}
	if module == SelfModule || module == "" {
		return PascalCase(rest), true
	}
	return module + "." + PascalCase(rest), true
}

// EnumRef normalizes a dotted enum reference ("wl_surface.error" or a bare
// "error" local to the interface being generated) into a Go reference:
// the interface part resolves via InterfaceRef, the enum part Pascal-cases.
func (t Table) EnumRef(ref string) string {
	iface, enum, hasDot := strings.Cut(ref, ".")
	if !hasDot {
		return PascalCase(ref)
	}
	return t.InterfaceRef(iface) + PascalCase(enum)
}

// MethodName normalizes a request/event name into a camelCase Go method
// name, escaping it if it collides with a reserved identifier.
func MethodName(name string) string {
	return EscapeReserved(CamelCase(name))
}

// EntryName normalizes an enum entry name: snake_case is preserved, but a
// leading digit or a reserved-identifier collision is escaped.
func EntryName(name string) string {
	if name == "" {
		return name
	}
	if name[0] >= '0' && name[0] <= '9' {
		return "_" + name
	}
	return EscapeReserved(name)
}

// goReserved is the set of Go keywords and predeclared identifiers a
// generated name must not collide with verbatim.
var goReserved = map[string]bool{
	"break": true, "default": true, "func": true, "interface": true, "select": true,
	"case": true, "defer": true, "go": true, "map": true, "struct": true,
	"chan": true, "else": true, "goto": true, "package": true, "switch": true,
	"const": true, "fallthrough": true, "if": true, "range": true, "type": true,
	"continue": true, "for": true, "import": true, "return": true, "var": true,
	"error": true, "string": true, "int": true, "uint": true, "bool": true,
	"len": true, "cap": true, "new": true, "copy": true, "close": true,
}

// EscapeReserved appends an underscore to name if it collides with a Go
// keyword or commonly-shadowed predeclared identifier.
func EscapeReserved(name string) string {
	if goReserved[name] {
		return name + "_"
	}
	return name
}

// PascalCase converts a snake_case wire identifier to PascalCase.
func PascalCase(name string) string {
	return toCamel(name, true)
}

// CamelCase converts a snake_case wire identifier to camelCase.
func CamelCase(name string) string {
	return toCamel(name, false)
}

func toCamel(name string, upperFirst bool) string {
	var sb strings.Builder
	upperNext := upperFirst
	for _, r := range name {
		if r == '_' || r == '-' {
			upperNext = true
			continue
		}
		if upperNext {
			sb.WriteString(strings.ToUpper(string(r)))
			upperNext = false
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// FormatEnumValue renders an enum entry's integer value as Go source,
// using hex notation when the original wire value looks like a bitfield
// flag (a nonzero power of two, 1 included), matching how bitmask entries read
// in hand-written Go code.
func FormatEnumValue(value uint32, bitfield bool) string {
	if bitfield && value != 0 && value&(value-1) == 0 {
		return "0x" + strconv.FormatUint(uint64(value), 16)
	}
	return strconv.FormatUint(uint64(value), 10)
}
