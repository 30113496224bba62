// Package emit walks a scanner.Protocol AST and writes the Go source text
// of its generated per-interface descriptors: request methods, event
// decoders, opcode tables, and enum constants, bound to the wire/conn
// packages.
package emit

import (
	"fmt"
	"strings"

	"github.com/bnema/go-wlwire/normalize"
	"github.com/bnema/go-wlwire/scanner"
)

// Options configures a single generation run.
type Options struct {
	PackageName string
	Table       normalize.Table
	// ExtraImports are additional import paths (cross-protocol modules
	// referenced by -R rules) written into the generated file's import
	// block alongside the fixed conn/wire/wlproto imports.
	ExtraImports []string
}

// generator holds the state of a single Generate call. Its local set tracks
// which interface wire names are defined in the protocol being generated (so
// a new_id/object arg referencing them can be emitted as a typed field
// instead of a bare id).
type generator struct {
	opts  Options
	local map[string]bool
	sb    strings.Builder
}

// Generate renders the full Go source file for proto: package clause,
// imports, and one block per interface.
func Generate(proto *scanner.Protocol, opts Options) (string, error) {
	g := &generator{opts: opts, local: map[string]bool{}}
	for _, iface := range proto.Interfaces {
		g.local[iface.Name] = true
	}

	g.writeHeader(proto)
	for _, iface := range proto.Interfaces {
		if err := g.writeInterface(iface); err != nil {
			return "", err
		}
	}
	return g.sb.String(), nil
}

func (g *generator) writeHeader(proto *scanner.Protocol) {
	sb := &g.sb
	if proto.Copyright != "" {
		fmt.Fprintf(sb, "// %s\n", strings.ReplaceAll(proto.Copyright, "\n", "\n// "))
	}
	if proto.Description != "" {
		fmt.Fprintf(sb, "// %s\n", strings.ReplaceAll(proto.Description, "\n", "\n// "))
	}
	fmt.Fprintf(sb, "package %s\n\n", g.opts.PackageName)
	fmt.Fprintf(sb, "import (\n\t\"github.com/bnema/go-wlwire/conn\"\n\t\"github.com/bnema/go-wlwire/wire\"\n\t\"github.com/bnema/go-wlwire/wlproto\"\n")
	for _, path := range g.opts.ExtraImports {
		fmt.Fprintf(sb, "\t%q\n", path)
	}
	fmt.Fprintf(sb, ")\n\n")
}

func (g *generator) structName(ifaceName string) string {
	return normalize.PascalCase(ifaceName)
}

func (g *generator) writeInterface(iface scanner.Interface) error {
	sb := &g.sb
	name := g.structName(iface.Name)

	if iface.Description != "" {
		fmt.Fprintf(sb, "// %s %s\n", name, strings.ReplaceAll(iface.Description, "\n", "\n// "))
	}
	fmt.Fprintf(sb, "type %s struct {\n\tId      wlproto.ObjectId\n\tVersion uint32\n}\n\n", name)
	fmt.Fprintf(sb, "const %sInterfaceStr = %q\n\n", name, iface.Name)
	fmt.Fprintf(sb, "func (o *%s) InterfaceStr() string { return %sInterfaceStr }\n\n", name, name)

	g.writeOpcodes(name, "Request", iface.Requests)
	g.writeOpcodes(name, "Event", iface.Events)

	for _, e := range iface.Enums {
		g.writeEnum(name, e)
	}

	for i, m := range iface.Requests {
		if err := g.writeRequest(iface, name, m, uint16(i)); err != nil {
			return err
		}
	}
	for i, m := range iface.Events {
		if err := g.writeEvent(iface, name, m, uint16(i)); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) writeOpcodes(ifaceName, kind string, methods []scanner.Method) {
	if len(methods) == 0 {
		return
	}
	sb := &g.sb
	fmt.Fprintf(sb, "const (\n")
	for i, m := range methods {
		fmt.Fprintf(sb, "\topcode%s%s%s uint16 = %d\n", ifaceName, kind, normalize.PascalCase(m.Name), i)
	}
	fmt.Fprintf(sb, ")\n\n")
}

func (g *generator) writeEnum(ifaceName string, e scanner.Enum) {
	sb := &g.sb
	typeName := ifaceName + normalize.PascalCase(e.Name)
	if e.Description != "" {
		fmt.Fprintf(sb, "// %s %s\n", typeName, strings.ReplaceAll(e.Description, "\n", "\n// "))
	}
	fmt.Fprintf(sb, "type %s uint32\n\n", typeName)
	fmt.Fprintf(sb, "const (\n")
	for _, entry := range e.Entries {
		if entry.Summary != "" {
			fmt.Fprintf(sb, "\t// %s\n", entry.Summary)
		}
		entryName := typeName + normalize.PascalCase(normalize.EntryName(entry.Name))
		fmt.Fprintf(sb, "\t%s %s = %s\n", entryName, typeName, normalize.FormatEnumValue(entry.Value, e.Bitfield))
	}
	fmt.Fprintf(sb, ")\n\n")
}

// argGoType returns the Go parameter type for a: a typed interface
// reference for object/new_id args whose interface resolves, a bare
// ObjectId for those that do not.
func (g *generator) argGoType(a scanner.Arg) string {
	switch a.Type {
	case scanner.ArgInt:
		return "int32"
	case scanner.ArgUint:
		return "uint32"
	case scanner.ArgFixed:
		return "wlproto.Fixed"
	case scanner.ArgArray:
		return "[]byte"
	case scanner.ArgFd:
		return "int"
	case scanner.ArgString:
		return "string"
	case scanner.ArgObject:
		if ref := g.resolveTypeRef(a.Interface); ref != "" {
			return ref
		}
		return "wlproto.ObjectId"
	case scanner.ArgNewId:
		if ref := g.resolveTypeRef(a.Interface); ref != "" {
			return ref
		}
		return "wlproto.ObjectId"
	case scanner.ArgEnum:
		iface, _, _ := strings.Cut(a.EnumName, ".")
		if iface != "" && iface != a.EnumName {
			return g.structName(iface) + normalize.PascalCase(strings.TrimPrefix(a.EnumName, iface+"."))
		}
		return normalize.PascalCase(a.EnumName)
	default:
		return "any"
	}
}

// resolveTypeRef returns the pointer-typed Go reference for ifaceName: a
// local "*StructName" if the interface is defined in this same generation
// run, a cross-protocol "*module.StructName" if a replace rule resolves
// it, or "" if neither — in which case the caller falls back to a bare
// wlproto.ObjectId.
func (g *generator) resolveTypeRef(ifaceName string) string {
	if ifaceName == "" {
		return ""
	}
	if g.local[ifaceName] {
		return "*" + g.structName(ifaceName)
	}
	if ref, ok := g.opts.Table.Resolve(ifaceName); ok {
		return "*" + ref
	}
	return ""
}

// eventArgGoType is argGoType specialized for event fields: object and
// new_id args always decode as a bare ObjectId, since an event may
// reference an object the caller has not wrapped in a typed descriptor
// yet (or, for new_id events, one the client itself must already have
// pre-allocated).
func (g *generator) eventArgGoType(a scanner.Arg) string {
	switch a.Type {
	case scanner.ArgObject, scanner.ArgNewId:
		return "wlproto.ObjectId"
	default:
		return g.argGoType(a)
	}
}

func (g *generator) writeArgEncode(sb *strings.Builder, a scanner.Arg) {
	pname := normalize.CamelCase(a.Name)
	switch a.Type {
	case scanner.ArgInt:
		fmt.Fprintf(sb, "\targs.PutInt32(%s)\n", pname)
	case scanner.ArgUint:
		fmt.Fprintf(sb, "\targs.PutUint32(%s)\n", pname)
	case scanner.ArgFixed:
		fmt.Fprintf(sb, "\targs.PutFixed(%s)\n", pname)
	case scanner.ArgArray:
		fmt.Fprintf(sb, "\targs.PutArray(%s)\n", pname)
	case scanner.ArgFd:
		fmt.Fprintf(sb, "\targs.PutFd(%s)\n", pname)
	case scanner.ArgString:
		if a.AllowNull {
			fmt.Fprintf(sb, "\tif %s == \"\" {\n\t\targs.PutNullString()\n\t} else {\n\t\targs.PutString(%s)\n\t}\n", pname, pname)
		} else {
			fmt.Fprintf(sb, "\targs.PutString(%s)\n", pname)
		}
	case scanner.ArgObject:
		if g.resolveTypeRef(a.Interface) != "" {
			if a.AllowNull {
				fmt.Fprintf(sb, "\tif %s == nil {\n\t\targs.PutObject(0)\n\t} else {\n\t\targs.PutObject(%s.Id)\n\t}\n", pname, pname)
			} else {
				fmt.Fprintf(sb, "\targs.PutObject(%s.Id)\n", pname)
			}
		} else {
			fmt.Fprintf(sb, "\targs.PutObject(%s)\n", pname)
		}
	case scanner.ArgEnum:
		if a.EnumSigned {
			fmt.Fprintf(sb, "\targs.PutInt32(int32(%s))\n", pname)
		} else {
			fmt.Fprintf(sb, "\targs.PutUint32(uint32(%s))\n", pname)
		}
	}
}

func (g *generator) writeRequest(iface scanner.Interface, ifaceName string, m scanner.Method, opcode uint16) error {
	sb := &g.sb
	methodName := normalize.MethodName(m.Name)
	newIdArg, hasNewId := m.NewIdArg()

	params := []string{"c *conn.Connection"}
	for _, a := range m.Args {
		if a.Type == scanner.ArgNewId {
			if a.Interface == "" {
				// Generic bind-style new_id: caller supplies the runtime
				// interface string and version since the target type isn't
				// statically known.
				params = append(params, fmt.Sprintf("%sInterface string", normalize.CamelCase(a.Name)), fmt.Sprintf("%sVersion uint32", normalize.CamelCase(a.Name)))
			}
			continue
		}
		params = append(params, fmt.Sprintf("%s %s", normalize.CamelCase(a.Name), g.argGoType(a)))
	}

	returnType := "error"
	if hasNewId {
		returnType = fmt.Sprintf("(%s, error)", g.argGoType(newIdArg))
	}

	if m.Description != "" {
		fmt.Fprintf(sb, "// %s %s\n", methodName, strings.ReplaceAll(m.Description, "\n", "\n// "))
	}
	fmt.Fprintf(sb, "func (o *%s) %s(%s) %s {\n", ifaceName, methodName, strings.Join(params, ", "), returnType)

	if m.Since > 1 {
		if hasNewId {
			fmt.Fprintf(sb, "\tif err := c.CheckVersion(o.Id, %sInterfaceStr, %q, %d); err != nil {\n\t\treturn nil, err\n\t}\n", ifaceName, m.Name, m.Since)
		} else {
			fmt.Fprintf(sb, "\tif err := c.CheckVersion(o.Id, %sInterfaceStr, %q, %d); err != nil {\n\t\treturn err\n\t}\n", ifaceName, m.Name, m.Since)
		}
	}

	fmt.Fprintf(sb, "\targs := wire.NewArgWriter()\n")
	for _, a := range m.Args {
		if a.Type == scanner.ArgNewId {
			continue
		}
		g.writeArgEncode(sb, a)
	}

	typeRef := g.resolveTypeRef(newIdArg.Interface)
	if hasNewId {
		fmt.Fprintf(sb, "\tnewId := c.NextObjectId()\n")
		if newIdArg.Interface != "" {
			fmt.Fprintf(sb, "\targs.PutNewId(newId)\n")
		} else {
			fmt.Fprintf(sb, "\targs.PutNewIdGeneric(%sInterface, %sVersion, newId)\n", normalize.CamelCase(newIdArg.Name), normalize.CamelCase(newIdArg.Name))
		}
	}

	if hasNewId {
		fmt.Fprintf(sb, "\tif err := c.SendRequest(o.Id, opcode%sRequest%s, args); err != nil {\n\t\treturn nil, err\n\t}\n", ifaceName, normalize.PascalCase(m.Name))
		switch {
		case typeRef != "":
			// Known, resolvable interface: single-id new_id encoding, child
			// inherits the creating object's bound version.
			fmt.Fprintf(sb, "\tc.Bind(newId, o.Version)\n")
			fmt.Fprintf(sb, "\treturn &%s{Id: newId, Version: o.Version}, nil\n", strings.TrimPrefix(typeRef, "*"))
		case newIdArg.Interface != "":
			// Known interface, but its Go type isn't resolvable here (no
			// local definition, no matching -R rule): still a single-id
			// new_id encoding, just returned as a bare id.
			fmt.Fprintf(sb, "\tc.Bind(newId, o.Version)\n")
			fmt.Fprintf(sb, "\treturn newId, nil\n")
		default:
			// Generic bind-style new_id: interface/version were supplied at
			// the call site and already written to the wire above.
			fmt.Fprintf(sb, "\tc.Bind(newId, %sVersion)\n", normalize.CamelCase(newIdArg.Name))
			fmt.Fprintf(sb, "\treturn newId, nil\n")
		}
	} else {
		fmt.Fprintf(sb, "\treturn c.SendRequest(o.Id, opcode%sRequest%s, args)\n", ifaceName, normalize.PascalCase(m.Name))
	}
	fmt.Fprintf(sb, "}\n\n")
	return nil
}

func (g *generator) writeEvent(iface scanner.Interface, ifaceName string, m scanner.Method, opcode uint16) error {
	sb := &g.sb
	pascalName := normalize.PascalCase(m.Name)
	eventType := ifaceName + pascalName + "Event"

	if m.Description != "" {
		fmt.Fprintf(sb, "// %s %s\n", eventType, strings.ReplaceAll(m.Description, "\n", "\n// "))
	}
	fmt.Fprintf(sb, "type %s struct {\n\tSelf *%s\n", eventType, ifaceName)
	for _, a := range m.Args {
		fmt.Fprintf(sb, "\t%s %s\n", normalize.PascalCase(a.Name), g.eventArgGoType(a))
	}
	fmt.Fprintf(sb, "}\n\n")

	fmt.Fprintf(sb, "// Decode%s decodes a %s.%s event from ev, returning ok=false if ev does not\n// target self or does not carry this event's opcode.\n", eventType, ifaceName, m.Name)
	fmt.Fprintf(sb, "func Decode%s(self *%s, ev wlproto.AnonymousEvent, fdq *wire.FDQueue) (*%s, bool, error) {\n", eventType, ifaceName, eventType)
	fmt.Fprintf(sb, "\tif ev.SelfId != self.Id || ev.Opcode != opcode%sEvent%s {\n\t\treturn nil, false, nil\n\t}\n", ifaceName, pascalName)
	fmt.Fprintf(sb, "\tr := wire.NewArgReader(ev.ArgBytes, fdq)\n")
	fmt.Fprintf(sb, "\tout := &%s{Self: self}\n", eventType)
	for _, a := range m.Args {
		field := normalize.PascalCase(a.Name)
		switch a.Type {
		case scanner.ArgInt:
			fmt.Fprintf(sb, "\t{\n\t\tv, err := r.Int32()\n\t\tif err != nil {\n\t\t\treturn nil, false, err\n\t\t}\n\t\tout.%s = v\n\t}\n", field)
		case scanner.ArgUint:
			fmt.Fprintf(sb, "\t{\n\t\tv, err := r.Uint32()\n\t\tif err != nil {\n\t\t\treturn nil, false, err\n\t\t}\n\t\tout.%s = v\n\t}\n", field)
		case scanner.ArgFixed:
			fmt.Fprintf(sb, "\t{\n\t\tv, err := r.Fixed()\n\t\tif err != nil {\n\t\t\treturn nil, false, err\n\t\t}\n\t\tout.%s = v\n\t}\n", field)
		case scanner.ArgArray:
			fmt.Fprintf(sb, "\t{\n\t\tv, err := r.Array()\n\t\tif err != nil {\n\t\t\treturn nil, false, err\n\t\t}\n\t\tout.%s = v\n\t}\n", field)
		case scanner.ArgFd:
			fmt.Fprintf(sb, "\t{\n\t\tv, err := r.Fd()\n\t\tif err != nil {\n\t\t\treturn nil, false, err\n\t\t}\n\t\tout.%s = v\n\t}\n", field)
		case scanner.ArgString:
			fmt.Fprintf(sb, "\t{\n\t\tv, err := r.String(%t)\n\t\tif err != nil {\n\t\t\treturn nil, false, err\n\t\t}\n\t\tout.%s = v\n\t}\n", a.AllowNull, field)
		case scanner.ArgObject, scanner.ArgNewId:
			fmt.Fprintf(sb, "\t{\n\t\tv, err := r.Object(%t)\n\t\tif err != nil {\n\t\t\treturn nil, false, err\n\t\t}\n\t\tout.%s = v\n\t}\n", a.AllowNull, field)
		case scanner.ArgEnum:
			goType := g.argGoType(a)
			if a.EnumSigned {
				fmt.Fprintf(sb, "\t{\n\t\tv, err := r.Int32()\n\t\tif err != nil {\n\t\t\treturn nil, false, err\n\t\t}\n\t\tout.%s = %s(v)\n\t}\n", field, goType)
			} else {
				fmt.Fprintf(sb, "\t{\n\t\tv, err := r.Uint32()\n\t\tif err != nil {\n\t\t\treturn nil, false, err\n\t\t}\n\t\tout.%s = %s(v)\n\t}\n", field, goType)
			}
		}
	}
	fmt.Fprintf(sb, "\treturn out, true, nil\n}\n\n")
	return nil
}
