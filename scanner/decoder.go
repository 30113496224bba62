package scanner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/go-wlwire/xml"
)

// SchemaErrorKind enumerates the decoder's semantic failure modes, each
// carrying the source position of the offending element or attribute.
type SchemaErrorKind int

const (
	NoName SchemaErrorKind = iota
	NoVersion
	TooManyX
	InvalidAttribute
	InterfaceInvalid
	AllowNullInvalid
	EnumInvalid
	UnexpectedElement
	UnexpectedToken
)

func (k SchemaErrorKind) String() string {
	switch k {
	case NoName:
		return "NoName"
	case NoVersion:
		return "NoVersion"
	case TooManyX:
		return "TooManyX"
	case InvalidAttribute:
		return "InvalidAttribute"
	case InterfaceInvalid:
		return "InterfaceInvalid"
	case AllowNullInvalid:
		return "AllowNullInvalid"
	case EnumInvalid:
		return "EnumInvalid"
	case UnexpectedElement:
		return "UnexpectedElement"
	case UnexpectedToken:
		return "UnexpectedToken"
	default:
		return "Unknown"
	}
}

// SchemaError is a semantic (post-tokenization) protocol-description error.
type SchemaError struct {
	Kind SchemaErrorKind
	Line int
	Col  int
	Msg  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", e.Line, e.Col, e.Kind, e.Msg)
}

// Decoder is a recursive-descent consumer of an xml.Tokenizer's token
// stream, producing a Protocol AST.
type Decoder struct {
	tok *xml.Tokenizer
	cur xml.Token
}

// NewDecoder returns a Decoder over the given protocol XML source.
func NewDecoder(src []byte) *Decoder {
	return &Decoder{tok: xml.New(src)}
}

func (d *Decoder) next() error {
	t, err := d.tok.Next()
	if err != nil {
		return err
	}
	d.cur = t
	return nil
}

func (d *Decoder) errf(kind SchemaErrorKind, format string, args ...any) *SchemaError {
	return &SchemaError{Kind: kind, Line: d.tok.Line(), Col: d.tok.Col(), Msg: fmt.Sprintf(format, args...)}
}

// openTag is the result of consuming a start tag plus its attributes. On
// return from parseOpenTag, d.cur holds the token immediately following the
// attribute run: either an EmptyTag for `name` (self == true, no body to
// parse) or the first token of the element's body.
type openTag struct {
	name  string
	attrs map[string]string
	order []string
	self  bool
}

func unescapeEntities(s string) string {
	r := strings.NewReplacer("&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'", "&amp;", "&")
	return r.Replace(s)
}

// parseOpenTag assumes d.cur already holds a StartTag for name and
// consumes its attribute run.
func (d *Decoder) parseOpenTag(name string) (openTag, error) {
	if d.cur.Kind != xml.StartTag || d.cur.Name != name {
		return openTag{}, d.errf(UnexpectedToken, "expected <%s>, got %s %q", name, d.cur.Kind, d.cur.Name)
	}
	ot := openTag{name: name, attrs: map[string]string{}}
	for {
		if err := d.next(); err != nil {
			return ot, err
		}
		if d.cur.Kind == xml.Attribute {
			if _, dup := ot.attrs[d.cur.Name]; dup {
				return ot, d.errf(TooManyX, "duplicate attribute %q on <%s>", d.cur.Name, name)
			}
			ot.attrs[d.cur.Name] = d.cur.Value
			ot.order = append(ot.order, d.cur.Name)
			continue
		}
		if d.cur.Kind == xml.EmptyTag && d.cur.Name == name {
			ot.self = true
		}
		return ot, nil
	}
}

// skipElement consumes a full element (and its subtree) assuming d.cur
// already holds its StartTag or EmptyTag. On return d.cur holds the token
// after the element's end.
func (d *Decoder) skipElement() error {
	if d.cur.Kind == xml.EmptyTag {
		return d.next()
	}
	name := d.cur.Name
	ot, err := d.parseOpenTag(name)
	if err != nil {
		return err
	}
	if ot.self {
		return d.next()
	}
	depth := 1
	for depth > 0 {
		switch d.cur.Kind {
		case xml.StartTag:
			inner := d.cur.Name
			innerOt, err := d.parseOpenTag(inner)
			if err != nil {
				return err
			}
			if !innerOt.self {
				depth++
				continue
			}
		case xml.EmptyTag:
			if err := d.next(); err != nil {
				return err
			}
			continue
		case xml.EndTag:
			depth--
			if err := d.next(); err != nil {
				return err
			}
			continue
		case xml.Text:
			if err := d.next(); err != nil {
				return err
			}
			continue
		case xml.EndOfFile:
			return d.errf(UnexpectedElement, "unexpected end of file inside <%s>", name)
		default:
			if err := d.next(); err != nil {
				return err
			}
		}
	}
	return nil
}

// parseDescription consumes a <description summary=...>text</description>
// element if present (d.cur must be positioned at it), returning its text
// body. Assumes d.cur holds StartTag/EmptyTag "description" on entry.
func (d *Decoder) parseDescription() (string, error) {
	ot, err := d.parseOpenTag("description")
	if err != nil {
		return "", err
	}
	if ot.self {
		if err := d.next(); err != nil {
			return "", err
		}
		return "", nil
	}
	var sb strings.Builder
	for d.cur.Kind != xml.EndTag {
		if d.cur.Kind == xml.Text {
			sb.WriteString(unescapeEntities(d.cur.Value))
		}
		if err := d.next(); err != nil {
			return "", err
		}
	}
	if err := d.next(); err != nil { // consume </description>
		return "", err
	}
	return strings.TrimSpace(sb.String()), nil
}

func parseUint(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// Decode parses the full token stream into a Protocol AST.
func (d *Decoder) Decode() (*Protocol, error) {
	if err := d.next(); err != nil {
		return nil, err
	}
	if d.cur.Kind != xml.StartTag || d.cur.Name != "protocol" {
		return nil, d.errf(UnexpectedToken, "expected root <protocol> element")
	}
	ot, err := d.parseOpenTag("protocol")
	if err != nil {
		return nil, err
	}
	name, ok := ot.attrs["name"]
	if !ok {
		return nil, d.errf(NoName, "<protocol> missing required name attribute")
	}
	proto := &Protocol{Name: name}
	if ot.self {
		if err := d.next(); err != nil {
			return nil, err
		}
		return proto, nil
	}

	for d.cur.Kind != xml.EndTag {
		switch d.cur.Kind {
		case xml.Text:
			if err := d.next(); err != nil {
				return nil, err
			}
		case xml.StartTag, xml.EmptyTag:
			switch d.cur.Name {
			case "copyright":
				txt, err := d.parseCopyright()
				if err != nil {
					return nil, err
				}
				proto.Copyright = txt
			case "description":
				txt, err := d.parseDescription()
				if err != nil {
					return nil, err
				}
				proto.Description = txt
			case "interface":
				iface, err := d.parseInterface()
				if err != nil {
					return nil, err
				}
				proto.Interfaces = append(proto.Interfaces, iface)
			default:
				return nil, d.errf(UnexpectedElement, "unexpected element <%s> inside <protocol>", d.cur.Name)
			}
		default:
			return nil, d.errf(UnexpectedToken, "unexpected token inside <protocol>")
		}
	}
	if err := d.next(); err != nil {
		return nil, err
	}
	return proto, nil
}

func (d *Decoder) parseCopyright() (string, error) {
	ot, err := d.parseOpenTag("copyright")
	if err != nil {
		return "", err
	}
	if ot.self {
		if err := d.next(); err != nil {
			return "", err
		}
		return "", nil
	}
	var sb strings.Builder
	for d.cur.Kind != xml.EndTag {
		if d.cur.Kind == xml.Text {
			sb.WriteString(d.cur.Value)
		}
		if err := d.next(); err != nil {
			return "", err
		}
	}
	if err := d.next(); err != nil {
		return "", err
	}
	return strings.TrimSpace(sb.String()), nil
}

func (d *Decoder) parseInterface() (Interface, error) {
	ot, err := d.parseOpenTag("interface")
	if err != nil {
		return Interface{}, err
	}
	name, ok := ot.attrs["name"]
	if !ok {
		return Interface{}, d.errf(NoName, "<interface> missing required name attribute")
	}
	versionStr, ok := ot.attrs["version"]
	if !ok {
		return Interface{}, d.errf(NoVersion, "<interface name=%q> missing required version attribute", name)
	}
	version, err := parseUint(versionStr)
	if err != nil || version > 255 {
		return Interface{}, d.errf(InvalidAttribute, "<interface name=%q> has invalid version %q", name, versionStr)
	}
	iface := Interface{Name: name, Version: uint8(version)}
	if ot.self {
		if err := d.next(); err != nil {
			return Interface{}, err
		}
		return iface, nil
	}

	for d.cur.Kind != xml.EndTag {
		switch d.cur.Kind {
		case xml.Text:
			if err := d.next(); err != nil {
				return Interface{}, err
			}
		case xml.StartTag, xml.EmptyTag:
			switch d.cur.Name {
			case "description":
				txt, err := d.parseDescription()
				if err != nil {
					return Interface{}, err
				}
				iface.Description = txt
			case "request":
				m, err := d.parseMethod("request")
				if err != nil {
					return Interface{}, err
				}
				iface.Requests = append(iface.Requests, m)
			case "event":
				m, err := d.parseMethod("event")
				if err != nil {
					return Interface{}, err
				}
				iface.Events = append(iface.Events, m)
			case "enum":
				e, err := d.parseEnum()
				if err != nil {
					return Interface{}, err
				}
				iface.Enums = append(iface.Enums, e)
			default:
				return Interface{}, d.errf(UnexpectedElement, "unexpected element <%s> inside <interface>", d.cur.Name)
			}
		default:
			return Interface{}, d.errf(UnexpectedToken, "unexpected token inside <interface>")
		}
	}
	if err := d.next(); err != nil {
		return Interface{}, err
	}
	return iface, nil
}

func (d *Decoder) parseMethod(tag string) (Method, error) {
	ot, err := d.parseOpenTag(tag)
	if err != nil {
		return Method{}, err
	}
	name, ok := ot.attrs["name"]
	if !ok {
		return Method{}, d.errf(NoName, "<%s> missing required name attribute", tag)
	}
	m := Method{Name: name}
	if typ, ok := ot.attrs["type"]; ok {
		if typ != "destructor" {
			return Method{}, d.errf(InvalidAttribute, "<%s name=%q> has invalid type %q", tag, name, typ)
		}
		m.IsDestructor = true
	}
	if sinceStr, ok := ot.attrs["since"]; ok {
		v, err := parseUint(sinceStr)
		if err != nil {
			return Method{}, d.errf(InvalidAttribute, "<%s name=%q> has invalid since %q", tag, name, sinceStr)
		}
		m.Since = v
	}
	if depStr, ok := ot.attrs["deprecated-since"]; ok {
		v, err := parseUint(depStr)
		if err != nil {
			return Method{}, d.errf(InvalidAttribute, "<%s name=%q> has invalid deprecated-since %q", tag, name, depStr)
		}
		m.DeprecatedSince = v
	}
	if ot.self {
		if err := d.next(); err != nil {
			return Method{}, err
		}
		return m, nil
	}

	sawNewId := false
	for d.cur.Kind != xml.EndTag {
		switch d.cur.Kind {
		case xml.Text:
			if err := d.next(); err != nil {
				return Method{}, err
			}
		case xml.StartTag, xml.EmptyTag:
			switch d.cur.Name {
			case "description":
				txt, err := d.parseDescription()
				if err != nil {
					return Method{}, err
				}
				m.Description = txt
			case "arg":
				a, err := d.parseArg()
				if err != nil {
					return Method{}, err
				}
				if a.Type == ArgNewId {
					if sawNewId {
						return Method{}, d.errf(TooManyX, "<%s name=%q> has more than one new_id argument", tag, name)
					}
					sawNewId = true
				}
				m.Args = append(m.Args, a)
			default:
				return Method{}, d.errf(UnexpectedElement, "unexpected element <%s> inside <%s>", d.cur.Name, tag)
			}
		default:
			return Method{}, d.errf(UnexpectedToken, "unexpected token inside <%s>", tag)
		}
	}
	if err := d.next(); err != nil {
		return Method{}, err
	}
	return m, nil
}

var baseArgTypes = map[string]ArgType{
	"int":    ArgInt,
	"uint":   ArgUint,
	"fixed":  ArgFixed,
	"array":  ArgArray,
	"fd":     ArgFd,
	"string": ArgString,
	"object": ArgObject,
	"new_id": ArgNewId,
}

func (d *Decoder) parseArg() (Arg, error) {
	ot, err := d.parseOpenTag("arg")
	if err != nil {
		return Arg{}, err
	}
	name, ok := ot.attrs["name"]
	if !ok {
		return Arg{}, d.errf(NoName, "<arg> missing required name attribute")
	}
	typeStr, ok := ot.attrs["type"]
	if !ok {
		return Arg{}, d.errf(InvalidAttribute, "<arg name=%q> missing required type attribute", name)
	}
	baseType, ok := baseArgTypes[typeStr]
	if !ok {
		return Arg{}, d.errf(InvalidAttribute, "<arg name=%q> has unknown type %q", name, typeStr)
	}
	a := Arg{Name: name, Type: baseType, Summary: ot.attrs["summary"]}

	if enumName, ok := ot.attrs["enum"]; ok {
		if baseType != ArgInt && baseType != ArgUint {
			return Arg{}, d.errf(EnumInvalid, "<arg name=%q> enum attribute requires base type int or uint, got %s", name, typeStr)
		}
		a.Type = ArgEnum
		a.EnumName = enumName
		a.EnumSigned = baseType == ArgInt
	}

	if ifaceName, ok := ot.attrs["interface"]; ok {
		if baseType != ArgObject && baseType != ArgNewId {
			return Arg{}, d.errf(InterfaceInvalid, "<arg name=%q> interface attribute only allowed on object/new_id, got %s", name, typeStr)
		}
		a.Interface = ifaceName
	}

	if allowNullStr, ok := ot.attrs["allow-null"]; ok {
		allowNull := allowNullStr == "true"
		if baseType != ArgString && baseType != ArgObject {
			return Arg{}, d.errf(AllowNullInvalid, "<arg name=%q> allow-null only valid on string/object, got %s", name, typeStr)
		}
		a.AllowNull = allowNull
	}

	if ot.self {
		if err := d.next(); err != nil {
			return Arg{}, err
		}
		return a, nil
	}
	for d.cur.Kind != xml.EndTag {
		switch d.cur.Kind {
		case xml.Text:
			if err := d.next(); err != nil {
				return Arg{}, err
			}
		case xml.StartTag, xml.EmptyTag:
			if d.cur.Name != "description" {
				return Arg{}, d.errf(UnexpectedElement, "unexpected element <%s> inside <arg>", d.cur.Name)
			}
			txt, err := d.parseDescription()
			if err != nil {
				return Arg{}, err
			}
			a.Description = txt
		default:
			return Arg{}, d.errf(UnexpectedToken, "unexpected token inside <arg>")
		}
	}
	if err := d.next(); err != nil {
		return Arg{}, err
	}
	return a, nil
}

func (d *Decoder) parseEnum() (Enum, error) {
	ot, err := d.parseOpenTag("enum")
	if err != nil {
		return Enum{}, err
	}
	name, ok := ot.attrs["name"]
	if !ok {
		return Enum{}, d.errf(NoName, "<enum> missing required name attribute")
	}
	e := Enum{Name: name}
	if sinceStr, ok := ot.attrs["since"]; ok {
		v, err := parseUint(sinceStr)
		if err != nil {
			return Enum{}, d.errf(InvalidAttribute, "<enum name=%q> has invalid since %q", name, sinceStr)
		}
		e.Since = v
	}
	if bfStr, ok := ot.attrs["bitfield"]; ok {
		e.Bitfield = bfStr == "true"
	}
	if ot.self {
		if err := d.next(); err != nil {
			return Enum{}, err
		}
		return e, nil
	}
	for d.cur.Kind != xml.EndTag {
		switch d.cur.Kind {
		case xml.Text:
			if err := d.next(); err != nil {
				return Enum{}, err
			}
		case xml.StartTag, xml.EmptyTag:
			switch d.cur.Name {
			case "description":
				txt, err := d.parseDescription()
				if err != nil {
					return Enum{}, err
				}
				e.Description = txt
			case "entry":
				ent, err := d.parseEntry()
				if err != nil {
					return Enum{}, err
				}
				e.Entries = append(e.Entries, ent)
			default:
				return Enum{}, d.errf(UnexpectedElement, "unexpected element <%s> inside <enum>", d.cur.Name)
			}
		default:
			return Enum{}, d.errf(UnexpectedToken, "unexpected token inside <enum>")
		}
	}
	if err := d.next(); err != nil {
		return Enum{}, err
	}
	return e, nil
}

func (d *Decoder) parseEntry() (Entry, error) {
	ot, err := d.parseOpenTag("entry")
	if err != nil {
		return Entry{}, err
	}
	name, ok := ot.attrs["name"]
	if !ok {
		return Entry{}, d.errf(NoName, "<entry> missing required name attribute")
	}
	valueStr, ok := ot.attrs["value"]
	if !ok {
		return Entry{}, d.errf(InvalidAttribute, "<entry name=%q> missing required value attribute", name)
	}
	value, err := parseUint(valueStr)
	if err != nil {
		return Entry{}, d.errf(InvalidAttribute, "<entry name=%q> has invalid value %q", name, valueStr)
	}
	ent := Entry{Name: name, Value: value, Summary: ot.attrs["summary"]}
	if sinceStr, ok := ot.attrs["since"]; ok {
		v, err := parseUint(sinceStr)
		if err != nil {
			return Entry{}, d.errf(InvalidAttribute, "<entry name=%q> has invalid since %q", name, sinceStr)
		}
		ent.Since = v
	}
	if depStr, ok := ot.attrs["deprecated-since"]; ok {
		v, err := parseUint(depStr)
		if err != nil {
			return Entry{}, d.errf(InvalidAttribute, "<entry name=%q> has invalid deprecated-since %q", name, depStr)
		}
		ent.DeprecatedSince = v
	}
	if ot.self {
		if err := d.next(); err != nil {
			return Entry{}, err
		}
		return ent, nil
	}
	for d.cur.Kind != xml.EndTag {
		switch d.cur.Kind {
		case xml.Text:
			if err := d.next(); err != nil {
				return Entry{}, err
			}
		case xml.StartTag, xml.EmptyTag:
			if d.cur.Name != "description" {
				return Entry{}, d.errf(UnexpectedElement, "unexpected element <%s> inside <entry>", d.cur.Name)
			}
			txt, err := d.parseDescription()
			if err != nil {
				return Entry{}, err
			}
			ent.Description = txt
		default:
			return Entry{}, d.errf(UnexpectedToken, "unexpected token inside <entry>")
		}
	}
	if err := d.next(); err != nil {
		return Entry{}, err
	}
	return ent, nil
}
