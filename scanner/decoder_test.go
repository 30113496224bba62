package scanner

import "testing"

func decode(t *testing.T, src string) *Protocol {
	t.Helper()
	p, err := NewDecoder([]byte(src)).Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return p
}

func decodeErr(t *testing.T, src string) error {
	t.Helper()
	_, err := NewDecoder([]byte(src)).Decode()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	return err
}

const fragment = `<protocol name="wl_demo">
  <copyright>Copyright 2026 Example</copyright>
  <interface name="wl_surface" version="6">
    <description summary="a surface">the base surface abstraction</description>
    <request name="attach">
      <arg name="buffer" type="object" interface="wl_buffer" allow-null="true"/>
      <arg name="x" type="int" summary="surface-local x"/>
      <arg name="y" type="int" summary="surface-local y"/>
    </request>
    <request name="damage" since="2">
      <arg name="x" type="int"/>
      <arg name="y" type="int"/>
      <arg name="width" type="int"/>
      <arg name="height" type="int"/>
    </request>
    <request name="destroy" type="destructor"/>
    <event name="enter">
      <arg name="output" type="object" interface="wl_output"/>
    </event>
    <enum name="error">
      <entry name="invalid_scale" value="0" summary="buffer scale value is invalid"/>
      <entry name="invalid_transform" value="1"/>
    </enum>
  </interface>
  <interface name="wl_output" version="1">
    <request name="release" type="destructor"/>
  </interface>
</protocol>`

func TestDecodeProtocolFragment(t *testing.T) {
	p := decode(t, fragment)
	if p.Name != "wl_demo" {
		t.Fatalf("name = %q", p.Name)
	}
	if p.Copyright != "Copyright 2026 Example" {
		t.Fatalf("copyright = %q", p.Copyright)
	}
	if len(p.Interfaces) != 2 {
		t.Fatalf("expected 2 interfaces, got %d", len(p.Interfaces))
	}
	surface := p.Interfaces[0]
	if surface.Name != "wl_surface" || surface.Version != 6 {
		t.Fatalf("surface = %+v", surface)
	}
	if surface.Description != "the base surface abstraction" {
		t.Fatalf("description = %q", surface.Description)
	}
	if len(surface.Requests) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(surface.Requests))
	}
	attach := surface.Requests[0]
	if len(attach.Args) != 3 {
		t.Fatalf("attach args = %+v", attach.Args)
	}
	if attach.Args[0].Type != ArgObject || attach.Args[0].Interface != "wl_buffer" || !attach.Args[0].AllowNull {
		t.Fatalf("buffer arg = %+v", attach.Args[0])
	}
	damage := surface.Requests[1]
	if damage.Since != 2 {
		t.Fatalf("damage.Since = %d", damage.Since)
	}
	destroy := surface.Requests[2]
	if !destroy.IsDestructor {
		t.Fatal("expected destroy to be a destructor")
	}
	if len(surface.Events) != 1 || surface.Events[0].Args[0].Interface != "wl_output" {
		t.Fatalf("events = %+v", surface.Events)
	}
	if len(surface.Enums) != 1 || len(surface.Enums[0].Entries) != 2 {
		t.Fatalf("enums = %+v", surface.Enums)
	}
	if surface.Enums[0].Entries[0].Summary != "buffer scale value is invalid" {
		t.Fatalf("entry summary = %q", surface.Enums[0].Entries[0].Summary)
	}
}

func TestDecodeMissingProtocolName(t *testing.T) {
	err := decodeErr(t, `<protocol></protocol>`)
	se, ok := err.(*SchemaError)
	if !ok || se.Kind != NoName {
		t.Fatalf("expected NoName SchemaError, got %#v", err)
	}
}

func TestDecodeMissingInterfaceVersion(t *testing.T) {
	err := decodeErr(t, `<protocol name="x"><interface name="y"></interface></protocol>`)
	se, ok := err.(*SchemaError)
	if !ok || se.Kind != NoVersion {
		t.Fatalf("expected NoVersion SchemaError, got %#v", err)
	}
}

func TestDecodeTooManyNewIdArgs(t *testing.T) {
	src := `<protocol name="x"><interface name="y" version="1">
		<request name="bad">
			<arg name="a" type="new_id" interface="z"/>
			<arg name="b" type="new_id" interface="z"/>
		</request>
	</interface></protocol>`
	err := decodeErr(t, src)
	se, ok := err.(*SchemaError)
	if !ok || se.Kind != TooManyX {
		t.Fatalf("expected TooManyX SchemaError, got %#v", err)
	}
}

func TestDecodeEnumAttributeRequiresIntBase(t *testing.T) {
	src := `<protocol name="x"><interface name="y" version="1">
		<request name="r"><arg name="a" type="string" enum="y.e"/></request>
	</interface></protocol>`
	err := decodeErr(t, src)
	se, ok := err.(*SchemaError)
	if !ok || se.Kind != EnumInvalid {
		t.Fatalf("expected EnumInvalid SchemaError, got %#v", err)
	}
}

func TestDecodeInterfaceAttributeRequiresObjectOrNewId(t *testing.T) {
	src := `<protocol name="x"><interface name="y" version="1">
		<request name="r"><arg name="a" type="int" interface="y"/></request>
	</interface></protocol>`
	err := decodeErr(t, src)
	se, ok := err.(*SchemaError)
	if !ok || se.Kind != InterfaceInvalid {
		t.Fatalf("expected InterfaceInvalid SchemaError, got %#v", err)
	}
}

func TestDecodeAllowNullRequiresStringOrObject(t *testing.T) {
	src := `<protocol name="x"><interface name="y" version="1">
		<request name="r"><arg name="a" type="int" allow-null="true"/></request>
	</interface></protocol>`
	err := decodeErr(t, src)
	se, ok := err.(*SchemaError)
	if !ok || se.Kind != AllowNullInvalid {
		t.Fatalf("expected AllowNullInvalid SchemaError, got %#v", err)
	}
}

func TestDecodeDuplicateAttribute(t *testing.T) {
	err := decodeErr(t, `<protocol name="x" name="y"></protocol>`)
	se, ok := err.(*SchemaError)
	if !ok || se.Kind != TooManyX {
		t.Fatalf("expected TooManyX SchemaError, got %#v", err)
	}
}

func TestDecodeUnexpectedElement(t *testing.T) {
	err := decodeErr(t, `<protocol name="x"><bogus/></protocol>`)
	se, ok := err.(*SchemaError)
	if !ok || se.Kind != UnexpectedElement {
		t.Fatalf("expected UnexpectedElement SchemaError, got %#v", err)
	}
}

func TestDecodeEnumBitfield(t *testing.T) {
	src := `<protocol name="x"><interface name="y" version="1">
		<enum name="e" bitfield="true">
			<entry name="a" value="1"/>
		</enum>
	</interface></protocol>`
	p := decode(t, src)
	if !p.Interfaces[0].Enums[0].Bitfield {
		t.Fatal("expected bitfield enum")
	}
}

func TestDecodeDeterministic(t *testing.T) {
	first := decode(t, fragment)
	second := decode(t, fragment)
	if len(first.Interfaces) != len(second.Interfaces) {
		t.Fatal("nondeterministic interface count")
	}
	if first.Interfaces[0].Requests[0].Name != second.Interfaces[0].Requests[0].Name {
		t.Fatal("nondeterministic request ordering")
	}
}
