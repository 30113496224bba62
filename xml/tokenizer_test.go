package xml

import "testing"

func collect(t *testing.T, src string) []Token {
	t.Helper()
	tok := New([]byte(src))
	var toks []Token
	for {
		tkn, err := tok.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		toks = append(toks, tkn)
		if tkn.Kind == EndOfFile {
			return toks
		}
	}
}

func TestBasicElements(t *testing.T) {
	toks := collect(t, `<a b="1"><c/>text</a>`)
	// A self-closing <c/> yields a StartTag followed by an EmptyTag.
	want := []TokenKind{StartTag, Attribute, StartTag, EmptyTag, Text, EndTag, EndOfFile}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
	if toks[0].Name != "a" {
		t.Fatalf("start tag name = %q", toks[0].Name)
	}
	if toks[1].Name != "b" || toks[1].Value != "1" {
		t.Fatalf("attribute = %+v", toks[1])
	}
	if toks[2].Name != "c" {
		t.Fatalf("start tag name = %q", toks[2].Name)
	}
	if toks[3].Name != "c" {
		t.Fatalf("empty tag name = %q", toks[3].Name)
	}
	if toks[4].Value != "text" {
		t.Fatalf("text = %q", toks[4].Value)
	}
	if toks[5].Name != "a" {
		t.Fatalf("end tag name = %q", toks[5].Name)
	}
}

func TestSkipsCommentsAndProcInst(t *testing.T) {
	toks := collect(t, `<?xml version="1.0"?><!-- comment --><a/>`)
	want := []TokenKind{StartTag, EmptyTag, EndOfFile}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
}

func TestWaylandProtocolFragment(t *testing.T) {
	src := `<protocol name="wl_demo">
  <interface name="wl_surface" version="6">
    <request name="attach">
      <arg name="buffer" type="object" interface="wl_buffer" allow-null="true"/>
      <arg name="x" type="int" summary="surface-local x coordinate"/>
    </request>
  </interface>
</protocol>`
	tok := New([]byte(src))
	var names []string
	for {
		tkn, err := tok.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if tkn.Kind == EndOfFile {
			break
		}
		if tkn.Kind == StartTag || tkn.Kind == EmptyTag {
			names = append(names, tkn.Name)
		}
	}
	// Each self-closing <arg/> contributes its name twice: once as a
	// StartTag and once as the EmptyTag that closes it.
	want := []string{"protocol", "interface", "request", "arg", "arg", "arg", "arg"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("element %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestUnterminatedCommentIsError(t *testing.T) {
	tok := New([]byte(`<!-- oops`))
	_, err := tok.Next()
	if err == nil {
		t.Fatal("expected error")
	}
	xerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if xerr.Kind != OpenComment {
		t.Fatalf("kind = %v, want OpenComment", xerr.Kind)
	}
}

func TestLineColumnTracking(t *testing.T) {
	src := "<a>\n<b/>\n</a>"
	tok := New([]byte(src))
	tkn, _ := tok.Next() // <a
	if tkn.Line != 1 {
		t.Fatalf("line = %d, want 1", tkn.Line)
	}
	tok.Next() // text "\n"
	tkn, _ = tok.Next() // <b/>
	if tkn.Line != 2 {
		t.Fatalf("line = %d, want 2", tkn.Line)
	}
}

func TestDeterministicAcrossRuns(t *testing.T) {
	src := `<protocol name="x"><interface name="y" version="1"><enum name="z"><entry name="a" value="1"/></enum></interface></protocol>`
	first := collect(t, src)
	second := collect(t, src)
	if len(first) != len(second) {
		t.Fatalf("nondeterministic token count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("token %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}
