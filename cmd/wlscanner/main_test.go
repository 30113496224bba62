package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bnema/go-wlwire/normalize"
)

func genlogForTest() zerolog.Logger {
	return zerolog.New(io.Discard)
}

const fixtureProtocol = `<protocol name="wl_demo">
  <interface name="wl_compositor" version="5">
    <request name="create_surface">
      <arg name="id" type="new_id" interface="wl_surface"/>
    </request>
  </interface>
  <interface name="wl_surface" version="6">
    <request name="destroy" type="destructor"/>
  </interface>
</protocol>`

func TestParseDirectivesImportAndReplace(t *testing.T) {
	table, extra, err := parseDirectives(
		[]string{"xdg:github.com/example/xdgshell", "xdg:github.com/example/xdgshell/v2"},
		[]string{"xdg_:xdg"},
	)
	if err != nil {
		t.Fatalf("parseDirectives: %v", err)
	}
	if len(table.Imports) != 1 || table.Imports[0].Name != "xdg" || len(table.Imports[0].Paths) != 2 {
		t.Fatalf("unexpected imports: %+v", table.Imports)
	}
	if len(extra) != 2 {
		t.Fatalf("expected 2 extra import paths, got %d", len(extra))
	}
	if len(table.Rules) != 1 || table.Rules[0].Prefix != "xdg_" || table.Rules[0].Module != "xdg" {
		t.Fatalf("unexpected rules: %+v", table.Rules)
	}
}

func TestParseDirectivesSelfReferenceSkipsImport(t *testing.T) {
	table, extra, err := parseDirectives([]string{normalize.SelfModule + ":unused"}, nil)
	if err != nil {
		t.Fatalf("parseDirectives: %v", err)
	}
	if len(table.Imports) != 0 || len(extra) != 0 {
		t.Fatalf("self-reference directive should not add an import: %+v / %v", table.Imports, extra)
	}
}

func TestParseDirectivesRejectsMalformed(t *testing.T) {
	if _, _, err := parseDirectives([]string{"noColonHere"}, nil); err == nil {
		t.Fatal("expected error for malformed -I directive")
	}
	if _, _, err := parseDirectives(nil, []string{"noColonHere"}); err == nil {
		t.Fatal("expected error for malformed -R directive")
	}
}

func TestGenerateOneWritesOutputFile(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "demo.xml")
	outPath := filepath.Join(dir, "demo.go")
	if err := os.WriteFile(inPath, []byte(fixtureProtocol), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	log := genlogForTest()
	if err := generateOne(log, inPath, outPath, "demo", normalize.Table{}, nil); err != nil {
		t.Fatalf("generateOne: %v", err)
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read generated file: %v", err)
	}
	if !strings.Contains(string(out), "package demo") {
		t.Fatalf("generated file missing package clause:\n%s", out)
	}
	if !strings.Contains(string(out), "type WlCompositor struct {") {
		t.Fatalf("generated file missing WlCompositor:\n%s", out)
	}
}

func TestGenerateOneReportsSchemaError(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "bad.xml")
	outPath := filepath.Join(dir, "bad.go")
	if err := os.WriteFile(inPath, []byte(`<protocol><interface name="x" version="1"/></protocol>`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	log := genlogForTest()
	if err := generateOne(log, inPath, outPath, "demo", normalize.Table{}, nil); err == nil {
		t.Fatal("expected error for protocol missing a name attribute")
	}
	if _, err := os.Stat(outPath); err == nil {
		t.Fatal("expected no output file to be written on schema error")
	}
}

func TestRunBatchGeneratesAllEntries(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "demo.xml")
	outPath := filepath.Join(dir, "demo.go")
	if err := os.WriteFile(inPath, []byte(fixtureProtocol), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	configYAML := "files:\n" +
		"  - in: " + inPath + "\n" +
		"    out: " + outPath + "\n" +
		"    namespace: demo\n"
	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := runBatch(genlogForTest(), configPath); err != nil {
		t.Fatalf("runBatch: %v", err)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Fatalf("expected batch to write %s: %v", outPath, err)
	}
}

func TestRunBatchRejectsEmptyConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(configPath, []byte("files: []\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := runBatch(genlogForTest(), configPath); err == nil {
		t.Fatal("expected error for config with no files")
	}
}
