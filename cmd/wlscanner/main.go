// Command wlscanner reads a Wayland protocol XML description and emits the
// Go source of its typed per-interface bindings, per the generator CLI
// described in the module's design notes: <in.xml> <out_file>
// <types_namespace> plus repeatable -I/-R directives.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bnema/go-wlwire/emit"
	"github.com/bnema/go-wlwire/internal/genlog"
	"github.com/bnema/go-wlwire/normalize"
	"github.com/bnema/go-wlwire/scanner"
	"github.com/bnema/go-wlwire/xml"
)

var (
	importDirectives  []string
	replaceDirectives []string
	configPath        string
	verbose           bool
)

var rootCmd = &cobra.Command{
	Use:   "wlscanner <in.xml> <out_file> <types_namespace>",
	Short: "Generate typed Go bindings from a Wayland protocol XML description",
	Long: `wlscanner reads a Wayland protocol XML file and writes the Go source of
its per-interface descriptors: structs, opcode tables, enum constants,
version-gated request methods, and event decoders, bound to this module's
wire/conn packages.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.Flags().StringArrayVarP(&importDirectives, "I", "I", nil,
		"import directive name:path (repeatable; @This() denotes self-reference)")
	rootCmd.Flags().StringArrayVarP(&replaceDirectives, "R", "R", nil,
		"replace rule prefix:name (repeatable)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "YAML batch-generation config")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level generation trace")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// batchEntry is one file to generate, as declared in a -config YAML file.
type batchEntry struct {
	In        string   `yaml:"in"`
	Out       string   `yaml:"out"`
	Namespace string   `yaml:"namespace"`
	Imports   []string `yaml:"imports"`
	Replaces  []string `yaml:"replaces"`
}

type batchConfig struct {
	Files []batchEntry `yaml:"files"`
}

func runGenerate(cmd *cobra.Command, args []string) error {
	genlog.SetVerbose(verbose)
	runID := uuid.NewString()
	log := genlog.WithRun(runID)

	if configPath != "" {
		return runBatch(log, configPath)
	}

	if len(args) != 3 {
		return fmt.Errorf("usage: wlscanner <in.xml> <out_file> <types_namespace>")
	}
	table, extraImports, err := parseDirectives(importDirectives, replaceDirectives)
	if err != nil {
		return err
	}
	return generateOne(log, args[0], args[1], args[2], table, extraImports)
}

func runBatch(log zerolog.Logger, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg batchConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	if len(cfg.Files) == 0 {
		return fmt.Errorf("config %s declares no files", path)
	}

	var failed int
	for _, entry := range cfg.Files {
		table, extraImports, err := parseDirectives(entry.Imports, entry.Replaces)
		if err != nil {
			log.Error().Str("in", entry.In).Err(err).Msg("invalid directive")
			failed++
			continue
		}
		log.Info().Str("in", entry.In).Str("out", entry.Out).Msg("generating")
		if err := generateOne(log, entry.In, entry.Out, entry.Namespace, table, extraImports); err != nil {
			log.Error().Str("in", entry.In).Err(err).Msg("generation failed")
			failed++
			continue
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to generate", failed, len(cfg.Files))
	}
	return nil
}

func parseDirectives(imports, replaces []string) (normalize.Table, []string, error) {
	table := normalize.Table{}
	importPaths := map[string][]string{}
	var order []string
	for _, d := range imports {
		name, path, ok := strings.Cut(d, ":")
		if !ok {
			return table, nil, fmt.Errorf("invalid -I directive %q, expected name:path", d)
		}
		if _, seen := importPaths[name]; !seen {
			order = append(order, name)
		}
		importPaths[name] = append(importPaths[name], path)
	}
	for _, d := range replaces {
		prefix, name, ok := strings.Cut(d, ":")
		if !ok {
			return table, nil, fmt.Errorf("invalid -R directive %q, expected prefix:name", d)
		}
		table.Rules = append(table.Rules, normalize.Rule{Prefix: prefix, Module: name})
	}
	var extraImports []string
	for _, name := range order {
		if name == normalize.SelfModule {
			continue
		}
		table.Imports = append(table.Imports, normalize.Import{Name: name, Paths: importPaths[name]})
		extraImports = append(extraImports, importPaths[name]...)
	}
	return table, extraImports, nil
}

func generateOne(log zerolog.Logger, inPath, outPath, namespace string, table normalize.Table, extraImports []string) error {
	src, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inPath, err)
	}

	proto, err := scanner.NewDecoder(src).Decode()
	if err != nil {
		renderDiagnostic(inPath, src, err)
		return fmt.Errorf("generation failed")
	}
	log.Debug().Str("protocol", proto.Name).Int("interfaces", len(proto.Interfaces)).Msg("decoded")

	out, err := emit.Generate(proto, emit.Options{PackageName: namespace, Table: table, ExtraImports: extraImports})
	if err != nil {
		return fmt.Errorf("emit: %w", err)
	}

	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}

// renderDiagnostic prints a one-line error with the offending source
// line highlighted, per the generator's line/column diagnostic contract.
func renderDiagnostic(path string, src []byte, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
	line, col, ok := extractPosition(err)
	if !ok {
		return
	}
	lines := strings.Split(string(src), "\n")
	if line < 1 || line > len(lines) {
		return
	}
	fmt.Fprintf(os.Stderr, "  %s\n", lines[line-1])
	if col >= 1 {
		fmt.Fprintf(os.Stderr, "  %s^\n", strings.Repeat(" ", col-1))
	}
}

func extractPosition(err error) (line, col int, ok bool) {
	switch e := err.(type) {
	case *xml.Error:
		return e.Line, e.Col, true
	case *scanner.SchemaError:
		return e.Line, e.Col, true
	default:
		return 0, 0, false
	}
}
