// Command openapi-emend converts a Swagger 2.0 or OpenAPI 3.0/3.1 document
// into the canonical emended dialect, optionally downgrading the result back
// into one of the source grammars.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	yamlv3 "gopkg.in/yaml.v3"
	kyaml "sigs.k8s.io/yaml"

	"github.com/shlomiassaf/openapi"
)

func main() {
	var (
		downgrade string
		out       string
		format    string
	)
	flag.StringVar(&downgrade, "downgrade", "", "downgrade the emended result to this target: swagger2 or openapi30")
	flag.StringVar(&out, "out", "", "output file path (default: stdout)")
	flag.StringVar(&format, "format", "json", "output format: json or yaml")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: openapi-emend [flags] <file>")
		os.Exit(2)
	}
	path := args[0]

	logger.Info("reading document", "path", path)
	content, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read failed", "path", path, "error", err)
		os.Exit(1)
	}

	raw, err := unmarshalYAMLOrJSON(content)
	if err != nil {
		logger.Error("parse failed", "path", path, "error", err)
		os.Exit(1)
	}

	version, err := openapi.Sniff(raw)
	if err != nil {
		logger.Error("sniff failed", "error", err)
		os.Exit(1)
	}
	logger.Info("sniffed version", "version", version)

	doc, diagnostics, err := openapi.Convert(raw)
	if err != nil {
		logger.Error("convert failed", "error", err)
		os.Exit(1)
	}
	logDiagnostics(logger, "convert", diagnostics)

	var result map[string]any
	if downgrade != "" {
		target, ok := parseTargetVersion(downgrade)
		if !ok {
			logger.Error("unknown downgrade target", "target", downgrade)
			os.Exit(2)
		}
		logger.Info("downgrading", "target", downgrade)
		downgraded, diags, err := openapi.Downgrade(doc, target)
		if err != nil {
			logger.Error("downgrade failed", "error", err)
			os.Exit(1)
		}
		logDiagnostics(logger, "downgrade", diags)
		result = downgraded
	} else {
		result = openapi.Emit(doc)
	}

	encoded, err := encodeResult(result, format)
	if err != nil {
		logger.Error("encode failed", "error", err)
		os.Exit(1)
	}

	if out == "" {
		os.Stdout.Write(encoded)
		return
	}
	if err := os.WriteFile(out, encoded, 0o644); err != nil {
		logger.Error("write failed", "path", out, "error", err)
		os.Exit(1)
	}
	logger.Info("wrote output", "path", out)
}

// unmarshalYAMLOrJSON converts YAML input to JSON first, the same
// round-trip-safe technique the discovery server uses so that the core's
// map[string]any loaders never need to special-case YAML node types.
func unmarshalYAMLOrJSON(content []byte) (map[string]any, error) {
	jsonBytes, err := kyaml.YAMLToJSON(content)
	if err != nil {
		return nil, fmt.Errorf("converting input to JSON: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(jsonBytes, &doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return doc, nil
}

func parseTargetVersion(name string) (openapi.Version, bool) {
	switch name {
	case "swagger2":
		return openapi.Swagger2, true
	case "openapi30":
		return openapi.OpenAPI30, true
	default:
		return 0, false
	}
}

func logDiagnostics(logger *slog.Logger, stage string, diagnostics []openapi.Diagnostic) {
	for _, d := range diagnostics {
		logger.Warn(stage+" diagnostic", "kind", d.Kind, "path", d.Path, "message", d.Message)
	}
}

func encodeResult(result map[string]any, format string) ([]byte, error) {
	switch format {
	case "yaml":
		return yamlv3.Marshal(result)
	case "json", "":
		return json.MarshalIndent(result, "", "  ")
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
