// Command openapi-inspect is an interactive terminal viewer for an emended
// OpenAPI document: it accepts a Swagger 2.0, OpenAPI 3.0, or OpenAPI 3.1
// file (or stdin), emends it, and walks the result with a bubbletea TUI.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/yaml.v3"

	"github.com/shlomiassaf/openapi"
)

func main() {
	var content []byte
	var err error

	if len(os.Args) > 1 {
		content, err = os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
			os.Exit(1)
		}
	} else {
		content, err = io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading from stdin: %v\n", err)
			os.Exit(1)
		}
	}

	raw, err := decodeDocument(content)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing document: %v\n", err)
		os.Exit(1)
	}

	doc, diagnostics, err := openapi.Convert(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error emending document: %v\n", err)
		os.Exit(1)
	}

	for _, d := range diagnostics {
		fmt.Fprintf(os.Stderr, "warning: %s: %s\n", d.Path, d.Message)
	}

	m := NewModel(doc, diagnostics)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

// decodeDocument tries YAML first, falling back to JSON, mirroring the
// teacher's raw-content sniffing: a YAML decoder accepts JSON as a subset in
// the common case, but the explicit fallback keeps strict JSON documents
// with constructs the YAML decoder rejects working too.
func decodeDocument(content []byte) (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(content, &doc); err == nil && doc != nil {
		return doc, nil
	}
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
