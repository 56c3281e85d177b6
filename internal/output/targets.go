package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"mettagraph/internal/engine/graph"
)

// Targets are the optional render destinations; empty paths are skipped.
type Targets struct {
	DOT     string
	Mermaid string
	TSV     string
	JSON    string
}

// WriteAll renders every configured format for one result. Directories are
// created as needed; the first failure aborts.
func WriteAll(targets Targets, result *graph.AnalysisResult) error {
	if targets.DOT != "" {
		content, err := NewDOTGenerator(result).Generate()
		if err != nil {
			return fmt.Errorf("generate dot: %w", err)
		}
		if err := writeFile(targets.DOT, content); err != nil {
			return err
		}
	}

	if targets.Mermaid != "" {
		content, err := NewMermaidGenerator(result).Generate()
		if err != nil {
			return fmt.Errorf("generate mermaid: %w", err)
		}
		if err := writeFile(targets.Mermaid, content); err != nil {
			return err
		}
	}

	if targets.TSV != "" {
		content, err := NewTSVGenerator(result).Generate()
		if err != nil {
			return fmt.Errorf("generate tsv: %w", err)
		}
		if err := writeFile(targets.TSV, content); err != nil {
			return err
		}
	}

	if targets.JSON != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		if err := writeFile(targets.JSON, string(data)+"\n"); err != nil {
			return err
		}
	}

	return nil
}

func writeFile(path, content string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}
