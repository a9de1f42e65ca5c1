package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/x86ref/x86ref/pkg/refmodel"
)

func TestLoadParsesManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x86ref.yaml")
	body := "mode: E\nenabled_extensions: [MMX, SSE1]\nreference_path: ./x86reference.xml\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ReferencePath != "./x86reference.xml" {
		t.Errorf("ReferencePath = %q, want ./x86reference.xml", cfg.ReferencePath)
	}
	mode, err := cfg.ParsedMode()
	if err != nil || mode != refmodel.ModeE {
		t.Errorf("ParsedMode() = %v, %v, want ModeE, nil", mode, err)
	}
	exts, err := cfg.ExtensionSet()
	if err != nil {
		t.Fatalf("ExtensionSet: %v", err)
	}
	if !exts.Contains(refmodel.ExtMMX) || !exts.Contains(refmodel.ExtSSE1) {
		t.Errorf("ExtensionSet() = %v, want MMX and SSE1", exts)
	}
}

func TestDefaultMode(t *testing.T) {
	cfg := Default()
	mode, err := cfg.ParsedMode()
	if err != nil || mode != refmodel.ModeR {
		t.Errorf("Default().ParsedMode() = %v, %v, want ModeR, nil", mode, err)
	}
}
