// 指示: miu200521358
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spaceswitch", "naming.toml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Naming.ObjectName != "SpaceSwitching" {
		t.Fatalf("default object name mismatch: %s", cfg.Naming.ObjectName)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("default file should be written: %v", err)
	}
	if !strings.Contains(string(data), `copy_name = "{bone_name}_Copy"`) {
		t.Fatalf("default file should carry the templates:\n%s", data)
	}
}

func TestParseFillsMissingFields(t *testing.T) {
	cfg, err := Parse([]byte("[naming]\ncopy_name = \"{bone_name}.dup\"\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cfg.Naming.CopyName != "{bone_name}.dup" {
		t.Fatalf("override should survive: %s", cfg.Naming.CopyName)
	}
	if cfg.Naming.SpaceName != "{bone_name}_Space" {
		t.Fatalf("missing fields should fall back to defaults: %s", cfg.Naming.SpaceName)
	}
}

func TestParseRejectsBrokenToml(t *testing.T) {
	if _, err := Parse([]byte("[naming\n")); err == nil {
		t.Fatalf("broken toml should fail")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "naming.toml")
	cfg := Default()
	cfg.Naming.CopyName = "{bone_name}@copy"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Naming.CopyName != "{bone_name}@copy" {
		t.Fatalf("round trip mismatch: %s", loaded.Naming.CopyName)
	}
}

func TestTemplatesConversion(t *testing.T) {
	cfg := Default()
	cfg.Naming.ParentName = "{bone_name}.anchor"
	templates := cfg.Templates()
	if got := templates.ExpandParent("Arm", "RigArmature", "Rig"); got != "Arm.anchor" {
		t.Fatalf("template conversion mismatch: %s", got)
	}
}
