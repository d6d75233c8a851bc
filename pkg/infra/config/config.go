// 指示: miu200521358
// Package config は命名テンプレート設定のTOML読み書きを提供する。
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/miu200521358/mu_spaceswitch/pkg/usecase/sinteractor"
)

// Config は設定ファイル全体を表す。
type Config struct {
	Naming NamingConfig `toml:"naming"`
}

// NamingConfig は一時ボーン・複製オブジェクトの命名設定を表す。
type NamingConfig struct {
	ObjectName      string `toml:"object_name"`
	ArmatureName    string `toml:"armature_name"`
	EmptyName       string `toml:"empty_name"`
	CopyName        string `toml:"copy_name"`
	ParentName      string `toml:"parent_name"`
	SpaceName       string `toml:"space_name"`
	LocalObjectName string `toml:"local_object_name"`
}

const defaultConfigTOML = `# mu_spaceswitch 命名設定
# ボーン系テンプレートの置換キー: {bone_name} {armature_name} {object_name}
# 複製オブジェクトの置換キー: {object} {armature}

[naming]
object_name = "SpaceSwitching"
armature_name = "SpaceSwitchingArmature"
empty_name = "Empty"
copy_name = "{bone_name}_Copy"
parent_name = "{bone_name}_Parent"
space_name = "{bone_name}_Space"
local_object_name = "{object}_Local"
`

// Default は既定の設定を返す。
func Default() Config {
	templates := sinteractor.DefaultNamingTemplates()
	return Config{Naming: NamingConfig{
		ObjectName:      templates.ObjectName,
		ArmatureName:    templates.ArmatureName,
		EmptyName:       templates.EmptyName,
		CopyName:        templates.CopyName,
		ParentName:      templates.ParentName,
		SpaceName:       templates.SpaceName,
		LocalObjectName: templates.LocalObjectName,
	}}
}

// Load は設定ファイルを読み込む。ファイルが無ければ既定値で作成する。
func Load(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
			return Default(), fmt.Errorf("設定ディレクトリの作成に失敗しました: %w", mkErr)
		}
		if wErr := os.WriteFile(path, []byte(defaultConfigTOML), 0o644); wErr != nil {
			return Default(), fmt.Errorf("既定設定の書き込みに失敗しました: %w", wErr)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("設定ファイルの読み取りに失敗しました: %w", err)
	}
	return Parse(data)
}

// Parse はTOMLバイト列を設定へ変換する。空欄の項目は既定値で埋める。
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("設定ファイルの解析に失敗しました: %w", err)
	}
	return normalize(cfg), nil
}

// Save は設定をTOMLで書き出す。
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("設定ディレクトリの作成に失敗しました: %w", err)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(normalize(cfg)); err != nil {
		return fmt.Errorf("設定のエンコードに失敗しました: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("設定ファイルの書き込みに失敗しました: %w", err)
	}
	return nil
}

// Templates は設定を命名テンプレートへ変換する。
func (c Config) Templates() sinteractor.NamingTemplates {
	return sinteractor.NamingTemplates{
		ObjectName:      c.Naming.ObjectName,
		ArmatureName:    c.Naming.ArmatureName,
		EmptyName:       c.Naming.EmptyName,
		CopyName:        c.Naming.CopyName,
		ParentName:      c.Naming.ParentName,
		SpaceName:       c.Naming.SpaceName,
		LocalObjectName: c.Naming.LocalObjectName,
	}
}

// normalize は未指定の項目を既定値で埋める。
func normalize(cfg Config) Config {
	out := Default()
	fill := func(dst *string, value string) {
		if strings.TrimSpace(value) != "" {
			*dst = value
		}
	}
	fill(&out.Naming.ObjectName, cfg.Naming.ObjectName)
	fill(&out.Naming.ArmatureName, cfg.Naming.ArmatureName)
	fill(&out.Naming.EmptyName, cfg.Naming.EmptyName)
	fill(&out.Naming.CopyName, cfg.Naming.CopyName)
	fill(&out.Naming.ParentName, cfg.Naming.ParentName)
	fill(&out.Naming.SpaceName, cfg.Naming.SpaceName)
	fill(&out.Naming.LocalObjectName, cfg.Naming.LocalObjectName)
	return out
}
