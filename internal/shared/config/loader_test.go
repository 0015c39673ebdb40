package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

type fixture struct {
	Name  string `yaml:"name" mapstructure:"name"`
	Port  int    `yaml:"port" mapstructure:"port"`
	Inner struct {
		Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	} `yaml:"inner" mapstructure:"inner"`
}

func writeFixture(t *testing.T, dir string, f fixture) string {
	t.Helper()
	raw, err := yaml.Marshal(f)
	if err != nil {
		t.Fatalf("yaml marshal: %v", err)
	}
	p := filepath.Join(dir, "conf.yml")
	if err := os.WriteFile(p, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoad_按mapstructure标签解析(t *testing.T) {
	var in fixture
	in.Name = "colony"
	in.Port = 8088
	in.Inner.Enabled = true
	p := writeFixture(t, t.TempDir(), in)

	var out fixture
	l, err := Load(p, &out, false, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out != in {
		t.Fatalf("got=%+v want=%+v", out, in)
	}
	if l.GetString("name") != "colony" || l.Path() != p {
		t.Fatalf("loader 访问器不对")
	}
}

func TestLoad_文件不存在返回错误(t *testing.T) {
	var out fixture
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml"), &out, false, nil); err == nil {
		t.Fatalf("期望报错")
	}
}
