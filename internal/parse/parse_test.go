package parse

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestFindDefinitions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "requirements.yaml"), "a: '1.0'\n")
	writeFile(t, filepath.Join(dir, "tools.depend.yaml"), "b: '1.0'\n")
	writeFile(t, filepath.Join(dir, "notes.yaml"), "c: '1.0'\n")
	writeFile(t, filepath.Join(dir, "nested", "requirements.yml"), "d: '1.0'\n")

	t.Run("flat", func(t *testing.T) {
		found, err := FindDefinitions(dir, false)
		if err != nil {
			t.Fatalf("FindDefinitions: %v", err)
		}
		if len(found) != 2 {
			t.Fatalf("expected 2 files, got %d: %v", len(found), found)
		}
	})

	t.Run("recurse", func(t *testing.T) {
		found, err := FindDefinitions(dir, true)
		if err != nil {
			t.Fatalf("FindDefinitions: %v", err)
		}
		if len(found) != 3 {
			t.Fatalf("expected 3 files, got %d: %v", len(found), found)
		}
	})

	t.Run("explicit file bypasses name matching", func(t *testing.T) {
		explicit := filepath.Join(dir, "notes.yaml")
		found, err := FindDefinitions(explicit, false)
		if err != nil {
			t.Fatalf("FindDefinitions: %v", err)
		}
		if len(found) != 1 || found[0] != explicit {
			t.Fatalf("expected [%s], got %v", explicit, found)
		}
	})

	t.Run("empty dir is not an error", func(t *testing.T) {
		found, err := FindDefinitions(t.TempDir(), true)
		if err != nil {
			t.Fatalf("FindDefinitions: %v", err)
		}
		if len(found) != 0 {
			t.Fatalf("expected no files, got %v", found)
		}
	})

	t.Run("missing path is an error", func(t *testing.T) {
		if _, err := FindDefinitions(filepath.Join(dir, "nope"), false); err == nil {
			t.Fatal("expected error for missing path")
		}
	})
}

func TestParseFilesFullForm(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "requirements.yaml"), `
mytool:
  name: github.com/acme/mytool
  type: gomodule
  version: v1.2.3
  target: ./bin
  tags: [dev, ci]
  prescripts:
    - echo before
  postscripts:
    - echo after
  parameters:
    test_result: true
`)

	deps, err := ParseFiles([]string{path}, nil)
	if err != nil {
		t.Fatalf("ParseFiles: %v", err)
	}
	if len(deps) != 1 {
		t.Fatalf("expected 1 dependency, got %d", len(deps))
	}

	d := deps[0]
	if d.Key != "mytool" {
		t.Errorf("Key = %q", d.Key)
	}
	if got := d.DisplayName(); got != "github.com/acme/mytool" {
		t.Errorf("DisplayName = %q", got)
	}
	if d.Type != "gomodule" {
		t.Errorf("Type = %q", d.Type)
	}
	if d.Version != "v1.2.3" {
		t.Errorf("Version = %q", d.Version)
	}
	if d.Target != "./bin" {
		t.Errorf("Target = %q", d.Target)
	}
	if len(d.PreScripts) != 1 || d.PreScripts[0] != "echo before" {
		t.Errorf("PreScripts = %v", d.PreScripts)
	}
	if len(d.PostScripts) != 1 || d.PostScripts[0] != "echo after" {
		t.Errorf("PostScripts = %v", d.PostScripts)
	}
	if d.DefinitionFile != path {
		t.Errorf("DefinitionFile = %q", d.DefinitionFile)
	}
	if v, ok := d.Parameters["test_result"].(bool); !ok || !v {
		t.Errorf("Parameters[test_result] = %v", d.Parameters["test_result"])
	}
}

func TestParseFilesShorthand(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "requirements.yaml"), `
golang.org/x/tools/cmd/stringer: "v0.28.0"
`)

	deps, err := ParseFiles([]string{path}, nil)
	if err != nil {
		t.Fatalf("ParseFiles: %v", err)
	}
	if len(deps) != 1 {
		t.Fatalf("expected 1 dependency, got %d", len(deps))
	}
	d := deps[0]
	if d.Version != "v0.28.0" {
		t.Errorf("Version = %q", d.Version)
	}
	if d.Type != DefaultType {
		t.Errorf("Type = %q, want default %q", d.Type, DefaultType)
	}
	if got := d.DisplayName(); got != "golang.org/x/tools/cmd/stringer" {
		t.Errorf("DisplayName = %q", got)
	}
}

func TestParseFilesFileOptions(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "requirements.yaml"), `
psdependoptions:
  type: command
  target: ./deps
  tags: [prod]

first:
  parameters:
    install: echo hi

second:
  type: noop
  target: ./other
  tags: [dev]
`)

	deps, err := ParseFiles([]string{path}, nil)
	if err != nil {
		t.Fatalf("ParseFiles: %v", err)
	}
	if len(deps) != 2 {
		t.Fatalf("expected 2 dependencies, got %d", len(deps))
	}

	first, second := deps[0], deps[1]
	if first.Type != "command" || first.Target != "./deps" {
		t.Errorf("file options not applied: type=%q target=%q", first.Type, first.Target)
	}
	if len(first.Tags) != 1 || first.Tags[0] != "prod" {
		t.Errorf("file option tags not applied: %v", first.Tags)
	}
	// Explicit values win over file options.
	if second.Type != "noop" || second.Target != "./other" {
		t.Errorf("explicit values overridden: type=%q target=%q", second.Type, second.Target)
	}
	if len(second.Tags) != 1 || second.Tags[0] != "dev" {
		t.Errorf("explicit tags overridden: %v", second.Tags)
	}
}

func TestParseFilesFileOptionDependsOn(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "requirements.yaml"), `
psdependoptions:
  dependson: [base]

tool: {}
base: {}
`)

	deps, err := ParseFiles([]string{path}, nil)
	if err != nil {
		t.Fatalf("ParseFiles: %v", err)
	}
	if len(deps) != 2 {
		t.Fatalf("expected 2 dependencies, got %d", len(deps))
	}
	// base must come first: every other dependency in the file inherits the
	// DependsOn default, and base itself must not depend on itself.
	if deps[0].Key != "base" || deps[1].Key != "tool" {
		t.Errorf("order = [%s, %s], want [base, tool]", deps[0].Key, deps[1].Key)
	}
	if len(deps[0].DependsOn) != 0 {
		t.Errorf("base.DependsOn = %v, want none", deps[0].DependsOn)
	}
}

func TestParseFilesTagFilter(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "requirements.yaml"), `
a:
  tags: [prod, linux]
b:
  tags: [prod]
c: {}
`)

	tests := []struct {
		name string
		tags []string
		want []string
	}{
		{"no filter keeps all", nil, []string{"a", "b", "c"}},
		{"single tag", []string{"prod"}, []string{"a", "b"}},
		{"must match every tag", []string{"prod", "linux"}, []string{"a"}},
		{"case-insensitive", []string{"PROD"}, []string{"a", "b"}},
		{"no match", []string{"windows"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps, err := ParseFiles([]string{path}, tt.tags)
			if err != nil {
				t.Fatalf("ParseFiles: %v", err)
			}
			var got []string
			for _, d := range deps {
				got = append(got, d.Key)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestParseFilesInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "requirements.yaml"), "a: [unclosed\n")
	if _, err := ParseFiles([]string{path}, nil); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseFilesTopLevelMustBeMapping(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "requirements.yaml"), "- a\n- b\n")
	if _, err := ParseFiles([]string{path}, nil); err == nil {
		t.Fatal("expected error for sequence at top level")
	}
}
