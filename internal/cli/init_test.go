package cli

import (
    "io"
    "os"
    "path/filepath"
    "strings"
    "testing"

    "gopkg.in/yaml.v3"
)

func runInitCmd(t *testing.T, args ...string) error {
    t.Helper()
    root := NewRootCmd()
    root.SetOut(io.Discard)
    root.SetErr(io.Discard)
    root.SetArgs(append([]string{"init"}, args...))
    return root.Execute()
}

func TestInit_WritesSampleConfig(t *testing.T) {
    t.Parallel()
    path := filepath.Join(t.TempDir(), "nested", "swaggerc.yaml")

    if err := runInitCmd(t, "--out", path); err != nil {
        t.Fatalf("init execute: %v", err)
    }

    data, err := os.ReadFile(path)
    if err != nil {
        t.Fatalf("read config: %v", err)
    }
    s := string(data)
    if !strings.Contains(s, "swaggerc configuration") {
        t.Fatalf("unexpected config contents: %s", s)
    }
    for _, key := range []string{"url:", "username:", "password:", "timeout:", "verbose:"} {
        if !strings.Contains(s, "# "+key) {
            t.Fatalf("sample config does not document %q: %s", key, s)
        }
    }
    // Every option is commented out, so the file loads as an empty config.
    var raw map[string]any
    if err := yaml.Unmarshal(data, &raw); err != nil {
        t.Fatalf("sample config is not valid YAML: %v", err)
    }
    if len(raw) != 0 {
        t.Fatalf("sample config should set nothing, got %v", raw)
    }
    if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
        t.Fatalf("temp file left behind: %v", err)
    }
}

func TestInit_ExistingWithoutForce(t *testing.T) {
    t.Parallel()
    path := filepath.Join(t.TempDir(), "config.yaml")
    if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
        t.Fatalf("prewrite: %v", err)
    }

    err := runInitCmd(t, "--out", path)
    if err == nil {
        t.Fatalf("expected error for existing file without --force")
    }
    if _, ok := err.(usageError); !ok {
        t.Fatalf("expected usage error, got %T: %v", err, err)
    }
}

func TestInit_ForceOverwrites(t *testing.T) {
    t.Parallel()
    path := filepath.Join(t.TempDir(), "config.yaml")
    if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
        t.Fatalf("prewrite: %v", err)
    }

    if err := runInitCmd(t, "--out", path, "--force"); err != nil {
        t.Fatalf("init --force: %v", err)
    }
    data, err := os.ReadFile(path)
    if err != nil {
        t.Fatalf("read config: %v", err)
    }
    if !strings.HasPrefix(string(data), "# swaggerc configuration") {
        t.Fatalf("file was not replaced: %s", data)
    }
}
