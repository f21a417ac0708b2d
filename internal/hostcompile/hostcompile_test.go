package hostcompile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOptionsWithDefaultsFillsBlankFields(t *testing.T) {
	got := Options{}.withDefaults()
	if got.ModulePath == "" || got.RequireModule == "" || got.RequireVersion == "" ||
		got.GoVersion == "" || got.BinaryName == "" {
		t.Fatalf("withDefaults left a field blank: %#v", got)
	}
}

func TestOptionsWithDefaultsPreservesExplicitFields(t *testing.T) {
	opts := Options{
		ModulePath: "example.com/custom",
		BinaryName: "myprog",
	}.withDefaults()
	if opts.ModulePath != "example.com/custom" {
		t.Errorf("ModulePath overridden: got %q", opts.ModulePath)
	}
	if opts.BinaryName != "myprog" {
		t.Errorf("BinaryName overridden: got %q", opts.BinaryName)
	}
	// Fields left blank by the caller still get their defaults.
	if opts.RequireModule == "" || opts.GoVersion == "" {
		t.Fatalf("blank fields were not defaulted: %#v", opts)
	}
}

func TestResultCleanupRemovesDirAndToleratesEmptyDir(t *testing.T) {
	dir, err := os.MkdirTemp("", "hostcompile-test-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	res := &Result{Dir: dir}
	if err := res.Cleanup(); err != nil {
		t.Fatalf("Cleanup error: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be removed, stat err = %v", dir, err)
	}

	// Cleanup on a Result with no Dir (a Build that failed before creating
	// one) must be a no-op, not an error.
	empty := &Result{}
	if err := empty.Cleanup(); err != nil {
		t.Fatalf("Cleanup on empty Dir should be a no-op, got: %v", err)
	}
}
