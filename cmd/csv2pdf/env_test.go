package main

import "testing"

func TestDefaultEnv(t *testing.T) {
	t.Parallel()

	env := DefaultEnv()
	if env.Stdout == nil || env.Stderr == nil {
		t.Error("DefaultEnv should set Stdout and Stderr")
	}
	if env.Getenv == nil || env.Environ == nil {
		t.Error("DefaultEnv should set Getenv and Environ")
	}
	if env.NewConverter == nil {
		t.Fatal("DefaultEnv should set NewConverter")
	}

	conv := env.NewConverter()
	if conv == nil {
		t.Fatal("NewConverter returned nil")
	}
	if err := conv.Close(); err != nil {
		t.Errorf("Close() on unused converter: %v", err)
	}
}
