package assets

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed scripts/*
var scripts embed.FS

//go:embed pages/*
var pages embed.FS

// LoadScript loads a JavaScript asset by name.
// The name should not include the .js extension.
func LoadScript(name string) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}

	content, err := scripts.ReadFile("scripts/" + name + ".js")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrScriptNotFound, name)
	}

	return string(content), nil
}

// LoadPage parses an HTML page template by name.
// The name should not include the .html extension.
func LoadPage(name string) (*template.Template, error) {
	if err := validName(name); err != nil {
		return nil, err
	}

	content, err := pages.ReadFile("pages/" + name + ".html")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrPageNotFound, name)
	}

	return template.New(name).Parse(string(content))
}

// validName rejects names that could escape the asset directory or pick a
// different extension.
func validName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
