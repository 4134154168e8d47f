// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package manifest

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/deskboot/internal/buildmode"
	"github.com/specialistvlad/deskboot/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// hclManifestFile is the top-level structure of a manifest file for decoding.
type hclManifestFile struct {
	App     hclApp       `hcl:"app,block"`
	Build   *hclBuild    `hcl:"build,block"`
	Windows []*hclWindow `hcl:"window,block"`
}

type hclApp struct {
	ProductName string  `hcl:"product_name"`
	Identifier  string  `hcl:"identifier"`
	Version     *string `hcl:"version,optional"`
}

type hclBuild struct {
	FrontendDist string `hcl:"frontend_dist,optional"`
	DevURL       string `hcl:"dev_url,optional"`
}

type hclWindow struct {
	Label      string  `hcl:"label,label"`
	Title      *string `hcl:"title,optional"`
	Width      *int    `hcl:"width,optional"`
	Height     *int    `hcl:"height,optional"`
	Resizable  *bool   `hcl:"resizable,optional"`
	Fullscreen bool    `hcl:"fullscreen,optional"`
}

// Load parses, decodes and validates the manifest at path.
func Load(ctx context.Context, path string, mode buildmode.Mode) (*Manifest, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading manifest.", "path", path, "build_mode", mode.String())

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, diags)
	}

	m, err := decode(file, path, mode)
	if err != nil {
		return nil, err
	}

	logger.Debug("Manifest loaded.", "product", m.App.ProductName, "windows", len(m.Windows))
	return m, nil
}

// Parse decodes and validates a manifest held in memory. filename is used
// only for diagnostics.
func Parse(src []byte, filename string, mode buildmode.Mode) (*Manifest, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", filename, diags)
	}
	return decode(file, filename, mode)
}

func decode(file *hcl.File, path string, mode buildmode.Mode) (*Manifest, error) {
	var raw hclManifestFile
	if diags := gohcl.DecodeBody(file.Body, evalContext(mode), &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, diags)
	}

	m := fromHCL(&raw)
	m.Source = path

	if err := Validate(m); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return m, nil
}

// fromHCL applies defaults while copying the decoded file into a Manifest.
func fromHCL(raw *hclManifestFile) *Manifest {
	m := &Manifest{
		App: App{
			ProductName: raw.App.ProductName,
			Identifier:  raw.App.Identifier,
			Version:     defaultVersion,
		},
		Windows: make([]Window, 0, len(raw.Windows)),
	}
	if raw.App.Version != nil {
		m.App.Version = *raw.App.Version
	}
	if raw.Build != nil {
		m.Build = Build{FrontendDist: raw.Build.FrontendDist, DevURL: raw.Build.DevURL}
	}

	for _, w := range raw.Windows {
		win := Window{
			Label:      w.Label,
			Title:      m.App.ProductName,
			Width:      defaultWidth,
			Height:     defaultHeight,
			Resizable:  true,
			Fullscreen: w.Fullscreen,
		}
		if w.Title != nil {
			win.Title = *w.Title
		}
		if w.Width != nil {
			win.Width = *w.Width
		}
		if w.Height != nil {
			win.Height = *w.Height
		}
		if w.Resizable != nil {
			win.Resizable = *w.Resizable
		}
		m.Windows = append(m.Windows, win)
	}
	return m
}

// evalContext exposes build_mode and the process environment to manifest
// expressions.
func evalContext(mode buildmode.Mode) *hcl.EvalContext {
	env := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = cty.StringVal(v)
	}

	envVal := cty.MapValEmpty(cty.String)
	if len(env) > 0 {
		envVal = cty.MapVal(env)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"build_mode": cty.StringVal(mode.String()),
			"env":        envVal,
		},
	}
}
