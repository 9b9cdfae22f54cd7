package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/shadergrid/internal/ctxlog"
	"github.com/specialistvlad/shadergrid/internal/graph"
)

// Document is everything read from a set of HCL files.
type Document struct {
	Graph     *graph.Graph
	NodeTypes []*NodeType
}

// Loader reads graph and manifest files.
type Loader struct{}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file found under paths. Directories are walked
// recursively; missing paths are skipped. Nodes keep the order in which they
// appear, file by file.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Document, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	doc := &Document{Graph: graph.New()}
	parser := hclparse.NewParser()
	for _, file := range files {
		f, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		if err := l.decodeInto(ctx, doc, f, file); err != nil {
			return nil, err
		}
	}

	logger.Debug("HCL loading complete.", "nodes", len(doc.Graph.Nodes), "node_types", len(doc.NodeTypes))
	return doc, nil
}

// Parse decodes a single in-memory HCL source.
func (l *Loader) Parse(ctx context.Context, src []byte, filename string) (*Document, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	doc := &Document{Graph: graph.New()}
	if err := l.decodeInto(ctx, doc, f, filename); err != nil {
		return nil, err
	}
	return doc, nil
}

func (l *Loader) decodeInto(ctx context.Context, doc *Document, f *hcl.File, filename string) error {
	var root fileRoot
	if diags := gohcl.DecodeBody(f.Body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	for _, nb := range root.Nodes {
		n, err := translateNode(ctx, nb)
		if err != nil {
			return fmt.Errorf("in %s: %w", filename, err)
		}
		doc.Graph.Nodes = append(doc.Graph.Nodes, n)
	}
	for _, tb := range root.NodeTypes {
		nt, err := translateNodeType(ctx, tb)
		if err != nil {
			return fmt.Errorf("in %s: %w", filename, err)
		}
		doc.NodeTypes = append(doc.NodeTypes, nt)
	}
	return nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl
// files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) == ".hcl" {
				add(path)
			}
			continue
		}
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(p) == ".hcl" {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return allFiles, nil
}
