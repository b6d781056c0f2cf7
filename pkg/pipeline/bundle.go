package pipeline

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/natefinch/atomic"
)

// Bundle collects the statements for a tree of templates, ordered by path.
type Bundle struct {
	Results []Result
}

// JavaScript concatenates every statement in order.
func (b Bundle) JavaScript() string {
	var sb strings.Builder
	for _, res := range b.Results {
		sb.WriteString(res.JavaScript)
	}
	return sb.String()
}

// WriteTo writes the concatenated statements to w.
func (b Bundle) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, b.JavaScript())
	return int64(n), err
}

// WriteFile replaces the file at path with the bundle. Readers never observe a
// partially written file.
func (b Bundle) WriteFile(path string) error {
	if err := atomic.WriteFile(path, strings.NewReader(b.JavaScript())); err != nil {
		return fmt.Errorf("pipeline: write bundle %q: %w", path, err)
	}
	return nil
}

// CompileFS compiles every template below root in fsys that a registered
// renderer claims. Logical paths are the file paths relative to root with the
// renderer extension removed, so "views/users/_row.hamlbars" under "views"
// registers as the partial "users.row". Files no renderer claims are skipped.
func (p *Pipeline) CompileFS(ctx context.Context, fsys fs.FS, root string, locals map[string]any) (Bundle, error) {
	if root == "" {
		root = "."
	}
	if err := p.initialiseErr; err != nil {
		return Bundle{}, err
	}

	var bundle Bundle
	err := fs.WalkDir(fsys, root, func(file string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		base := path.Base(file)
		if _, err := p.registry.ForFile(base); err != nil {
			p.logger.Debug().Str("file", file).Msg("no renderer, skipping")
			return nil
		}

		body, err := fs.ReadFile(fsys, file)
		if err != nil {
			return fmt.Errorf("pipeline: read %q: %w", file, err)
		}

		res, err := p.Compile(ctx, Request{
			Source:      body,
			Filename:    file,
			Basename:    base,
			LogicalPath: p.logicalPath(root, file),
			Locals:      locals,
		})
		if err != nil {
			return err
		}
		bundle.Results = append(bundle.Results, res)
		return nil
	})
	if err != nil {
		return Bundle{}, err
	}

	p.logger.Info().Int("templates", len(bundle.Results)).Str("root", root).Msg("compiled bundle")
	return bundle, nil
}

func (p *Pipeline) logicalPath(root, file string) string {
	rel := file
	if root != "." {
		rel = strings.TrimPrefix(strings.TrimPrefix(file, root), "/")
	}
	return p.registry.TrimExtension(rel)
}
