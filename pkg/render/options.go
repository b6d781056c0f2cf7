package render

// Options carry per-template data handed to a Renderer.
type Options struct {
	// Filename identifies the template in engine diagnostics. Falls back to
	// Source.Filename when empty.
	Filename string
	// Line is the 1-based line the source starts at inside its file. Engines
	// offset their diagnostics by it; zero and one both mean "first line".
	Line int
	// Locals are exposed to the template as top-level variables.
	Locals map[string]any
}

// FilenameFor returns opts.Filename, or src.Filename when unset.
func (o Options) FilenameFor(src Source) string {
	if o.Filename != "" {
		return o.Filename
	}
	return src.Filename
}

// LineOffset returns how many lines precede the source in its file.
func (o Options) LineOffset() int {
	if o.Line <= 1 {
		return 0
	}
	return o.Line - 1
}
