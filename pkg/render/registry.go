package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

// ErrRendererNotFound is returned when no renderer matches a name or file.
var ErrRendererNotFound = errors.New("render: renderer not found")

// Registry stores renderers by name and by the file extensions they claim.
type Registry struct {
	mu         sync.RWMutex
	renderers  map[string]Renderer
	extensions map[string]string
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		renderers:  make(map[string]Renderer),
		extensions: make(map[string]string),
	}
}

// Register adds a renderer by its Name(). Duplicate names and extensions
// already claimed by another renderer return an error.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	name := renderer.Name()
	if name == "" {
		return fmt.Errorf("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}

	exts := make([]string, 0, len(renderer.Extensions()))
	for _, ext := range renderer.Extensions() {
		ext = normalizeExt(ext)
		if ext == "" {
			continue
		}
		if owner, taken := r.extensions[ext]; taken {
			return fmt.Errorf("render: extension %q already handled by %q", ext, owner)
		}
		exts = append(exts, ext)
	}

	r.renderers[name] = renderer
	for _, ext := range exts {
		r.extensions[ext] = name
	}
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get retrieves a renderer by name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRendererNotFound, name)
	}
	return renderer, nil
}

// ForFile picks the renderer whose extension is the longest suffix of
// filename, so ".hbs.tpl" wins over ".tpl".
func (r *Registry) ForFile(filename string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext := r.matchExtension(filename)
	if ext == "" {
		return nil, fmt.Errorf("%w: no renderer for %q", ErrRendererNotFound, filename)
	}
	return r.renderers[r.extensions[ext]], nil
}

// TrimExtension removes the registered extension matched by filename, if any.
func (r *Registry) TrimExtension(filename string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ext := r.matchExtension(filename); ext != "" {
		return filename[:len(filename)-len(tail(filename, ext))]
	}
	return filename
}

// matchExtension returns the longest registered extension filename ends with,
// compared with Unicode case folding. Callers hold r.mu.
func (r *Registry) matchExtension(filename string) string {
	best := ""
	for ext := range r.extensions {
		if utf8.RuneCountInString(ext) <= utf8.RuneCountInString(best) {
			continue
		}
		if strings.EqualFold(tail(filename, ext), ext) {
			best = ext
		}
	}
	return best
}

// tail returns as many trailing runes of s as ext has.
func tail(s, ext string) string {
	n := utf8.RuneCountInString(ext)
	i := len(s)
	for ; n > 0 && i > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
	}
	if n > 0 {
		return ""
	}
	return s[i:]
}

// List returns a sorted list of renderer names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a renderer is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.renderers[name]
	return ok
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
