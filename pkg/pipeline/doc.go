// Package pipeline wires the render → emit sequence an asset pipeline runs for
// each template file: pick a renderer by name or extension, render the markup
// to HTML, optionally sanitize and syntax-check it, and emit the registration
// statement. It also compiles whole template trees into a single JavaScript
// bundle.
package pipeline
