// Package emitter turns rendered HTML into JavaScript statements that register
// the markup in a client-side Handlebars or Ember template registry. It owns
// the naming rules (registry keys derived from logical paths, partial
// detection by leading underscore, templates-root namespacing), the escaping
// of HTML for JavaScript string literals, and the Config describing which
// client-side identifiers the statements target. Everything here is a pure
// string transform: no I/O and no error paths.
package emitter
