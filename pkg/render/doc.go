// Package render defines the contract between the compile pipeline and the
// markup engines that produce HTML, plus a Registry resolving an engine by name
// or by template file extension.
package render
