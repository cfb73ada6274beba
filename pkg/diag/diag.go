// Package diag collects compiler diagnostics as values. Lexical, syntactic
// and semantic errors are always collected here, never thrown past the file
// boundary — see §7 of the specification.
package diag

import "github.com/toolc/toolc/pkg/source"

// Diagnostic is the user-visible shape of a single error: {kind, range,
// message, file}.
type Diagnostic struct {
	Kind    source.ErrorKind
	Range   source.Range
	Message string
	File    string
}

// FromSyntaxError adapts a [source.SyntaxError] into a Diagnostic.
func FromSyntaxError(e *source.SyntaxError) Diagnostic {
	return Diagnostic{e.Kind(), e.Range(), e.Message(), e.File()}
}

// Reporter buffers diagnostics. The driver uses one reporter for a whole
// batch and does not clear it between the semantic checker's pre-pass and
// main pass, so both passes' diagnostics accumulate in it.
type Reporter struct {
	diags []Diagnostic
}

// NewReporter constructs an empty reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// Report appends a diagnostic.
func (r *Reporter) Report(d Diagnostic) {
	r.diags = append(r.diags, d)
}

// ReportSyntaxError appends a diagnostic adapted from a syntax error.
func (r *Reporter) ReportSyntaxError(e *source.SyntaxError) {
	r.Report(FromSyntaxError(e))
}

// Diagnostics returns everything reported so far, in discovery order.
func (r *Reporter) Diagnostics() []Diagnostic {
	return r.diags
}

// HasErrors reports whether anything has been reported.
func (r *Reporter) HasErrors() bool {
	return len(r.diags) > 0
}

// Clear empties the reporter, ready for the next pass.
func (r *Reporter) Clear() {
	r.diags = nil
}
