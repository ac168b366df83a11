// Package diag defines the diagnostic model shared by the lexer, the macro-call
// parser, the expander and the driver.
//
// Diagnostic is the central record: Severity, a numeric Code with a stable
// string form (LEX1001, SYN2002, EXP6001, ...), a short Message, the Primary
// span and optional Notes.
//
// Phases emit through a Reporter so they stay decoupled from storage. The
// ReportBuilder helpers (ReportError, ReportWarning, ReportInfo) let callers
// chain WithNote before Emit. BagReporter aggregates into a Bag, which supports
// sorting, deduplication and filtering; DedupReporter suppresses repeats before
// they reach the next reporter.
//
// Rendering lives in internal/diagfmt; FormatShortDiagnostics here only
// produces the one-line form used by tests and the CLI.
package diag
