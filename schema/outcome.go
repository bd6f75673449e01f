package schema

// VerifyOutcomeKind tags the result of one checker invocation.
type VerifyOutcomeKind string

// The checker uses its exit status as a signal: 0 means a fully complete
// package, 1 means it ran fine and found incompleteness. Anything else is a
// real failure.
const (
	VerifyClean      VerifyOutcomeKind = "clean"      // exit 0, report on stdout
	VerifyIncomplete VerifyOutcomeKind = "incomplete" // exit 1, report on captured stdout
	VerifyFailed     VerifyOutcomeKind = "failed"     // any other exit code
)

// VerifyOutcome is the tagged result of a type-completeness check.
// Report is the raw JSON for clean and incomplete outcomes; Code and Stderr
// are populated for failed ones.
type VerifyOutcome struct {
	Kind   VerifyOutcomeKind
	Report []byte
	Code   int
	Stderr string
}

// HasReport reports whether the outcome carries a parseable report.
func (o VerifyOutcome) HasReport() bool {
	return o.Kind == VerifyClean || o.Kind == VerifyIncomplete
}
