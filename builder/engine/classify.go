package engine

// OutcomeKind routes a completed bundler invocation to success or failure
// handling.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeInvocationError
	OutcomeCompileErrors
)

// Outcome is the classified result of one bundler invocation.
type Outcome struct {
	Kind     OutcomeKind
	Err      error     // set for OutcomeInvocationError
	Errors   []Message // set for OutcomeCompileErrors, in bundler order
	Assets   []string  // set for OutcomeSuccess
	Metafile string
}

// Classify inspects a bundler result. Priority: an invocation-level failure
// outranks compile errors, which outrank success.
func Classify(stats *Stats, err error) Outcome {
	if err != nil {
		return Outcome{Kind: OutcomeInvocationError, Err: err}
	}
	if len(stats.Errors) > 0 {
		return Outcome{Kind: OutcomeCompileErrors, Errors: stats.Errors}
	}
	return Outcome{Kind: OutcomeSuccess, Assets: stats.Assets, Metafile: stats.Metafile}
}
