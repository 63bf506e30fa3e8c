package types

// Span is an inclusive 1-indexed line range identifying contiguous
// lines of a Document.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Valid reports whether the span identifies at least one line.
func (s Span) Valid() bool {
	return s.Start >= 1 && s.End >= s.Start
}

// Lines returns the number of lines covered, 0 for an invalid span.
func (s Span) Lines() int {
	if !s.Valid() {
		return 0
	}
	return s.End - s.Start + 1
}

// Contains reports whether line n falls inside the span.
func (s Span) Contains(n int) bool {
	return s.Valid() && n >= s.Start && n <= s.End
}

// Outcome tags which search phase produced a locate result.
type Outcome string

const (
	// OutcomeBackward means the definition was found scanning upward
	// from the cursor: the cursor sits inside or below the definition.
	OutcomeBackward Outcome = "backward"
	// OutcomeForward means the backward scan failed and the definition
	// was found scanning downward: it is the next function below the
	// cursor, not necessarily an enclosing one.
	OutcomeForward Outcome = "forward"
	// OutcomeNotFound means no definition pattern matched in either
	// direction.
	OutcomeNotFound Outcome = "not_found"
)

// FunctionDetails describes one located function definition.
type FunctionDetails struct {
	// Name is the identifier the definition is assigned to. Empty for
	// anonymous definitions or when no assignment precedes the keyword.
	Name string `json:"name,omitempty"`

	// Span covers the definition from its first signature line through
	// the line holding the closing brace. Span.End is 0 when the body
	// was never closed before end of file; see Terminated.
	Span Span `json:"span"`

	// Doc covers the roxygen comment block directly above the span,
	// nil when no such block exists.
	Doc *Span `json:"doc,omitempty"`
}

// Terminated reports whether the end of the function body was found.
func (f *FunctionDetails) Terminated() bool {
	return f.Span.End != 0
}

// Validate performs structural validation of the details.
func (f *FunctionDetails) Validate() error {
	if f.Span.Start < 1 {
		return ErrInvalidSpan
	}
	if f.Span.End != 0 && f.Span.End < f.Span.Start {
		return ErrInvalidSpan
	}
	if f.Doc != nil {
		if !f.Doc.Valid() {
			return ErrInvalidDocBlock
		}
		// The doc block sits strictly above the span.
		if f.Doc.End >= f.Span.Start {
			return ErrDocOverlapsSpan
		}
	}
	return nil
}

// LocateResult is the outcome of one locate call. It is always a value,
// never an error: an empty document, an out-of-range cursor, or a file
// with no functions all produce a not_found result.
type LocateResult struct {
	Outcome  Outcome          `json:"outcome"`
	Function *FunctionDetails `json:"function,omitempty"`

	// Advisory carries a caller-visible message on empty or partial
	// results, such as an unterminated function body.
	Advisory string `json:"advisory,omitempty"`
}

// Found reports whether a definition start was located.
func (r *LocateResult) Found() bool {
	return r.Outcome != OutcomeNotFound && r.Function != nil
}

// Validate checks internal consistency of the result.
func (r *LocateResult) Validate() error {
	switch r.Outcome {
	case OutcomeBackward, OutcomeForward:
		if r.Function == nil {
			return ErrMissingFunction
		}
		return r.Function.Validate()
	case OutcomeNotFound:
		if r.Function != nil {
			return ErrUnexpectedFunction
		}
		return nil
	default:
		return ErrInvalidOutcome
	}
}
