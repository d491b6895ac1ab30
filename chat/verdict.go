package chat

// Verdict is the outcome of grading one candidate against a question.
type Verdict int

const (
	// VerdictNotRelevant drops the candidate: the model answered NO.
	VerdictNotRelevant Verdict = iota
	// VerdictRelevant keeps the candidate: the model answered YES.
	VerdictRelevant
	// VerdictUnavailable keeps the candidate: the grader never reached a
	// decision. An unchecked log is worth more than a discarded one.
	VerdictUnavailable
)

// Keep reports whether the candidate survives grading.
func (v Verdict) Keep() bool {
	return v != VerdictNotRelevant
}

func (v Verdict) String() string {
	switch v {
	case VerdictNotRelevant:
		return "not-relevant"
	case VerdictRelevant:
		return "relevant"
	case VerdictUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}
