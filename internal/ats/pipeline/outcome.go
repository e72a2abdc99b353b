// internal/ats/pipeline/outcome.go

package pipeline

// Kind identifies the terminal state of a scoring run.
type Kind int

const (
	// KindScored means the resume matched at least one vocabulary entry.
	KindScored Kind = iota
	// KindNoSkills means the job yielded an empty scoring vocabulary.
	KindNoSkills
	// KindEmptyText means extraction succeeded but produced no usable text.
	KindEmptyText
	// KindExtractionFailed means the resume binary could not be parsed.
	KindExtractionFailed
	// KindNoMatch means extraction and matching ran but nothing matched.
	KindNoMatch
	// KindCrashed means an unexpected panic escaped the pipeline stages.
	KindCrashed
)

func (k Kind) String() string {
	switch k {
	case KindScored:
		return "scored"
	case KindNoSkills:
		return "no_skills"
	case KindEmptyText:
		return "empty_text"
	case KindExtractionFailed:
		return "extraction_failed"
	case KindNoMatch:
		return "no_match"
	case KindCrashed:
		return "crashed"
	default:
		return "unknown"
	}
}

// Outcome is the result of one scoring run. Score and MatchedTokens are
// meaningful only for KindScored; Diagnostic is set for KindExtractionFailed
// and KindCrashed.
type Outcome struct {
	Kind          Kind
	Score         int
	MatchedTokens []string
	Diagnostic    string
}

func Scored(score int, matched []string) Outcome {
	return Outcome{Kind: KindScored, Score: score, MatchedTokens: matched}
}

func NoSkills() Outcome         { return Outcome{Kind: KindNoSkills} }
func EmptyText() Outcome        { return Outcome{Kind: KindEmptyText} }
func NoMatch() Outcome          { return Outcome{Kind: KindNoMatch} }
func ExtractionFailed(diag string) Outcome {
	return Outcome{Kind: KindExtractionFailed, Diagnostic: diag}
}
func Crashed(diag string) Outcome { return Outcome{Kind: KindCrashed, Diagnostic: diag} }

// Statuses written to the applications table. Downstream services key off
// these exact strings, so they are part of the wire contract.
const (
	StatusPending   = "Pending"
	StatusNoSkills  = "ATS_NO_SKILLS"
	StatusEmptyText = "ATS_EMPTY_TEXT"
	StatusNoMatch   = "ATS_NO_MATCH"
	StatusCrash     = "ATS_CRASH"

	errStatusPrefix = "ERR: "
	// Diagnostics embedded in a status are clipped so a verbose parser
	// error cannot blow past the column width.
	diagTruncLen = 40
)

// Legacy is the two-column projection persisted on the application row.
type Legacy struct {
	Score  int
	Status string
}

// Legacy projects the outcome onto the historical (ats_score, status) pair.
// Every kind except KindScored and KindCrashed records a zero score.
func (o Outcome) Legacy() Legacy {
	switch o.Kind {
	case KindScored:
		return Legacy{Score: o.Score, Status: StatusPending}
	case KindNoSkills:
		return Legacy{Score: 0, Status: StatusNoSkills}
	case KindEmptyText:
		return Legacy{Score: 0, Status: StatusEmptyText}
	case KindNoMatch:
		return Legacy{Score: 0, Status: StatusNoMatch}
	case KindExtractionFailed:
		// Clip on rune boundaries; a byte slice could split a multi-byte
		// character and leave invalid UTF-8 in the status column.
		diag := o.Diagnostic
		if runes := []rune(diag); len(runes) > diagTruncLen {
			diag = string(runes[:diagTruncLen])
		}
		return Legacy{Score: 0, Status: errStatusPrefix + diag}
	case KindCrashed:
		return Legacy{Score: -1, Status: StatusCrash}
	default:
		return Legacy{Score: -1, Status: StatusCrash}
	}
}
