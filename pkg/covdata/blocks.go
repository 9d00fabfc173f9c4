package covdata

// Kind is the display classification of a line.
type Kind string

// Block kinds.
const (
	KindCovered Kind = "covered"
	KindMissed  Kind = "missed"
	KindNeutral Kind = "neutral"
	KindIgnored Kind = "ignored"
)

// Block is a run of consecutive lines with the same kind. Lines are 1-based and inclusive.
type Block struct {
	Kind      Kind `json:"kind"`
	StartLine int  `json:"start_line"`
	EndLine   int  `json:"end_line"`
}

// Classify returns the display kind of a symbol.
func Classify(s Symbol) Kind {
	switch {
	case s == Neutral:
		return KindNeutral
	case s == Ignored:
		return KindIgnored
	case s == 0:
		return KindMissed
	default:
		return KindCovered
	}
}

// Compose collapses symbols into contiguous blocks covering [1, len(symbols)].
// An empty input yields an empty, non-nil slice.
func Compose(symbols []Symbol) []Block {
	blocks := []Block{}
	if len(symbols) == 0 {
		return blocks
	}

	current := Classify(symbols[0])
	start := 1
	for i := 1; i < len(symbols); i++ {
		kind := Classify(symbols[i])
		if kind == current {
			continue
		}
		blocks = append(blocks, Block{Kind: current, StartLine: start, EndLine: i})
		current = kind
		start = i + 1
	}
	return append(blocks, Block{Kind: current, StartLine: start, EndLine: len(symbols)})
}
