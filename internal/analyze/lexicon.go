package analyze

// LexiconScorer classifies text by counting hits against positive and
// negative word lists. The net hit ratio is amplified and clamped, so a
// handful of charged words in a short text reads as a strong signal while
// the same words in a long neutral text read as a weak one.
type LexiconScorer struct {
	positive map[string]bool
	negative map[string]bool
}

// NewLexiconScorer creates a scorer with the built-in financial lexicon.
func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{
		positive: loadPositiveWords(),
		negative: loadNegativeWords(),
	}
}

// Score classifies text. Confidence is |positive - negative| hits over total
// words, amplified by 10 and clamped to [0, 1]; the label follows whichever
// side dominates. Text with no hits is positive with zero confidence.
func (s *LexiconScorer) Score(text string) (Polarity, float64, error) {
	words := tokenize(text)
	if len(words) == 0 {
		return Positive, 0, ErrNoText
	}

	var pos, neg int
	for _, word := range words {
		if s.positive[word] {
			pos++
		}
		if s.negative[word] {
			neg++
		}
	}

	net := float64(pos-neg) / float64(len(words))
	confidence := net * 10 // Amplify: charged words are a small share of any text
	if confidence < 0 {
		confidence = -confidence
	}
	if confidence > 1 {
		confidence = 1
	}

	if neg > pos {
		return Negative, confidence, nil
	}
	return Positive, confidence, nil
}

func loadPositiveWords() map[string]bool {
	return wordSet(
		"gain", "gains", "growth", "profit", "profits", "profitable", "surge",
		"surged", "rally", "rallied", "beat", "beats", "exceeded", "strong",
		"bullish", "upbeat", "upgrade", "upgraded", "outperform", "record",
		"soar", "soared", "jump", "jumped", "rise", "rose", "boost", "boosted",
		"positive", "optimistic", "momentum", "breakout", "buy", "winner",
		"improve", "improved", "improving", "success", "successful", "robust",
		"expand", "expanded", "expansion", "opportunity", "innovative",
	)
}

func loadNegativeWords() map[string]bool {
	return wordSet(
		"loss", "losses", "decline", "declined", "drop", "dropped", "fall",
		"fell", "plunge", "plunged", "crash", "crashed", "miss", "missed",
		"weak", "bearish", "downgrade", "downgraded", "underperform", "sell",
		"selloff", "slump", "slumped", "tumble", "tumbled", "negative",
		"pessimistic", "risk", "risks", "risky", "lawsuit", "fraud", "probe",
		"investigation", "bankrupt", "bankruptcy", "layoff", "layoffs", "cut",
		"cuts", "warning", "warned", "fear", "fears", "concern", "concerns",
	)
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
