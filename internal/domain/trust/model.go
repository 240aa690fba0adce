package trust

import "time"

// Classification modes for texts that match no trusted source.
const (
	ModeHeuristic = "heuristic"
	ModeRemote    = "remote"
)

// Fixed confidences for the deterministic verdicts.
const (
	allowlistConfidence   = 0.95
	sensationalConfidence = 0.3
	shortTextConfidence   = 0.2
	neutralConfidence     = 0.4
	unavailableConfidence = 0.1
	defaultConfidence     = 0.5
)

const (
	minWords        = 20
	maxReasoning    = 280
	maxPromptWords  = 1500
	unavailableNote = "Trust assessment is currently unavailable."
)

// Config controls the trust classifier.
type Config struct {
	Mode        string
	Model       string
	Temperature float32
	Prompt      string
	Timeout     time.Duration
}

// Request is the classification payload.
type Request struct {
	Text string `json:"text"`
}

// Verdict is the outcome of a classification.
type Verdict struct {
	IsTrusted  bool     `json:"isTrusted"`
	Confidence *float64 `json:"confidence,omitempty"`
	Reasoning  string   `json:"reasoning"`
	// Source names the matched allowlist entry, if any.
	Source string `json:"source,omitempty"`
}

func verdict(trusted bool, confidence float64, reasoning string) Verdict {
	return Verdict{IsTrusted: trusted, Confidence: &confidence, Reasoning: reasoning}
}

// Unavailable is returned whenever the remote path fails.
func Unavailable() Verdict {
	return verdict(false, unavailableConfidence, unavailableNote)
}
