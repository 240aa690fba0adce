package trust

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// decodeVerdict is the single validation step for remote classifier replies.
// Missing fields get defaults, confidence is clamped and reasoning is capped.
func decodeVerdict(raw string) (Verdict, error) {
	sanitized := strings.TrimSpace(raw)
	sanitized = strings.TrimPrefix(sanitized, "```json")
	sanitized = strings.TrimPrefix(sanitized, "```JSON")
	sanitized = strings.TrimSuffix(sanitized, "```")
	sanitized = strings.Trim(sanitized, "`")
	sanitized = strings.TrimSpace(strings.TrimPrefix(sanitized, "json"))

	start := strings.Index(sanitized, "{")
	end := strings.LastIndex(sanitized, "}")
	if start == -1 || end <= start {
		return Verdict{}, errors.New("no json object in reply")
	}

	var wire struct {
		IsTrusted      json.RawMessage `json:"isTrusted"`
		IsTrustedSnake json.RawMessage `json:"is_trusted"`
		Confidence     json.RawMessage `json:"confidence"`
		Reasoning      json.RawMessage `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(sanitized[start:end+1]), &wire); err != nil {
		return Verdict{}, fmt.Errorf("decode verdict: %w", err)
	}

	trustedRaw := wire.IsTrusted
	if isAbsent(trustedRaw) {
		trustedRaw = wire.IsTrustedSnake
	}
	trusted, err := coerceBool(trustedRaw)
	if err != nil {
		return Verdict{}, fmt.Errorf("isTrusted: %w", err)
	}
	confidence, err := coerceFloat(wire.Confidence, defaultConfidence)
	if err != nil {
		return Verdict{}, fmt.Errorf("confidence: %w", err)
	}
	reasoning, err := coerceString(wire.Reasoning)
	if err != nil {
		return Verdict{}, fmt.Errorf("reasoning: %w", err)
	}
	if reasoning == "" {
		reasoning = "No reasoning provided."
	}

	return verdict(trusted, clamp(confidence), capRunes(reasoning, maxReasoning)), nil
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || string(trimmed) == "null"
}

func coerceBool(raw json.RawMessage) (bool, error) {
	if isAbsent(raw) {
		return false, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "yes", "1":
			return true, nil
		case "false", "no", "0", "":
			return false, nil
		}
		return false, fmt.Errorf("unexpected value %q", s)
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n != 0, nil
	}
	return false, fmt.Errorf("unexpected value %s", string(raw))
}

func coerceFloat(raw json.RawMessage, fallback float64) (float64, error) {
	if isAbsent(raw) {
		return fallback, nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("unexpected value %s", string(raw))
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, err
	}
	if strings.HasSuffix(s, "%") {
		parsed /= 100
	}
	return parsed, nil
}

func coerceString(raw json.RawMessage) (string, error) {
	if isAbsent(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.Join(strings.Fields(s), " "), nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return strings.Join(strings.Fields(strings.Join(many, " ")), " "), nil
	}
	return "", fmt.Errorf("unexpected value %s", string(raw))
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return defaultConfidence
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func capRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:limit-3])) + "..."
}
