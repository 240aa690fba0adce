package content

import "strings"

// Chunk is an ordered window of at most W words from a normalized text.
type Chunk struct {
	Index int
	Words []string
}

// Text joins the chunk words with single spaces.
func (c Chunk) Text() string {
	return strings.Join(c.Words, " ")
}

// ChunkWords splits text into consecutive windows of at most maxWords words.
// Empty text yields no chunks; maxWords below one is treated as one.
func ChunkWords(text string, maxWords int) []Chunk {
	if maxWords < 1 {
		maxWords = 1
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	out := make([]Chunk, 0, (len(words)+maxWords-1)/maxWords)
	for start := 0; start < len(words); start += maxWords {
		end := start + maxWords
		if end > len(words) {
			end = len(words)
		}
		out = append(out, Chunk{Index: len(out), Words: words[start:end:end]})
	}
	return out
}
