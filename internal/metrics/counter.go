package metrics

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// EstimatorBytes selects the bytes/4 token estimate.
const EstimatorBytes = "bytes"

// Counter counts bytes, tokens and lines in text
type Counter interface {
	Count(text string) (bytes, tokens, lines int)
}

// NewCounter returns the counter for an estimator name: EstimatorBytes (or
// empty) for the bytes/4 estimate, otherwise a tiktoken model or encoding name
// such as "gpt-4o" or "cl100k_base".
func NewCounter(estimator string) (Counter, error) {
	if estimator == "" || estimator == EstimatorBytes {
		return ByteCounter{}, nil
	}
	return NewTiktokenCounter(estimator)
}

// ByteCounter estimates tokens as bytes/4
type ByteCounter struct{}

func (ByteCounter) Count(text string) (int, int, int) {
	return len(text), len(text) / 4, countLines(text)
}

// TiktokenCounter counts tokens with a tiktoken encoding
type TiktokenCounter struct {
	name string
	enc  *tiktoken.Tiktoken
}

// NewTiktokenCounter accepts a model name, falling back to an encoding name.
func NewTiktokenCounter(name string) (*TiktokenCounter, error) {
	enc, err := tiktoken.EncodingForModel(name)
	if err != nil {
		enc, err = tiktoken.GetEncoding(name)
		if err != nil {
			return nil, fmt.Errorf("unsupported model for tiktoken: %s", name)
		}
	}
	return &TiktokenCounter{name: name, enc: enc}, nil
}

func (c *TiktokenCounter) Count(text string) (int, int, int) {
	tokens := c.enc.Encode(strings.TrimSpace(text), nil, nil)
	return len(text), len(tokens), countLines(text)
}

func countLines(text string) int {
	return strings.Count(text, "\n") + 1
}
