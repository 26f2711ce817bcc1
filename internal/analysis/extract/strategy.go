package extract

import (
	"regexp"
	"strings"
)

// Strategy locates a candidate JSON text inside a completion.
type Strategy interface {
	Name() string
	Candidate(completion string) (string, bool)
}

// DefaultStrategies is the fallback chain applied when a Parser is built
// without explicit strategies: the whole completion first, then the first
// fenced json block.
func DefaultStrategies() []Strategy {
	return []Strategy{WholeCompletion(), FencedJSONBlock()}
}

type wholeCompletion struct{}

// WholeCompletion treats the trimmed completion itself as the candidate.
func WholeCompletion() Strategy { return wholeCompletion{} }

func (wholeCompletion) Name() string { return "whole_completion" }

func (wholeCompletion) Candidate(completion string) (string, bool) {
	trimmed := strings.TrimSpace(completion)
	return trimmed, trimmed != ""
}

var fencedJSON = regexp.MustCompile("(?is)```json[ \\t]*\\r?\\n(.*?)```")

type fencedJSONBlock struct{}

// FencedJSONBlock extracts the body of the first ```json fenced block.
func FencedJSONBlock() Strategy { return fencedJSONBlock{} }

func (fencedJSONBlock) Name() string { return "fenced_json_block" }

func (fencedJSONBlock) Candidate(completion string) (string, bool) {
	match := fencedJSON.FindStringSubmatch(completion)
	if match == nil {
		return "", false
	}
	inner := strings.TrimSpace(match[1])
	return inner, inner != ""
}
