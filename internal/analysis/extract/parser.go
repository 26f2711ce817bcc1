package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/careercompass/backend/internal/logger"
)

// ErrNoRecords is returned by Extract when no strategy produced a candidate
// that decodes and validates.
var ErrNoRecords = errors.New("no valid record array in completion")

// Parser turns an LLM completion into validated records of type T. Each
// strategy is tried in order; the first candidate whose every element passes
// the schema wins.
type Parser[T any] struct {
	name       string
	schema     *gojsonschema.Schema
	strategies []Strategy
	logger     *zap.Logger
}

// New builds a parser for records named name. With no strategies the
// DefaultStrategies chain is used.
func New[T any](name string, schema *gojsonschema.Schema, log *zap.Logger, strategies ...Strategy) *Parser[T] {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Parser[T]{
		name:       name,
		schema:     schema,
		strategies: strategies,
		logger:     logger.OrNop(log).Named("extract").With(zap.String("record", name)),
	}
}

// Parse returns the extracted records, or nil when nothing usable was found.
func (p *Parser[T]) Parse(completion string) []T {
	records, _ := p.Extract(completion)
	return records
}

// Extract is Parse with the failure reported. The error always wraps
// ErrNoRecords.
func (p *Parser[T]) Extract(completion string) ([]T, error) {
	var failures []string
	for _, strategy := range p.strategies {
		candidate, ok := strategy.Candidate(completion)
		if !ok {
			continue
		}

		records, err := p.decode(candidate)
		if err != nil {
			p.logger.Debug("candidate rejected", zap.String("strategy", strategy.Name()), zap.Error(err))
			failures = append(failures, fmt.Sprintf("%s: %v", strategy.Name(), err))
			continue
		}
		return records, nil
	}

	if len(failures) == 0 {
		return nil, fmt.Errorf("%w: no candidate found", ErrNoRecords)
	}
	return nil, fmt.Errorf("%w: %s", ErrNoRecords, strings.Join(failures, "; "))
}

func (p *Parser[T]) decode(candidate string) ([]T, error) {
	if !strings.HasPrefix(candidate, "[") {
		return nil, errors.New("not a json array")
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &items); err != nil {
		return nil, fmt.Errorf("decode array: %w", err)
	}

	records := make([]T, 0, len(items))
	for i, raw := range items {
		result, err := p.schema.Validate(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("validate element %d: %w", i, err)
		}
		if !result.Valid() {
			return nil, fmt.Errorf("element %d: %s", i, describe(result.Errors()))
		}

		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode element %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func describe(errs []gojsonschema.ResultError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}
