package record

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// JobOpportunity is a job listing extracted from a completion.
type JobOpportunity struct {
	Title        string `json:"title"`
	Organization string `json:"organization,omitempty"`
	Details      string `json:"details,omitempty"`
	URL          string `json:"url,omitempty"`
	Location     string `json:"location,omitempty"`
}

// CommunityEvent is a community event extracted from a completion. Date is
// kept as free text.
type CommunityEvent struct {
	Title       string `json:"title"`
	Date        string `json:"date,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

// Names used for logging and metric labels.
const (
	JobOpportunityName = "job_opportunity"
	CommunityEventName = "community_event"
)

// Unknown fields are accepted; declared optional fields may be null.
const jobOpportunitySchema = `{
	"type": "object",
	"required": ["title"],
	"properties": {
		"title":        {"type": "string", "pattern": "\\S"},
		"organization": {"type": ["string", "null"]},
		"details":      {"type": ["string", "null"]},
		"url":          {"type": ["string", "null"]},
		"location":     {"type": ["string", "null"]}
	}
}`

const communityEventSchema = `{
	"type": "object",
	"required": ["title"],
	"properties": {
		"title":       {"type": "string", "pattern": "\\S"},
		"date":        {"type": ["string", "null"]},
		"location":    {"type": ["string", "null"]},
		"description": {"type": ["string", "null"]},
		"url":         {"type": ["string", "null"]}
	}
}`

var (
	jobSchema   = mustCompile(JobOpportunityName, jobOpportunitySchema)
	eventSchema = mustCompile(CommunityEventName, communityEventSchema)
)

// JobOpportunitySchema returns the compiled validation schema for JobOpportunity.
func JobOpportunitySchema() *gojsonschema.Schema { return jobSchema }

// CommunityEventSchema returns the compiled validation schema for CommunityEvent.
func CommunityEventSchema() *gojsonschema.Schema { return eventSchema }

func mustCompile(name, raw string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("compile %s schema: %v", name, err))
	}
	return schema
}
