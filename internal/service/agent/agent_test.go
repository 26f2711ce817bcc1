package agent

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/careercompass/backend/internal/metrics"
	"github.com/careercompass/backend/internal/model/record"
	"github.com/careercompass/backend/internal/service/ai/aitest"
)

func TestJobSearchRun(t *testing.T) {
	chatModel := aitest.New(`[{"title":"Data Analyst","organization":"Acme","details":"SQL, Python","url":"https://acme.example/jobs/1","location":"Remote"}]`)
	agent, err := NewJobSearch(testContext(t), chatModel, zaptest.NewLogger(t), nil)
	require.NoError(t, err)

	jobs, err := agent.Run(testContext(t), "remote data jobs", `{"title":"Data Analyst"}`+"\nPrevious Chat History:\nUser: remote data jobs")
	require.NoError(t, err)

	assert.Equal(t, []record.JobOpportunity{{
		Title:        "Data Analyst",
		Organization: "Acme",
		Details:      "SQL, Python",
		URL:          "https://acme.example/jobs/1",
		Location:     "Remote",
	}}, jobs)

	require.Equal(t, 1, chatModel.Calls())
	prompt := chatModel.Prompt(0)
	assert.Contains(t, prompt, `{"title":"Data Analyst"}`)
	assert.Contains(t, prompt, "The user asked: remote data jobs")
	assert.Contains(t, prompt, `"title", "organization", "details", "url", and "location"`)
}

func TestJobSearchUnparseableOutput(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	agent, err := NewJobSearch(testContext(t), aitest.New("Sorry, I could not find anything."), zaptest.NewLogger(t), m)
	require.NoError(t, err)

	jobs, err := agent.Run(testContext(t), "jobs", "")
	require.NoError(t, err)
	assert.Empty(t, jobs)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractionFailures.WithLabelValues(record.JobOpportunityName)))
}

func TestJobSearchUpstreamFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	agent, err := NewJobSearch(testContext(t), aitest.NewWithReplies(aitest.Reply{Err: errors.New("timeout")}), nil, m)
	require.NoError(t, err)

	_, err = agent.Run(testContext(t), "jobs", "")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamFailures.WithLabelValues("job_search")))
}

func TestCommunityEventsRunFencedBlock(t *testing.T) {
	completion := "Here you go:\n```json\n[{\"title\":\"Women in Tech Meetup\",\"date\":\"2024-05-01\",\"location\":null,\"description\":\"Networking\",\"url\":null}]\n```"
	chatModel := aitest.New(completion)
	agent, err := NewCommunityEvents(testContext(t), chatModel, zaptest.NewLogger(t), nil)
	require.NoError(t, err)

	events, err := agent.Run(testContext(t), "any meetups?", "")
	require.NoError(t, err)

	assert.Equal(t, []record.CommunityEvent{{
		Title:       "Women in Tech Meetup",
		Date:        "2024-05-01",
		Description: "Networking",
	}}, events)
	assert.Contains(t, chatModel.Prompt(0), `"title", "date", "location", "description", and "url"`)
}

func TestMentorshipAnswer(t *testing.T) {
	chatModel := aitest.New("  Practice with mock interviews.  ")
	agent, err := NewMentorship(testContext(t), chatModel, zaptest.NewLogger(t), nil)
	require.NoError(t, err)

	window := []string{"User: hi", "Bot: hello", "User: How do I prepare for a technical interview?"}
	answer, err := agent.Answer(testContext(t), "How do I prepare for a technical interview?", window)
	require.NoError(t, err)

	assert.Equal(t, "Practice with mock interviews.", answer)
	assert.Equal(t,
		"Previous Chat History:\nUser: hi\nBot: hello\nUser: How do I prepare for a technical interview?\n"+
			"You are a helpful mentor for women. Provide a specific, concise, and actionable answer to the following query: "+
			"How do I prepare for a technical interview?",
		chatModel.Prompt(0),
	)
}

func TestMentorshipUpstreamFailure(t *testing.T) {
	agent, err := NewMentorship(testContext(t), aitest.NewWithReplies(aitest.Reply{Err: errors.New("503")}), nil, nil)
	require.NoError(t, err)

	_, err = agent.Answer(testContext(t), "help", nil)
	assert.ErrorIs(t, err, ErrUpstream)
}
