package intent

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/careercompass/backend/internal/service/ai/aitest"
)

func TestRoute(t *testing.T) {
	cases := map[string]Intent{
		"Job Opportunities":                      JobOpportunities,
		"1. JOB OPPORTUNITIES":                   JobOpportunities,
		"jobs":                                   JobOpportunities,
		"Community Events":                       CommunityEvents,
		"events":                                 CommunityEvents,
		"community":                              CommunityEvents,
		"Mentorship Programs":                    MentorshipPrograms,
		"mentorship":                             MentorshipPrograms,
		"Unrelated":                              Unknown,
		"":                                       Unknown,
		"Job Opportunities or Community Events":  JobOpportunities,
		"Mentorship Programs (job interview)":    JobOpportunities,
		"Community Events / Mentorship Programs": CommunityEvents,
	}

	for label, want := range cases {
		assert.Equal(t, want, Route(label), label)
	}
}

func TestRouteJobAlwaysWins(t *testing.T) {
	for _, label := range []string{
		"job", "JOB community", "mentorship job", "event, community, mentorship, Job",
		"Community jobs fair",
	} {
		assert.Equal(t, JobOpportunities, Route(label), label)
	}
}

func TestClassifyReturnsTrimmedLabel(t *testing.T) {
	chatModel := aitest.New("  Mentorship Programs\n")
	classifier, err := NewClassifier(testContext(t), chatModel, zaptest.NewLogger(t))
	require.NoError(t, err)

	label, err := classifier.Classify(testContext(t), "How do I prepare for a technical interview?")
	require.NoError(t, err)

	assert.Equal(t, "Mentorship Programs", label)
	require.Equal(t, 1, chatModel.Calls())

	prompt := chatModel.Prompt(0)
	assert.Contains(t, prompt, "1. Job Opportunities, 2. Mentorship Programs, 3. Community Events")
	assert.Contains(t, prompt, "If the user asks for any resources, guidance, or preparation materials, classify it as 'Mentorship Programs'")
	assert.Contains(t, prompt, "How do I prepare for a technical interview?")
}

func TestClassifyFailures(t *testing.T) {
	cases := map[string]aitest.Reply{
		"model error": {Err: errors.New("503 from upstream")},
		"blank":       {Content: "   "},
	}

	for name, reply := range cases {
		t.Run(name, func(t *testing.T) {
			classifier, err := NewClassifier(testContext(t), aitest.NewWithReplies(reply), zaptest.NewLogger(t))
			require.NoError(t, err)

			_, err = classifier.Classify(testContext(t), "anything")
			assert.ErrorIs(t, err, ErrClassification)
		})
	}
}
