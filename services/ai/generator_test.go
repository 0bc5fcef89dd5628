package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahilchouksey/study-planner/utils/apperror"
)

var ctx = context.Background()

// fakeCompletionServer answers every chat completion with reply and records
// the last user prompt.
func fakeCompletionServer(t *testing.T, status int, reply string, lastPrompt *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if lastPrompt != nil && len(req.Messages) == 2 {
			*lastPrompt = req.Messages[1].Content
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(reply))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": reply}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestGenerator(srv *httptest.Server) *Generator {
	client := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL, Timeout: 5 * time.Second})
	now := time.Date(2025, time.March, 12, 9, 0, 0, 0, time.UTC)
	return NewGenerator(client, func() time.Time { return now })
}

func TestGenerateQuestions_DefaultsAndParsing(t *testing.T) {
	var prompt string
	reply := "```json\n[{\"question\":\"2+2?\",\"options\":[\"3\",\"4\",\"5\",\"6\"],\"correctAnswer\":1}]\n```"
	srv := fakeCompletionServer(t, http.StatusOK, reply, &prompt)

	questions, err := newTestGenerator(srv).GenerateQuestions(ctx, QuestionRequest{Subject: "Maths", Topic: "Addition"})
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, 1, questions[0].CorrectAnswer)

	assert.Contains(t, prompt, "Generate 5 multiple-choice questions")
	assert.Contains(t, prompt, `"Class 10"`)
	assert.Contains(t, prompt, "Difficulty: medium.")
}

func TestGenerateQuestions_MalformedReply(t *testing.T) {
	srv := fakeCompletionServer(t, http.StatusOK, `[{"question":"?","options":["a","b"],"correctAnswer":0}]`, nil)

	_, err := newTestGenerator(srv).GenerateQuestions(ctx, QuestionRequest{Subject: "Maths", Topic: "Sets"})
	assert.True(t, apperror.Is(err, apperror.KindUpstreamFailure))
}

func TestGenerateQuestions_Validation(t *testing.T) {
	_, err := NewGenerator(nil, nil).GenerateQuestions(ctx, QuestionRequest{Subject: "Maths"})
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))
}

func TestGenerateStudyPlan(t *testing.T) {
	var prompt string
	reply := `Here is the plan: [{"date":"2025-03-13","subject":"Physics","topic":"Optics","duration":2}]`
	srv := fakeCompletionServer(t, http.StatusOK, reply, &prompt)

	plan, err := newTestGenerator(srv).GenerateStudyPlan(ctx, PlanRequest{
		Subjects: []string{"Physics", "Maths"}, AvailableHours: 3.5, ExamDate: "2025-04-01",
	})
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "Optics", plan[0].Topic)

	assert.Contains(t, prompt, "Subjects: Physics, Maths.")
	assert.Contains(t, prompt, "Available study hours per day: 3.5.")
	assert.Contains(t, prompt, "Today's date: 2025-03-12.")
}

func TestGenerator_UpstreamErrors(t *testing.T) {
	srv := fakeCompletionServer(t, http.StatusUnauthorized, `{"error":{"message":"bad key","code":"invalid_api_key"}}`, nil)

	_, err := newTestGenerator(srv).GenerateStudyPlan(ctx, PlanRequest{Subjects: []string{"Art"}, AvailableHours: 1})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindUpstreamFailure))
	assert.True(t, strings.Contains(err.Error(), "Invalid OpenAI API Key"))
}

func TestGenerator_NotConfigured(t *testing.T) {
	gen := NewGenerator(nil, nil)
	assert.False(t, gen.Configured())

	_, err := gen.GenerateStudyPlan(ctx, PlanRequest{Subjects: []string{"Art"}, AvailableHours: 1})
	assert.True(t, apperror.Is(err, apperror.KindUpstreamFailure))
	assert.True(t, IsNotConfigured(err))
}
