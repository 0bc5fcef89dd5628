package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahilchouksey/study-planner/utils/apperror"
)

func TestKeywordResponder_FirstMatchWins(t *testing.T) {
	r := NewKeywordResponder()

	assert.True(t, strings.HasPrefix(r.Answer("What is a DERIVATIVE?"), "To find the derivative"))
	assert.True(t, strings.HasPrefix(r.Answer("Explain Newton and energy"), "Newton's laws of motion"))
	// "physics" contains "ph", so the acid/base rule fires before study tips
	assert.True(t, strings.HasPrefix(r.Answer("how to study physics"), "pH measures"))
	assert.True(t, strings.HasPrefix(r.Answer("Give me study tips"), "Effective study tips"))
}

func TestKeywordResponder_FallbackEchoesQuestion(t *testing.T) {
	r := NewKeywordResponder()

	short := r.Answer("Why is the sky blue?")
	assert.Contains(t, short, "Here's what I understand: Why is the sky blue?...")

	long := strings.Repeat("x", 80)
	assert.Contains(t, r.Answer(long), strings.Repeat("x", 50)+"...")
	assert.NotContains(t, r.Answer(long), strings.Repeat("x", 51))
}

type stubCompleter struct {
	reply string
	err   error
}

func (s stubCompleter) Complete(context.Context, string, string) (string, error) {
	return s.reply, s.err
}

func TestAIResponder_FallsBack(t *testing.T) {
	answer, err := NewAIResponder(stubCompleter{reply: " Light scatters. "}, nil).Respond(ctx, "sky?")
	require.NoError(t, err)
	assert.Equal(t, "Light scatters.", answer)

	answer, err = NewAIResponder(stubCompleter{err: errors.New("quota")}, nil).Respond(ctx, "loop help")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(answer, "Loops allow repeated execution"))

	answer, err = NewAIResponder(nil, nil).Respond(ctx, "integral of x")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(answer, "Integration is the reverse"))
}

func TestAskDoubt(t *testing.T) {
	db := newTestDB(t)
	svc := NewDoubtService(db, nil)
	user := createUser(t, db, "doubt@example.com")
	other := createUser(t, db, "other@example.com")
	subject := createSubject(t, db, user.ID, "Physics", fixedNow)

	_, err := svc.AskDoubt(ctx, user.ID, "   ", nil)
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))

	_, err = svc.AskDoubt(ctx, other.ID, "force?", &subject.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	doubt, err := svc.AskDoubt(ctx, user.ID, "What is force?", &subject.ID)
	require.NoError(t, err)
	assert.NotZero(t, doubt.ID)
	require.NotNil(t, doubt.SubjectID)
	assert.Equal(t, subject.ID, *doubt.SubjectID)
	assert.Nil(t, doubt.Helpful)
	assert.True(t, strings.HasPrefix(doubt.AIResponse, "Newton's laws"))

	general, err := svc.AskDoubt(ctx, user.ID, "Any tips?", nil)
	require.NoError(t, err)
	assert.Nil(t, general.SubjectID)
}

func TestDoubtHistoryAndFeedback(t *testing.T) {
	db := newTestDB(t)
	svc := NewDoubtService(db, nil)
	user := createUser(t, db, "hist@example.com")
	other := createUser(t, db, "other@example.com")

	first, err := svc.AskDoubt(ctx, user.ID, "first", nil)
	require.NoError(t, err)
	second, err := svc.AskDoubt(ctx, user.ID, "second", nil)
	require.NoError(t, err)
	_, err = svc.AskDoubt(ctx, other.ID, "not mine", nil)
	require.NoError(t, err)

	history, err := svc.History(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)

	updated, err := svc.SetFeedback(ctx, user.ID, first.ID, true)
	require.NoError(t, err)
	require.NotNil(t, updated.Helpful)
	assert.True(t, *updated.Helpful)

	updated, err = svc.SetFeedback(ctx, user.ID, first.ID, false)
	require.NoError(t, err)
	require.NotNil(t, updated.Helpful)
	assert.False(t, *updated.Helpful)

	_, err = svc.SetFeedback(ctx, other.ID, first.ID, true)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
