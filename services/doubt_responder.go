package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
)

// Responder answers a student's free-text question
type Responder interface {
	Respond(ctx context.Context, question string) (string, error)
}

// KeywordRule answers when any of its keywords occurs in the question
type KeywordRule struct {
	Keywords []string
	Answer   string
}

// Matches reports a case-insensitive substring hit on any keyword
func (r KeywordRule) Matches(lowerQuestion string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(lowerQuestion, kw) {
			return true
		}
	}
	return false
}

// KeywordResponder walks its rules in order; the first match wins
type KeywordResponder struct {
	Rules []KeywordRule
}

// NewKeywordResponder returns a responder loaded with the built-in rule set
func NewKeywordResponder() *KeywordResponder {
	return &KeywordResponder{Rules: DefaultKeywordRules()}
}

// Respond never fails
func (k *KeywordResponder) Respond(_ context.Context, question string) (string, error) {
	return k.Answer(question), nil
}

// Answer returns the canned reply for question
func (k *KeywordResponder) Answer(question string) string {
	lower := strings.ToLower(question)
	for _, rule := range k.Rules {
		if rule.Matches(lower) {
			return rule.Answer
		}
	}
	return fallbackAnswer(question)
}

// fallbackAnswer echoes the first 50 characters of the question
func fallbackAnswer(question string) string {
	excerpt := []rune(question)
	if len(excerpt) > 50 {
		excerpt = excerpt[:50]
	}
	return fmt.Sprintf(`Great question! Here's what I understand: %s... 

To help you better, I suggest:
1. Break down the problem into smaller parts
2. Review the fundamental concepts related to this topic
3. Look for similar solved examples in your textbook
4. Practice related problems to strengthen understanding

If you need more specific help, try rephrasing your question with more context about what you're struggling with.`, string(excerpt))
}

// DefaultKeywordRules is the built-in rule set, in match order
func DefaultKeywordRules() []KeywordRule {
	return []KeywordRule{
		{
			Keywords: []string{"derivative", "differentiation"},
			Answer:   "To find the derivative, use the power rule: d/dx(x^n) = n*x^(n-1). For example, the derivative of x² is 2x. For more complex functions, apply the chain rule, product rule, or quotient rule as needed.",
		},
		{
			Keywords: []string{"integration", "integral"},
			Answer:   "Integration is the reverse of differentiation. The basic rule is ∫x^n dx = (x^(n+1))/(n+1) + C, where C is the constant of integration. Remember to add the constant C for indefinite integrals.",
		},
		{
			Keywords: []string{"newton", "force"},
			Answer:   "Newton's laws of motion: 1) An object remains at rest or in uniform motion unless acted upon by a force. 2) F = ma (Force equals mass times acceleration). 3) For every action, there's an equal and opposite reaction.",
		},
		{
			Keywords: []string{"energy", "kinetic"},
			Answer:   "Kinetic Energy (KE) = ½mv², where m is mass and v is velocity. Potential Energy (PE) = mgh, where g is gravitational acceleration and h is height. Total mechanical energy is conserved in the absence of friction.",
		},
		{
			Keywords: []string{"periodic table", "element"},
			Answer:   "The periodic table organizes elements by atomic number. Elements in the same group (column) have similar chemical properties. The table is divided into metals, non-metals, and metalloids.",
		},
		{
			Keywords: []string{"acid", "base", "ph"},
			Answer:   "pH measures acidity/basicity on a scale of 0-14. pH < 7 is acidic, pH = 7 is neutral, pH > 7 is basic. Acids donate H+ ions, bases accept H+ ions. Common acids: HCl, H₂SO₄. Common bases: NaOH, KOH.",
		},
		{
			Keywords: []string{"loop", "iteration"},
			Answer:   "Loops allow repeated execution of code. For loop: used when you know the number of iterations. While loop: used when the condition is checked before execution. Do-while: condition checked after execution. Choose based on your specific needs.",
		},
		{
			Keywords: []string{"array", "list"},
			Answer:   "Arrays/Lists store multiple values in a single variable. Access elements using index (starting from 0). Common operations: add, remove, search, sort. Time complexity varies by operation and data structure.",
		},
		{
			Keywords: []string{"how to study", "study tips"},
			Answer:   "Effective study tips: 1) Use active recall instead of passive reading. 2) Practice spaced repetition. 3) Take regular breaks (Pomodoro technique). 4) Teach concepts to others. 5) Create mind maps. 6) Practice with past papers.",
		},
	}
}

// TextCompleter is the slice of the AI generator the doubt responder needs
type TextCompleter interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

const doubtSystemPrompt = "You are a patient tutor. Answer the student's question clearly in under 150 words."

// AIResponder asks a language model and falls back to another responder
// when the model is unavailable or fails.
type AIResponder struct {
	completer TextCompleter
	fallback  Responder
}

// NewAIResponder creates an AI-backed responder
func NewAIResponder(completer TextCompleter, fallback Responder) *AIResponder {
	if fallback == nil {
		fallback = NewKeywordResponder()
	}
	return &AIResponder{completer: completer, fallback: fallback}
}

// Respond prefers the model answer
func (a *AIResponder) Respond(ctx context.Context, question string) (string, error) {
	if a.completer != nil {
		answer, err := a.completer.Complete(ctx, doubtSystemPrompt, question)
		if err == nil && strings.TrimSpace(answer) != "" {
			return strings.TrimSpace(answer), nil
		}
		if err != nil {
			log.Warnf("doubt responder: AI completion failed, using fallback: %v", err)
		}
	}
	return a.fallback.Respond(ctx, question)
}
