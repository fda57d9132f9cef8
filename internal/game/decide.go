package game

import (
	"fmt"
	"strings"
)

// MaxQuestions is how many narrowing questions think mode asks before the
// AI has to conclude.
const MaxQuestions = 3

// FallbackDecision replaces an empty completion.
const FallbackDecision = "Go with your gut!"

// PromptKind selects which prompt the next AI turn uses.
type PromptKind string

const (
	PromptRandom   PromptKind = "random"
	PromptQuestion PromptKind = "think_question"
	PromptConclude PromptKind = "think_conclude"
)

const (
	randomSystemPrompt = "You are a fun, spontaneous decision maker. Never over-explain. No bullet points. No caveats. No mentioning randomness or AI."
	thinkSystemPrompt  = `You are a direct, no-nonsense decision helper. Never over-explain. No bullet points. No preambles like "Based on" or "Considering". No caveats or alternatives. Be a decisive friend who just tells it straight.`
)

// NextPrompt returns the kind of the next AI turn.
func (d *DecideState) NextPrompt() PromptKind {
	if d.Mode == ModeRandom {
		return PromptRandom
	}
	if d.AITurns() >= MaxQuestions {
		return PromptConclude
	}
	return PromptQuestion
}

// AwaitingAnswer reports whether think mode is waiting for the user to
// answer the last AI question.
func (d *DecideState) AwaitingAnswer() bool {
	if d.Mode != ModeThink || d.Done() || d.Loading || len(d.Transcript) == 0 {
		return false
	}
	return d.Transcript[len(d.Transcript)-1].Role == RoleAI
}

// BuildPrompt renders the prompt and system prompt for the next AI turn.
// The accumulated transcript is always part of the prompt in think mode.
func BuildPrompt(kind PromptKind, d *DecideState) (prompt, system string) {
	options := strings.Join(d.Options, ", ")

	if kind == PromptRandom {
		prompt = fmt.Sprintf("%q\nChoices: %s\n\nPick one. Give a fun, confident one-sentence answer that sounds like a friend making the call.",
			d.Question, options)
		return prompt, randomSystemPrompt
	}

	var chat strings.Builder
	for i, t := range d.Transcript {
		if i > 0 {
			chat.WriteString("\n")
		}
		speaker := "User"
		if t.Role == RoleAI {
			speaker = "You"
		}
		fmt.Fprintf(&chat, "%s: %s", speaker, t.Text)
	}

	if kind == PromptConclude {
		prompt = fmt.Sprintf("Dilemma: %q\nChoices: %s\n\nConversation:\n%s\n\nGive your final answer in ONE sentence. Pick one specific option from the choices. Be decisive, confident, and say something the user wants to hear.",
			d.Question, options, chat.String())
		return prompt, thinkSystemPrompt
	}

	soFar := ""
	if chat.Len() > 0 {
		soFar = "\nSo far:\n" + chat.String() + "\n"
	}
	prompt = fmt.Sprintf("Dilemma: %q\nChoices: %s\n%s\nAsk ONE short question (max 8 words) to help narrow it down. Just the question, nothing else.",
		d.Question, options, soFar)
	return prompt, thinkSystemPrompt
}
