package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/irs990"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// maxPromptTokens caps the prompt at the model's context window.
const maxPromptTokens = 1_000_000

// Ensure Asker implements irs990.Asker at compile time.
var _ irs990.Asker = (*Asker)(nil)

// Asker implements irs990.Asker using Google Gemini.
type Asker struct {
	client  *genai.Client
	filings irs990.SavedFilingService
	counter irs990.TokenCounter
}

// NewAsker creates a new Asker. counter may be nil, in which case the
// prompt size is not checked before sending.
func NewAsker(client *genai.Client, filings irs990.SavedFilingService, counter irs990.TokenCounter) *Asker {
	return &Asker{client: client, filings: filings, counter: counter}
}

// Ask answers a natural language question about the saved filings.
func (a *Asker) Ask(ctx context.Context, question string) (string, error) {
	if question == "" {
		return "", irs990.Errorf(irs990.EINVALID, "question required")
	}

	saved, err := a.filings.FindSavedFilings(ctx, irs990.SavedFilingFilter{})
	if err != nil {
		return "", err
	}
	if len(saved) == 0 {
		return "", irs990.Errorf(irs990.ENOTFOUND, "no saved filings to ask about")
	}

	prompt := BuildUserPrompt(saved, question)
	config := BuildConfig()

	if a.counter != nil {
		if tokens, err := a.counter.CountTokens(ctx, prompt); err == nil && tokens > maxPromptTokens {
			return "", irs990.Errorf(irs990.EINVALID, "saved filings exceed the model context (%d tokens)", tokens)
		}
	}

	result, err := a.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", irs990.Errorf(irs990.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a helpful assistant answering questions about U.S. nonprofit tax filings (IRS Form 990). Answer based only on the filing fields provided. If the answer is not in the data, say so.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing the saved filings and
// the question.
func BuildUserPrompt(saved []*irs990.SavedFiling, question string) string {
	var sb strings.Builder
	sb.WriteString("<filings>\n")
	sb.WriteString(irs990.FormatSavedFilings(saved))
	sb.WriteString("\n</filings>\n\n")
	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}
