package stages

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/caregate/internal/prompts"
)

var (
	highRiskTerms   = []string{"emergency", "severe", "extreme", "dying", "suicide"}
	mediumRiskTerms = []string{"pain", "chronic", "symptoms", "medication"}
)

// MockBackend answers deterministically without any network call. It is the
// default provider so the service runs offline.
type MockBackend struct{}

func (MockBackend) Complete(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text := lastUserMessage(req.Messages)

	switch req.Stage {
	case prompts.StageEnhance:
		return fmt.Sprintf("Enhanced: %s (with additional medical context and terminology)", text), nil
	case prompts.StageScore:
		return mockScore(text), nil
	case prompts.StageRespond:
		return mockRespond(text), nil
	default:
		return "", fmt.Errorf("mock backend: unknown stage %q", req.Stage)
	}
}

func mockScore(text string) string {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, highRiskTerms):
		return "0.2"
	case containsAny(lower, mediumRiskTerms):
		return "0.6"
	default:
		return "0.8"
	}
}

func mockRespond(text string) string {
	question, attachments, _ := strings.Cut(text, attachmentsHeader)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Response to: %s\n\n", strings.TrimSpace(question))
	sb.WriteString("Based on your query, here is some general medical information that might be helpful. ")
	sb.WriteString("Please note that this information is not a substitute for professional medical advice, ")
	sb.WriteString("diagnosis, or treatment. Always seek the advice of your physician or other qualified ")
	sb.WriteString("health provider with any questions you may have regarding a medical condition.")

	if attachments = strings.TrimSpace(attachments); attachments != "" {
		sb.WriteString("\n\nRegarding the information in your attached files:\n")
		for line := range strings.SplitSeq(attachments, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				fmt.Fprintf(&sb, "- %s\n", line)
			}
		}
	}

	return sb.String()
}

func lastUserMessage(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
