package prompts

import "strings"

const enhanceSpec = `Do not diagnose or provide medical advice. Only enhance the query.
Return only the enhanced query without explanations.`

const scoreSpec = `Return a single float value between 0.0 (high risk) and 1.0 (low risk).
Do not include any explanation or additional text.`

const respondSpec = `Always include appropriate disclaimers and encourage users to consult
with healthcare professionals for personalized advice. When attached file
summaries are listed after the question, take them into account.`

var specs = map[Stage]string{
	StageEnhance: enhanceSpec,
	StageScore:   scoreSpec,
	StageRespond: respondSpec,
}

// Spec returns the fixed output contract for a stage. Specs cannot be
// overridden; stage callers rely on them to parse the result.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}

// Compose joins instructions and spec into a single system prompt.
func Compose(instructions, spec string) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(instructions))
	sb.WriteString("\n\n")
	sb.WriteString(spec)
	return sb.String()
}
