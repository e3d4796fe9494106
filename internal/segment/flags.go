package segment

import "strings"

// emotionalMarkers are keywords whose presence flags emotional content
var emotionalMarkers = []string{
	"felt", "feeling", "emotion", "excited", "frustrated", "happy", "sad",
	"angry", "surprised", "worried", "relieved", "proud", "ashamed",
	"love", "hate", "fear", "joy", "anxiety", "confidence", "doubt",
}

// causalMarkers are connectives whose presence flags causal reasoning
var causalMarkers = []string{
	"because", "therefore", "thus", "consequently", "as a result",
	"due to", "caused by", "led to", "resulted in", "since", "so",
	"reason", "explanation", "why", "how", "when", "if then",
}

// HasEmotionalContent reports whether the content matches the
// emotion-word list
func HasEmotionalContent(content string) bool {
	return containsAny(content, emotionalMarkers)
}

// HasCausalReasoning reports whether the content matches the
// causal-connective list
func HasCausalReasoning(content string) bool {
	return containsAny(content, causalMarkers)
}

func containsAny(content string, markers []string) bool {
	lower := strings.ToLower(content)
	for _, marker := range markers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
