// Package intent classifies inbound replies. Two providers: a deterministic
// keyword matcher (the default) and a webhook that defers to an external
// classifier. Both degrade to the unknown intent rather than guessing.
package intent

import (
	"context"
	"strings"

	"github.com/sells-group/recovery-cli/internal/model"
)

// Keyword is a deterministic rule-based classifier. First match wins,
// suppression keywords checked before everything else.
type Keyword struct{}

// NewKeyword creates the keyword classifier.
func NewKeyword() *Keyword { return &Keyword{} }

var keywordRules = []struct {
	intent model.Intent
	words  []string
}{
	{model.IntentOptOut, []string{"stop", "unsubscribe", "remove me", "do not contact", "dont contact", "opt out"}},
	{model.IntentWrongPerson, []string{"wrong number", "wrong person", "not me", "who is this", "don't know what"}},
	{model.IntentNotInterested, []string{"not interested", "no thanks", "no thank you", "leave me alone"}},
	{model.IntentInterested, []string{"yes", "interested", "tell me more", "sounds good", "call me", "how much"}},
	{model.IntentQuestion, []string{"what", "how", "when", "where", "why", "?"}},
}

// ClassifyIntent labels the reply text. Never errors.
func (k *Keyword) ClassifyIntent(_ context.Context, text string) (model.Intent, error) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return model.IntentUnknown, nil
	}
	for _, rule := range keywordRules {
		for _, w := range rule.words {
			if strings.Contains(normalized, w) {
				return rule.intent, nil
			}
		}
	}
	return model.IntentUnknown, nil
}
