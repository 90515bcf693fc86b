package intent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/recovery-cli/internal/model"
)

func TestKeywordClassify(t *testing.T) {
	tests := []struct {
		text string
		want model.Intent
	}{
		{"STOP", model.IntentOptOut},
		{"please unsubscribe me", model.IntentOptOut},
		{"do not contact me again", model.IntentOptOut},
		{"you have the wrong number", model.IntentWrongPerson},
		{"that's not me", model.IntentWrongPerson},
		{"not interested, thanks", model.IntentNotInterested},
		{"no thanks", model.IntentNotInterested},
		{"Yes, tell me more", model.IntentInterested},
		{"how much does it cost", model.IntentInterested},
		{"call me tomorrow", model.IntentInterested},
		{"when did you find this?", model.IntentQuestion},
		{"is this legit?", model.IntentQuestion},
		{"asdfgh", model.IntentUnknown},
		{"", model.IntentUnknown},
		{"   ", model.IntentUnknown},
	}

	k := NewKeyword()
	for _, tt := range tests {
		got, err := k.ClassifyIntent(context.Background(), tt.text)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "text %q", tt.text)
	}
}

func TestKeywordOptOutWinsOverInterest(t *testing.T) {
	// Suppression keywords are checked before everything else, so a message
	// containing both reads as an opt-out.
	k := NewKeyword()
	got, err := k.ClassifyIntent(context.Background(), "yes I was interested but please stop texting")
	require.NoError(t, err)
	assert.Equal(t, model.IntentOptOut, got)
}
