package model

// Intent is the classified meaning of an inbound reply. Classification is an
// external collaborator; unknown labels collapse to IntentUnknown and never
// change lead status.
type Intent string

const (
	IntentInterested    Intent = "interested"
	IntentQuestion      Intent = "question"
	IntentNotInterested Intent = "not_interested"
	IntentWrongPerson   Intent = "wrong_person"
	IntentOptOut        Intent = "opt_out"
	IntentUnknown       Intent = "unknown"
)

// Canonical maps any label onto a known intent, defaulting to unknown.
func (i Intent) Canonical() Intent {
	switch i {
	case IntentInterested, IntentQuestion, IntentNotInterested, IntentWrongPerson, IntentOptOut:
		return i
	}
	return IntentUnknown
}

// SignalsInterest reports whether the intent moves the lead off the
// automatic follow-up path and into human hands.
func (i Intent) SignalsInterest() bool {
	return i == IntentInterested || i == IntentQuestion
}
