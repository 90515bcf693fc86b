package model

import "time"

// followUpOffsets maps the follow-up stage just completed to the wait before
// the next automatic contact. Stage 4 is terminal: no entry, no schedule.
var followUpOffsets = map[int]time.Duration{
	0: 24 * time.Hour,
	1: 2 * 24 * time.Hour,
	2: 4 * 24 * time.Hour,
	3: 7 * 24 * time.Hour,
}

// NextFollowUp returns the next eligible contact instant for a lead that
// just completed the given stage at lastContact. The second return is false
// when no further automatic follow-up is scheduled.
func NextFollowUp(stage int, lastContact time.Time) (time.Time, bool) {
	offset, ok := followUpOffsets[stage]
	if !ok {
		return time.Time{}, false
	}
	return lastContact.Add(offset), true
}
