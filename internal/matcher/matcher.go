// Package matcher implements the golden-lead engine: fuzzy cross-referencing
// of unclaimed-funds records against distressed-property records to surface
// compound opportunities where one person holds both.
package matcher

import (
	"sort"

	"github.com/sells-group/recovery-cli/internal/config"
	"github.com/sells-group/recovery-cli/internal/model"
	"github.com/sells-group/recovery-cli/internal/normalize"
)

// Matcher cross-references two record sets. Read-only over its inputs and
// deterministic given identical inputs; safe to run concurrently over
// disjoint shards.
type Matcher struct {
	cfg config.MatcherConfig
}

// New creates a Matcher with the given config.
func New(cfg config.MatcherConfig) *Matcher {
	return &Matcher{cfg: cfg}
}

// namedVariant is one normalized name variant of a record.
type namedVariant struct {
	raw    string
	tokens []string
	set    map[string]bool
}

func variantsOf(names ...string) []namedVariant {
	var out []namedVariant
	for _, n := range names {
		toks := normalize.Tokens(n)
		if len(toks) == 0 {
			continue
		}
		set := make(map[string]bool, len(toks))
		for _, t := range toks {
			set[t] = true
		}
		out = append(out, namedVariant{raw: n, tokens: toks, set: set})
	}
	return out
}

// Match compares every funds record against every property record and
// returns candidates ranked by combined value. Listing statuses are an
// externally supplied signal keyed by property ID; the matcher never fetches
// them. Empty inputs yield an empty result; records with no usable name are
// skipped without aborting the pass.
func (m *Matcher) Match(funds []model.FundsRecord, props []model.PropertyRecord, listings map[string]model.ListingStatus) []model.MatchCandidate {
	minLen := m.cfg.MinLastTokenLen
	if minLen <= 0 {
		minLen = 4
	}

	// Pre-normalize the property side once.
	type propEntry struct {
		rec      *model.PropertyRecord
		variants []namedVariant
	}
	entries := make([]propEntry, 0, len(props))
	for i := range props {
		v := variantsOf(props[i].OwnerName, props[i].Borrower)
		if len(v) == 0 {
			continue
		}
		entries = append(entries, propEntry{rec: &props[i], variants: v})
	}

	best := make(map[string]model.MatchCandidate)
	for i := range funds {
		fv := variantsOf(funds[i].OwnerName, funds[i].CoOwner)
		if len(fv) == 0 {
			continue
		}
		for _, pe := range entries {
			cand, ok := m.compare(&funds[i], pe.rec, fv, pe.variants, minLen)
			if !ok {
				continue
			}
			if ls, found := listings[pe.rec.ID]; found {
				cand.ListingStatus = ls
			} else {
				cand.ListingStatus = model.ListingUnknown
			}
			// Dedupe by record pair, keeping the highest-confidence instance.
			if prev, dup := best[cand.Key()]; dup && prev.Confidence.AtLeast(cand.Confidence) {
				continue
			}
			best[cand.Key()] = cand
		}
	}

	out := make([]model.MatchCandidate, 0, len(best))
	for _, c := range best {
		out = append(out, c)
	}
	// Rank by combined value; tiebreak on the pair key so identical inputs
	// always produce identical order.
	sort.Slice(out, func(i, j int) bool {
		if out[i].CombinedValue != out[j].CombinedValue {
			return out[i].CombinedValue > out[j].CombinedValue
		}
		return out[i].Key() < out[j].Key()
	})
	return out
}

// compare evaluates one funds/property pair across all name variants and
// returns the best candidate, if any variant pair links them.
func (m *Matcher) compare(f *model.FundsRecord, p *model.PropertyRecord, fvs, pvs []namedVariant, minLen int) (model.MatchCandidate, bool) {
	var (
		found bool
		conf  model.Confidence
		name  string
	)

	for _, fv := range fvs {
		last := fv.tokens[len(fv.tokens)-1]
		if len(last) < minLen {
			continue
		}
		for _, pv := range pvs {
			// Last-token overlap is the emission gate.
			if !pv.set[last] {
				continue
			}
			c := model.ConfidenceMedium
			if len(fv.tokens) == 1 || multiTokenOverlap(fv, pv, last) {
				c = model.ConfidenceHigh
			}
			if !found || c.AtLeast(conf) && c != conf {
				found, conf, name = true, c, fv.raw
			}
		}
	}
	if !found {
		return model.MatchCandidate{}, false
	}

	return model.MatchCandidate{
		FundsID:       f.ID,
		PropertyID:    p.ID,
		Confidence:    conf,
		CombinedValue: p.Equity() + f.Amount,
		MatchedName:   name,
	}, true
}

// multiTokenOverlap reports whether the variants share at least one token
// beyond the last-name token.
func multiTokenOverlap(a, b namedVariant, last string) bool {
	for _, t := range a.tokens {
		if t == last {
			continue
		}
		if b.set[t] {
			return true
		}
	}
	return false
}
