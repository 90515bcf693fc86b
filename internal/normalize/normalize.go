// Package normalize canonicalizes free-text owner names and addresses into
// comparable token sets. One rule set, used by every matching pass.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// suffixTokens lists honorific and entity tokens dropped during
// normalization. Two-letter forms (JR, SR, II, IV, ET, AL) fall out of the
// minimum-length rule and need no entry here.
var suffixTokens = map[string]bool{
	"III":          true,
	"ESTATE":       true,
	"TRUSTEE":      true,
	"TRUST":        true,
	"LLC":          true,
	"INC":          true,
	"INCORPORATED": true,
	"CORP":         true,
	"CORPORATION":  true,
	"LTD":          true,
	"LIMITED":      true,
	"PLLC":         true,
	"DBA":          true,
	"HEIRS":        true,
	"AKA":          true,
	"FKA":          true,
}

// foldDiacritics strips combining marks so "José" and "Jose" tokenize alike.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Tokens canonicalizes a raw name or address into comparable tokens:
// uppercase, diacritics folded, non-alphabetic characters stripped,
// honorific/entity suffixes removed, tokens of length <= 2 dropped.
// Idempotent: Tokens(strings.Join(Tokens(x), " ")) equals Tokens(x).
// No side effects, no I/O.
func Tokens(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	folded, _, err := transform.String(foldDiacritics, raw)
	if err != nil {
		folded = raw
	}
	folded = strings.ToUpper(folded)

	// Replace anything non-alphabetic with a space so "Smith, John" and
	// "O'Brien" split cleanly.
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	var tokens []string
	seen := make(map[string]bool)
	for _, tok := range strings.Fields(b.String()) {
		// Tokens of length <= 2 are initials and noise, never match keys.
		if len(tok) <= 2 || suffixTokens[tok] {
			continue
		}
		if seen[tok] {
			continue
		}
		seen[tok] = true
		tokens = append(tokens, tok)
	}
	return tokens
}

// Name returns the canonical single-string form: tokens joined by a space.
func Name(raw string) string {
	return strings.Join(Tokens(raw), " ")
}

// TokenSet returns the tokens of raw as a membership set.
func TokenSet(raw string) map[string]bool {
	toks := Tokens(raw)
	if len(toks) == 0 {
		return nil
	}
	set := make(map[string]bool, len(toks))
	for _, t := range toks {
		set[t] = true
	}
	return set
}

// LastToken returns the final token of raw, or "" when none survive
// normalization. For person names this is the surname in "First Last" order.
func LastToken(raw string) string {
	toks := Tokens(raw)
	if len(toks) == 0 {
		return ""
	}
	return toks[len(toks)-1]
}
