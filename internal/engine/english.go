package engine

import (
	"strings"

	"github.com/a2800276/porter"
)

// EnglishTier is the English detector's (C6) confidence tier, declared
// lowest confidence first, so a larger value means a stronger English
// signal. A single collapsed bool isn't enough for the restore
// arbiter (C7): its decision table only restores a VN-valid word at tier >=
// HasSuffix, not on any pattern match at all.
type EnglishTier int

const (
	EnNone EnglishTier = iota
	EnImpossibleBigram
	EnVowelPattern
	EnHasPrefix
	EnCodaCluster
	EnHasSuffix
	EnDoubleConsonant
	EnOnsetCluster
	EnCertain
)

// enCodaClusters are coda clusters that never occur in Vietnamese but are
// common in English (tier 5).
var enCodaClusters = []string{
	"ct", "ft", "ld", "lf", "lk", "lm", "lp", "lt", "nd", "nk", "nt",
	"pt", "rb", "rd", "rk", "rm", "rn", "rp", "rt", "sk", "sp", "st",
	"sh", "xt",
}

// enVowelPatterns are vowel bigrams that don't arise from a Telex modifier
// sequence and don't occur in Vietnamese nuclei (tier 7). ee/oo/eu/io are
// deliberately excluded: they're Telex's own circumflex/horn shorthand or
// legal VN diphthong fragments.
var enVowelPatterns = []string{"ea", "ou", "ei", "yo", "ae", "yi"}

// enSuffixes are English morphological suffixes with no Vietnamese reading
// (tier 4).
var enSuffixes = []string{
	"tion", "sion", "ness", "ment", "able", "ible", "ing", "ful", "ous", "ive",
}

// enConsonantBigrams are adjacent consonant pairs that never co-occur inside
// a single Vietnamese syllable (tier 8: "impossible consonant bigrams"),
// excluding pairs that are themselves legal onset/coda clusters (ch, gh, gi,
// kh, ng, ngh, nh, ph, qu, th, tr).
var enConsonantBigrams = []string{"ck", "dg", "mb", "mn", "pn", "ps", "gn", "kn", "wh", "tch"}

// enSpellingTrigrams are common English vowel-consonant-vowel spelling
// shapes (ore/are/…) that are not Vietnamese coda/nucleus combinations at
// all; folded into the weakest tier alongside enConsonantBigrams since, like
// them, they're a structural-but-low-confidence signal, not a named spec
// tier on their own.
var enSpellingTrigrams = []string{
	"ore", "are", "ase", "ile", "ure", "ife", "ose", "use", "ory", "ary", "ery",
}

// enWAsVowel are endings where 'w' functions as a vowel glide, which Telex
// never produces as a side effect of a Vietnamese transform. Folded into the
// weakest tier alongside enConsonantBigrams/enSpellingTrigrams.
var enWAsVowel = []string{"ew", "ow", "aw", "iew"}

// doubledConsonants flags English doubled-consonant spellings (tier 3) that
// Vietnamese orthography never uses. The aa/ee/oo Telex triggers are vowel
// pairs and so are not in this list.
var doubledConsonants = []string{"bb", "dd", "ff", "gg", "ll", "mm", "nn", "pp", "rr", "ss", "tt"}

// enPrefixes are common English prefixes absent from Vietnamese onsets
// (tier 6).
var enPrefixes = []string{"un", "re", "dis", "mis", "pre", "non", "over", "out"}

// englishTier runs the layered, dictionary-free heuristic over the user's
// raw ASCII keystrokes (C6) and returns the highest confidence tier any
// pattern matches. It never consults a word list: every tier is a
// structural pattern absent from Vietnamese phonotactics.
func englishTier(raw string) EnglishTier {
	lower := strings.ToLower(raw)
	switch {
	case tierCertain(lower):
		return EnCertain
	case tierOnsetCluster(lower):
		return EnOnsetCluster
	case tierDoubledConsonant(lower):
		return EnDoubleConsonant
	case tierSuffix(lower):
		return EnHasSuffix
	case tierCodaCluster(lower):
		return EnCodaCluster
	case tierPrefix(lower):
		return EnHasPrefix
	case tierVowelBigram(lower):
		return EnVowelPattern
	case tierConsonantBigram(lower), tierSpellingTrigram(lower), tierWAsVowel(lower), porterSignal(lower):
		return EnImpossibleBigram
	default:
		return EnNone
	}
}

// tierCertain flags onsets that are never legal Vietnamese initials (tier 1:
// f, j, z). 'w' is deliberately excluded even though it's also an invalid
// VN initial, because a leading 'w' is Telex's own vowel-shortcut trigger
// (w -> ư); the phonotactic validator, not this tier, is what judges whether
// a w-initial word is well-formed.
func tierCertain(lower string) bool {
	if lower == "" {
		return false
	}
	switch lower[0] {
	case 'f', 'j', 'z':
		return true
	}
	return false
}

func tierCodaCluster(lower string) bool {
	if len(lower) < 2 {
		return false
	}
	return hasSuffix(lower, enCodaClusters)
}

func tierVowelBigram(lower string) bool {
	return containsAny(lower, enVowelPatterns)
}

func tierSuffix(lower string) bool {
	return hasSuffix(lower, enSuffixes)
}

func tierConsonantBigram(lower string) bool {
	return containsAny(lower, enConsonantBigrams)
}

func tierSpellingTrigram(lower string) bool {
	return containsAny(lower, enSpellingTrigrams)
}

func tierWAsVowel(lower string) bool {
	return hasSuffix(lower, enWAsVowel)
}

func tierDoubledConsonant(lower string) bool {
	for _, pair := range doubledConsonants {
		if strings.Contains(lower, pair) {
			return true
		}
	}
	return false
}

func tierPrefix(lower string) bool {
	for _, p := range enPrefixes {
		if strings.HasPrefix(lower, p) && len(lower) > len(p) {
			return true
		}
	}
	return false
}

// tierOnsetCluster flags onset clusters that never start a Vietnamese
// syllable (bl, br, cl, cr, dr, fl, fr, gl, gr, pl, pr, sc, sl, sm, sn, sp,
// st, sw, tw, scr, spl, spr, str, thr).
var enOnsetClusters = []string{
	"bl", "br", "cl", "cr", "dr", "fl", "fr", "gl", "gr", "pl", "pr",
	"sc", "sl", "sm", "sn", "sp", "st", "sw", "tw", "scr", "spl", "spr", "str", "thr",
}

func tierOnsetCluster(lower string) bool {
	for _, c := range enOnsetClusters {
		if strings.HasPrefix(lower, c) {
			return true
		}
	}
	return false
}

// porterSignal reports whether the Porter stemmer strips a recognized
// English inflectional or derivational ending from raw. This is still
// pattern-based, not dictionary-based: the stemmer only knows suffix
// morphology, never whether the stem itself is a real word, so it adds
// no word list to the hot path. Words under 4 letters are skipped — the
// stemmer's rules are unreliable noise at that length.
func porterSignal(lower string) bool {
	if len(lower) < 4 {
		return false
	}
	stem, err := porter.Stem(lower)
	if err != nil {
		return false
	}
	return stem != lower
}

func hasSuffix(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
