package engine

import "strings"

// VNValidity is the outcome of validating a syllable's mark-aware skeleton
// against Vietnamese phonotactics (C5).
type VNValidity int

const (
	VNValid VNValidity = iota
	VNIncomplete                 // could still become valid with more keys
	VNImpossible                 // no further key can make this valid Vietnamese
)

// validOnsetClusters are the multi-letter syllable-initial clusters. Onset
// consonants are never mark-bearing, so these stay plain ASCII.
// Single-consonant onsets are checked against letterClass's lcMayInitial.
var validOnsetClusters = map[string]bool{
	"ch": true, "gh": true, "gi": true, "kh": true, "ng": true, "ngh": true,
	"nh": true, "ph": true, "qu": true, "th": true, "tr": true,
}

// validCodaClusters are the multi-letter syllable-final clusters.
var validCodaClusters = map[string]bool{
	"ch": true, "ng": true, "nh": true,
}

// validDiphthongs is the 29-entry table of legal two-vowel nuclei, keyed on
// the mark-aware (tone-stripped) rune spelling a nucleus actually composes
// to — "iê", "uơ", "ươ" etc. are real map keys here, not dead weight, because
// the skeleton callers pass in (see markedSkeleton) carries marks through.
var validDiphthongs = map[string]bool{
	"ai": true, "ao": true, "au": true, "ay": true,
	"eo": true, "eu": true,
	"ia": true, "iu": true,
	"oa": true, "oe": true, "oi": true,
	"ua": true, "ue": true, "ui": true, "uy": true,
	"uơ": true,
	"âu": true, "ây": true,
	"êu": true,
	"iê": true, "oă": true, "uâ": true, "uê": true, "uô": true, "ươ": true,
	"ưa": true, "ưi": true, "ưu": true, "yê": true,
}

// validTriphthongs is the 14-entry table of legal three-vowel nuclei.
var validTriphthongs = map[string]bool{
	"iêu": true, "yêu": true, "uyê": true, "oai": true, "oao": true,
	"oay": true, "oeo": true, "uai": true, "uao": true, "uay": true,
	"uyu": true, "ươi": true, "ươu": true, "uôi": true,
}

// spellingRules maps the onset actually typed to the onset required before
// certain nuclei: "c" must respell to "k" before i/e/ê, "ng" to "ngh" and
// "g" to "gh" before the same front vowels. Keyed on rune, not byte, since
// "ê" is a multi-byte UTF-8 sequence and a byte key can never match it.
var spellingRules = map[string]map[rune]string{
	"c":  {'i': "k", 'e': "k", 'ê': "k"},
	"g":  {'i': "gh", 'e': "gh", 'ê': "gh"},
	"ng": {'i': "ngh", 'e': "ngh", 'ê': "ngh"},
}

// stopCodas are the codas that force a sắc or nặng tone (checked tones).
var stopCodas = map[string]bool{"c": true, "ch": true, "p": true, "t": true}

// isVowelRune reports whether r is a Vietnamese nucleus vowel, in either its
// bare or marked (circumflex/horn/breve) form.
func isVowelRune(r rune) bool {
	switch r {
	case 'a', 'ă', 'â', 'e', 'ê', 'i', 'o', 'ô', 'ơ', 'u', 'ư', 'y':
		return true
	}
	return false
}

// syllableSkeleton is the mark-aware decomposition of a word-in-progress,
// used by the validator and the restore arbiter alike. Onset and coda are
// always plain ASCII consonants (marks only ever land on vowels, or on the
// onset 'd' as the single-rune 'đ'); nucleus may contain marked vowel runes.
type syllableSkeleton struct {
	onset   string
	nucleus []rune
	coda    string
}

// splitSkeleton parses a lowercase, mark-aware letter string into onset,
// nucleus, coda. It special-cases "gi" and "qu" as onsets whose trailing
// vowel-like letter (i, u) belongs to the onset, not the nucleus, per
// original_source's parse_syllable.
func splitSkeleton(s string) syllableSkeleton {
	runes := []rune(s)
	i := 0
	for i < len(runes) && !isVowelRune(runes[i]) {
		i++
	}
	onset := string(runes[:i])
	// "gi"/"qu" + another vowel: the trailing i/u belongs to the onset, not
	// the nucleus (giường, quốc), matching parse_syllable's special-casing.
	if strings.HasPrefix(s, "gi") && len(runes) > 2 && isVowelRune(runes[2]) {
		onset = "gi"
		i = 2
	} else if strings.HasPrefix(s, "qu") && len(runes) > 2 && isVowelRune(runes[2]) {
		onset = "qu"
		i = 2
	}
	j := i
	for j < len(runes) && isVowelRune(runes[j]) {
		j++
	}
	nucleus := append([]rune(nil), runes[i:j]...)
	coda := string(runes[j:])
	return syllableSkeleton{onset: onset, nucleus: nucleus, coda: coda}
}

// validateOnset checks a single or clustered onset for legality.
func validateOnset(onset string) VNValidity {
	if onset == "" {
		return VNValid
	}
	runes := []rune(onset)
	if len(runes) == 1 {
		r := runes[0]
		if r == 'đ' {
			// the struck d: same initial-consonant class as plain 'd'.
			return VNValid
		}
		if r < 'a' || r > 'z' {
			return VNImpossible
		}
		c := byte(r)
		if letterClass[c-'a']&lcMayInitial != 0 {
			return VNValid
		}
		if c == 'f' || c == 'j' || c == 'z' || c == 'w' {
			return VNImpossible
		}
		return VNValid
	}
	lower := strings.ToLower(onset)
	if validOnsetClusters[lower] {
		return VNValid
	}
	// A prefix of a longer legal cluster (e.g. "t" while typing "th") is
	// handled by the length==1 branch; here len>=2 and not a full cluster.
	for cluster := range validOnsetClusters {
		if strings.HasPrefix(cluster, lower) {
			return VNIncomplete
		}
	}
	return VNImpossible
}

// validateNucleus checks a mark-aware, tone-stripped vowel run.
func validateNucleus(nucleus []rune) VNValidity {
	switch len(nucleus) {
	case 0:
		return VNIncomplete
	case 1:
		return VNValid
	case 2:
		s := string(nucleus)
		if validDiphthongs[s] {
			return VNValid
		}
		for tri := range validTriphthongs {
			if strings.HasPrefix(tri, s) {
				return VNIncomplete
			}
		}
		return VNImpossible
	case 3:
		if validTriphthongs[string(nucleus)] {
			return VNValid
		}
		return VNImpossible
	default:
		return VNImpossible
	}
}

// validateCoda checks a single or clustered final consonant.
func validateCoda(coda string) VNValidity {
	if coda == "" {
		return VNValid
	}
	if len(coda) == 1 {
		c := coda[0] | 0x20
		if c < 'a' || c > 'z' {
			return VNImpossible
		}
		if letterClass[c-'a']&lcMayFinal != 0 {
			return VNValid
		}
		// a letter that begins a final cluster without being a final on its
		// own would stay incomplete; c and n, the only letters that begin a
		// cluster, are legal finals and were already accepted above.
		for cluster := range validCodaClusters {
			if cluster[0] == c {
				return VNIncomplete
			}
		}
		return VNImpossible
	}
	if validCodaClusters[coda] {
		return VNValid
	}
	return VNImpossible
}

// validateSpelling checks that the onset respells correctly before a front
// vowel (k/c, gh/g, ngh/ng), given the actual first letter of the nucleus.
func validateSpelling(skel syllableSkeleton) bool {
	if len(skel.nucleus) == 0 {
		return true
	}
	front := skel.nucleus[0]
	onset := strings.ToLower(skel.onset)
	rules, ok := spellingRules[onset]
	if !ok {
		return true
	}
	_, mustRespell := rules[front]
	return !mustRespell
}

// validateToneCoda checks the checked-tone restriction: a syllable ending
// in a stop coda (c, ch, p, t) must carry sắc or nặng once it carries any
// tone at all. A stop-final syllable with no tone yet (ToneNone) passes;
// huyền/hỏi/ngã on it fail.
func validateToneCoda(coda string, tone ToneMark) bool {
	if !stopCodas[strings.ToLower(coda)] {
		return true
	}
	switch tone {
	case ToneNone, ToneSac, ToneNang:
		return true
	default:
		return false
	}
}

// validateSyllable runs the full layered check (C5) over a mark-aware,
// tone-stripped skeleton (see markedSkeleton) plus the tone currently
// applied to the nucleus.
func validateSyllable(marked string, tone ToneMark) VNValidity {
	lower := strings.ToLower(marked)
	skel := splitSkeleton(lower)

	if v := validateOnset(skel.onset); v != VNValid {
		return v
	}
	if v := validateNucleus(skel.nucleus); v != VNValid {
		return v
	}
	if v := validateCoda(skel.coda); v != VNValid {
		return v
	}
	if !validateSpelling(skel) {
		return VNImpossible
	}
	if !validateToneCoda(skel.coda, tone) {
		return VNImpossible
	}
	return VNValid
}
