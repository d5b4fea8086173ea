package engine

// Static tables (C1). All lookups here are O(1) array/map indexing over
// fixed-size, process-lifetime, read-only data — safe to share across
// multiple Core instances.

// Composition state (st) drives the dispatch matrix.
const (
	stEmpty uint8 = iota // no onset, no vowel
	stInit               // has onset consonant(s), no vowel yet
	stVow                // has vowel, no diacritic
	stDia                // vowel carries a tone or mark
	stFin                // has a final consonant
	numStates
)

// Key category (cat), indexed by the dispatch matrix's second axis.
const (
	catVowel uint8 = iota
	catInitOnly
	catInitFinal
	catFinalPart
	catSpecialW
	catToneKey
	catDKey
	catOther
	numCategories
)

// act is the action half of a packed dispatch cell.
const (
	actPass uint8 = iota
	actTone
	actMark
	actStroke
	actReject
	actRevert
	actDefer
)

// pack/unpack squeeze (action, nextState) into one byte: action in the high
// nibble, state in the low nibble. Mirrors the teacher's bitmask style for
// the dual-buffer and validation tables.
func pack(action, state uint8) uint8 { return action<<4 | state }
func unpack(packed uint8) (action, state uint8) {
	return packed >> 4, packed & 0x0f
}

// dispatch is the 5-state x 8-category matrix. A single lookup decides both
// what to do with a key and which state to transition to.
var dispatch = [numStates][numCategories]uint8{
	stEmpty: {
		catVowel:      pack(actPass, stVow),
		catInitOnly:   pack(actPass, stInit),
		catInitFinal:  pack(actPass, stInit),
		catFinalPart:  pack(actPass, stInit),
		catSpecialW:   pack(actPass, stVow),
		catToneKey:    pack(actPass, stInit),
		catDKey:       pack(actPass, stInit),
		catOther:      pack(actReject, stEmpty),
	},
	stInit: {
		catVowel:      pack(actPass, stVow),
		catInitOnly:   pack(actPass, stInit),
		catInitFinal:  pack(actPass, stInit),
		catFinalPart:  pack(actPass, stInit),
		catSpecialW:   pack(actPass, stVow),
		catToneKey:    pack(actPass, stInit),
		catDKey:       pack(actStroke, stInit),
		catOther:      pack(actReject, stInit),
	},
	stVow: {
		catVowel:      pack(actPass, stVow),
		catInitOnly:   pack(actPass, stFin),
		catInitFinal:  pack(actPass, stFin),
		catFinalPart:  pack(actPass, stFin),
		catSpecialW:   pack(actMark, stDia),
		catToneKey:    pack(actTone, stDia),
		catDKey:       pack(actStroke, stFin),
		catOther:      pack(actReject, stVow),
	},
	stDia: {
		catVowel:      pack(actPass, stVow),
		catInitOnly:   pack(actPass, stFin),
		catInitFinal:  pack(actPass, stFin),
		catFinalPart:  pack(actPass, stFin),
		catSpecialW:   pack(actMark, stDia),
		catToneKey:    pack(actTone, stDia),
		catDKey:       pack(actStroke, stFin),
		catOther:      pack(actReject, stDia),
	},
	stFin: {
		catVowel:      pack(actPass, stVow),
		catInitOnly:   pack(actPass, stInit),
		catInitFinal:  pack(actPass, stFin),
		catFinalPart:  pack(actPass, stFin),
		catSpecialW:   pack(actMark, stFin),
		catToneKey:    pack(actTone, stFin),
		catDKey:       pack(actStroke, stFin),
		catOther:      pack(actReject, stFin),
	},
}

// dispatchLookup returns (action, nextState) for a (state, category) cell.
func dispatchLookup(state, category uint8) (action, next uint8) {
	return unpack(dispatch[state][category])
}

// letter class flags (26 entries, indexed a..z).
const (
	lcVowel byte = 1 << iota
	lcMayInitial
	lcMayFinal
	lcSpecial // w: not a plain letter, a vowel-modifier trigger
)

var letterClass = func() [26]byte {
	var t [26]byte
	vowels := "aeiouy"
	for _, r := range vowels {
		t[r-'a'] |= lcVowel
	}
	initials := "bcdghklmnpqrstvx" // all consonants may start a syllable
	for _, r := range initials {
		t[r-'a'] |= lcMayInitial
	}
	finals := "cmnpt" // plus cluster members ch, ng, nh handled structurally
	for _, r := range finals {
		t[r-'a'] |= lcMayFinal
	}
	t['w'-'a'] |= lcSpecial
	// f, j, z carry no flags: foreign to Vietnamese spelling.
	return t
}()

// keyCategory maps an ASCII letter to its dispatch category, per method.
// Telex treats s,f,r,x,j as dual-purpose tone keys and w as its horn/breve
// key; VNI treats these letters as plain consonants and instead routes
// digits to tone/mark keys.
func keyCategory(method Method, b byte) uint8 {
	lower := b | 0x20
	if method == MethodTelex {
		switch lower {
		case 's', 'f', 'r', 'x', 'j':
			return catToneKey
		}
	}
	switch lower {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return catVowel
	case 'w':
		if method == MethodTelex {
			return catSpecialW
		}
		return catInitOnly
	case 'd':
		return catDKey
	case 'c', 'm', 'n', 'p', 't':
		return catInitFinal
	case 'b', 'g', 'h', 'k', 'l', 'q', 'r', 'v', 'z', 's', 'f', 'j', 'x':
		return catInitOnly
	}
	if method == MethodVNI {
		switch b {
		case '0', '1', '2', '3', '4', '5':
			return catToneKey
		case '6', '7':
			return catSpecialW // VNI overloads circumflex (6) and horn/breve (7) onto Telex's w slot
		case '9':
			return catDKey // VNI's đ digit behaves like Telex's dd stroke trigger
		}
	}
	return catOther
}

// effectiveCategory promotes g/h to FINAL_PART when extending an existing
// coda after n or c, so "ng", "nh", "ch" extend the coda instead of
// starting a new syllable onset.
func effectiveCategory(method Method, b byte, state uint8, lastCoda byte) uint8 {
	cat := keyCategory(method, b)
	if state == stFin && cat == catInitOnly {
		lower := b | 0x20
		switch {
		case lower == 'g' && (lastCoda == 'n' || lastCoda == 'N'):
			return catFinalPart
		case lower == 'h' && (lastCoda == 'n' || lastCoda == 'c' || lastCoda == 'N' || lastCoda == 'C'):
			return catFinalPart
		}
	}
	return cat
}
