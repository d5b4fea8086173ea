package engine

// tonePosition picks which nucleus index the tone mark lands on (C4),
// following the same priority order as the teacher's findTonePosition, but
// operating on ProcessedChar so marked vowels (ă, â, ê, ô, ơ, ư) are read
// off the Mark field instead of re-deriving them from a composed rune.
//
// nucleus holds only the vowel positions of the word buffer, in order;
// hasCoda reports whether a final consonant follows them.
func tonePosition(nucleus []ProcessedChar, hasCoda bool, rule ToneRule) int {
	n := len(nucleus)
	if n <= 1 {
		return 0
	}

	// Rule 1: a marked vowel (circumflex, breve, horn) always takes the
	// tone. When both nucleus vowels are marked (the horn-spread "ươ"
	// pair, e.g. được), the tone lands on the later one.
	for i := n - 1; i >= 0; i-- {
		m := nucleus[i].Mark
		if m == MarkCircumflex || m == MarkBreve || m == MarkHorn {
			return i
		}
	}

	first := nucleus[0].Base | 0x20
	second := nucleus[1].Base | 0x20

	if n == 2 && !hasCoda {
		// oa, oe, uy: modern style puts the tone on the second vowel
		// (hoà), traditional on the first (hòa).
		if (first == 'o' && (second == 'a' || second == 'e')) || (first == 'u' && second == 'y') {
			if rule == ToneRuleModern {
				return 1
			}
			return 0
		}
		// ia -> first vowel always (nghĩa, not nghiã).
		if first == 'i' && second == 'a' {
			return 0
		}
		// ua, ưa -> second vowel (mùa, lừa).
		if first == 'u' && second == 'a' {
			return 1
		}
	}

	if hasCoda {
		if n == 2 {
			return 1 // oát, oàn: second vowel
		}
		return 1 // middle vowel (marked nuclei such as uyê were taken by rule 1)
	}

	if n == 2 {
		return 0 // ao, au, ay, ai, eo, eu
	}
	return 1 // 3+ vowels, no coda: middle vowel
}
