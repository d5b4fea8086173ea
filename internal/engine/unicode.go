package engine

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// markedVowel maps a base vowel letter plus a mark to the modified vowel
// letter (before any tone is applied). Consonants and unmarked vowels pass
// through unchanged; 'd' only changes under MarkStroke.
var markedVowel = map[byte]map[VowelMark]rune{
	'a': {MarkBreve: 'ă', MarkCircumflex: 'â'},
	'e': {MarkCircumflex: 'ê'},
	'o': {MarkCircumflex: 'ô', MarkHorn: 'ơ'},
	'u': {MarkHorn: 'ư'},
	'd': {MarkStroke: 'đ'},
}

// toneTable maps a (possibly already marked) lowercase vowel rune plus a
// tone to the final precomposed Unicode rune. Covers the full Vietnamese
// extended Latin vowel set.
var toneTable = map[rune]map[ToneMark]rune{
	'a': {ToneNone: 'a', ToneSac: 'á', ToneHuyen: 'à', ToneHoi: 'ả', ToneNga: 'ã', ToneNang: 'ạ'},
	'ă': {ToneNone: 'ă', ToneSac: 'ắ', ToneHuyen: 'ằ', ToneHoi: 'ẳ', ToneNga: 'ẵ', ToneNang: 'ặ'},
	'â': {ToneNone: 'â', ToneSac: 'ấ', ToneHuyen: 'ầ', ToneHoi: 'ẩ', ToneNga: 'ẫ', ToneNang: 'ậ'},
	'e': {ToneNone: 'e', ToneSac: 'é', ToneHuyen: 'è', ToneHoi: 'ẻ', ToneNga: 'ẽ', ToneNang: 'ẹ'},
	'ê': {ToneNone: 'ê', ToneSac: 'ế', ToneHuyen: 'ề', ToneHoi: 'ể', ToneNga: 'ễ', ToneNang: 'ệ'},
	'i': {ToneNone: 'i', ToneSac: 'í', ToneHuyen: 'ì', ToneHoi: 'ỉ', ToneNga: 'ĩ', ToneNang: 'ị'},
	'o': {ToneNone: 'o', ToneSac: 'ó', ToneHuyen: 'ò', ToneHoi: 'ỏ', ToneNga: 'õ', ToneNang: 'ọ'},
	'ô': {ToneNone: 'ô', ToneSac: 'ố', ToneHuyen: 'ồ', ToneHoi: 'ổ', ToneNga: 'ỗ', ToneNang: 'ộ'},
	'ơ': {ToneNone: 'ơ', ToneSac: 'ớ', ToneHuyen: 'ờ', ToneHoi: 'ở', ToneNga: 'ỡ', ToneNang: 'ợ'},
	'u': {ToneNone: 'u', ToneSac: 'ú', ToneHuyen: 'ù', ToneHoi: 'ủ', ToneNga: 'ũ', ToneNang: 'ụ'},
	'ư': {ToneNone: 'ư', ToneSac: 'ứ', ToneHuyen: 'ừ', ToneHoi: 'ử', ToneNga: 'ữ', ToneNang: 'ự'},
	'y': {ToneNone: 'y', ToneSac: 'ý', ToneHuyen: 'ỳ', ToneHoi: 'ỷ', ToneNga: 'ỹ', ToneNang: 'ỵ'},
}

// upperVN gives the uppercase form of every lowercase Vietnamese vowel this
// package ever produces (base, marked, and toned). Kept as a literal table,
// not unicode.ToUpper, to stay allocation-free on the hot path.
var upperVN = map[rune]rune{
	'a': 'A', 'á': 'Á', 'à': 'À', 'ả': 'Ả', 'ã': 'Ã', 'ạ': 'Ạ',
	'ă': 'Ă', 'ắ': 'Ắ', 'ằ': 'Ằ', 'ẳ': 'Ẳ', 'ẵ': 'Ẵ', 'ặ': 'Ặ',
	'â': 'Â', 'ấ': 'Ấ', 'ầ': 'Ầ', 'ẩ': 'Ẩ', 'ẫ': 'Ẫ', 'ậ': 'Ậ',
	'e': 'E', 'é': 'É', 'è': 'È', 'ẻ': 'Ẻ', 'ẽ': 'Ẽ', 'ẹ': 'Ẹ',
	'ê': 'Ê', 'ế': 'Ế', 'ề': 'Ề', 'ể': 'Ể', 'ễ': 'Ễ', 'ệ': 'Ệ',
	'i': 'I', 'í': 'Í', 'ì': 'Ì', 'ỉ': 'Ỉ', 'ĩ': 'Ĩ', 'ị': 'Ị',
	'o': 'O', 'ó': 'Ó', 'ò': 'Ò', 'ỏ': 'Ỏ', 'õ': 'Õ', 'ọ': 'Ọ',
	'ô': 'Ô', 'ố': 'Ố', 'ồ': 'Ồ', 'ổ': 'Ổ', 'ỗ': 'Ỗ', 'ộ': 'Ộ',
	'ơ': 'Ơ', 'ớ': 'Ớ', 'ờ': 'Ờ', 'ở': 'Ở', 'ỡ': 'Ỡ', 'ợ': 'Ợ',
	'u': 'U', 'ú': 'Ú', 'ù': 'Ù', 'ủ': 'Ủ', 'ũ': 'Ũ', 'ụ': 'Ụ',
	'ư': 'Ư', 'ứ': 'Ứ', 'ừ': 'Ừ', 'ử': 'Ử', 'ữ': 'Ữ', 'ự': 'Ự',
	'y': 'Y', 'ý': 'Ý', 'ỳ': 'Ỳ', 'ỷ': 'Ỷ', 'ỹ': 'Ỹ', 'ỵ': 'Ỵ',
	'd': 'D', 'đ': 'Đ',
}

// baseMarkRune resolves a ProcessedChar to its base-plus-mark rune (â, ê, ơ,
// ư, ă, đ, ...), ignoring tone and caps. This is the shape the phonotactic
// validator (C5) needs: mark-aware but tone-agnostic, since tone placement
// doesn't change which onset/nucleus/coda cluster a syllable reduces to.
func baseMarkRune(c ProcessedChar) rune {
	base := c.Base | 0x20
	r := rune(base)
	if marks, ok := markedVowel[base]; ok {
		if modified, ok := marks[c.Mark]; ok {
			r = modified
		}
	}
	if c.Mark == MarkStroke && base == 'd' {
		r = 'đ'
	}
	return r
}

// renderChar resolves one ProcessedChar to its Unicode rune.
func renderChar(c ProcessedChar) rune {
	r := baseMarkRune(c)
	if tones, ok := toneTable[r]; ok {
		if toned, ok := tones[c.Tone]; ok {
			r = toned
		}
	}
	if c.Caps {
		if upper, ok := upperVN[r]; ok {
			r = upper
		}
	}
	return r
}

// composeChars renders a processed-character slice to a Unicode string,
// normalized to NFC so the host always receives precomposed code points
// regardless of how the vowel+tone lookups assembled them internally.
func composeChars(chars []ProcessedChar) string {
	var b strings.Builder
	b.Grow(len(chars) * 3)
	for _, c := range chars {
		b.WriteRune(renderChar(c))
	}
	return norm.NFC.String(b.String())
}
