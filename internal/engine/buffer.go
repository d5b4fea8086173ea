package engine

// maxWordLen bounds both halves of the dual buffer. The host is expected to
// emit a word boundary well before this; keystrokes past it are dropped
// silently rather than reallocating or panicking.
const maxWordLen = 32

// dualBuffer holds the raw keystroke log and the transformed character log
// for the word currently being composed (C2). It owns both slices
// exclusively for the processor's lifetime; consumption is a flag, never a
// deletion, so reverts are O(1) and re-expose the original key in place.
type dualBuffer struct {
	raw  [maxWordLen]RawEntry
	rawN int

	chars  [maxWordLen]ProcessedChar
	charsN int
}

func (b *dualBuffer) clear() {
	b.rawN = 0
	b.charsN = 0
}

// pushRaw appends a keystroke. Returns false if the buffer is saturated;
// the caller is expected to have committed a word boundary by then.
func (b *dualBuffer) pushRaw(key byte, caps, shift bool) (index int, ok bool) {
	if b.rawN >= maxWordLen {
		return -1, false
	}
	b.raw[b.rawN] = RawEntry{Key: key, Caps: caps, Shift: shift}
	idx := b.rawN
	b.rawN++
	return idx, true
}

func (b *dualBuffer) pushChar(c ProcessedChar) (index int, ok bool) {
	if b.charsN >= maxWordLen {
		return -1, false
	}
	b.chars[b.charsN] = c
	idx := b.charsN
	b.charsN++
	return idx, true
}

// markConsumed flips a raw entry's consumed flag so unconsumedKeys() skips
// it, and re-exposing it (flipping back) is how a revert works.
func (b *dualBuffer) markConsumed(index int, consumed bool) {
	if index >= 0 && index < b.rawN {
		b.raw[index].Consumed = consumed
	}
}

func (b *dualBuffer) popRaw() (RawEntry, bool) {
	if b.rawN == 0 {
		return RawEntry{}, false
	}
	b.rawN--
	e := b.raw[b.rawN]
	b.raw[b.rawN] = RawEntry{}
	return e, true
}

// removeCharAt deletes the processed character at index i, shifting later
// characters left by one. Used only to retroactively absorb a literal 'd'
// that turns out to confirm a non-adjacent stroke (dede -> đê).
func (b *dualBuffer) removeCharAt(i int) {
	if i < 0 || i >= b.charsN {
		return
	}
	copy(b.chars[i:b.charsN-1], b.chars[i+1:b.charsN])
	b.charsN--
	b.chars[b.charsN] = ProcessedChar{}
}

func (b *dualBuffer) popChar() (ProcessedChar, bool) {
	if b.charsN == 0 {
		return ProcessedChar{}, false
	}
	b.charsN--
	c := b.chars[b.charsN]
	b.chars[b.charsN] = ProcessedChar{}
	return c, true
}

func (b *dualBuffer) lastChar() (*ProcessedChar, bool) {
	if b.charsN == 0 {
		return nil, false
	}
	return &b.chars[b.charsN-1], true
}

func (b *dualBuffer) charAt(i int) (*ProcessedChar, bool) {
	if i < 0 || i >= b.charsN {
		return nil, false
	}
	return &b.chars[i], true
}

// unconsumedKeys returns the raw keystrokes not absorbed by a transform —
// the user's apparent visible ASCII typing up to this point. It has no
// caller in this package.
func (b *dualBuffer) unconsumedKeys() []RawEntry {
	out := make([]RawEntry, 0, b.rawN)
	for i := 0; i < b.rawN; i++ {
		if !b.raw[i].Consumed {
			out = append(out, b.raw[i])
		}
	}
	return out
}

// allKeys returns every raw keystroke the user actually typed, including
// ones a transform later consumed. handleBackspace replays these minus the
// last one; the English detector reads the same entries through rawString.
func (b *dualBuffer) allKeys() []RawEntry {
	return append([]RawEntry(nil), b.raw[:b.rawN]...)
}

// rawString renders allKeys() as the literal ASCII the user typed.
func (b *dualBuffer) rawString() string {
	out := make([]byte, 0, b.rawN)
	for i := 0; i < b.rawN; i++ {
		out = append(out, displayByte(b.raw[i].Key, b.raw[i].Caps, b.raw[i].Shift))
	}
	return string(out)
}

func displayByte(key byte, caps, shift bool) byte {
	if caps != shift && key >= 'a' && key <= 'z' {
		return key - 0x20
	}
	return key
}

// toUnicodeString renders the processed-character log through the Unicode
// mapping. It is the single source of truth current_buffer_unicode() uses.
func (b *dualBuffer) toUnicodeString() string {
	return composeChars(b.chars[:b.charsN])
}

func (b *dualBuffer) empty() bool { return b.rawN == 0 }
