package engine

import "strings"

// composer runs the per-key composition algorithm (C3): one dispatch-matrix
// lookup per keystroke, with revert and defer tracking layered on top for
// the double-key-undo and later-confirmed transforms the matrix's single
// (action, next-state) cell can't express alone (aa->â, uow->ươ, the
// retroactive dd->đ stroke).
type composer struct {
	state  uint8
	buf    dualBuffer
	revert revertTracker
	defr   deferredDecision
	method Method
	opts   Options

	vowelStart  int // index of first nucleus char, -1 if no vowel yet
	vowelEnd    int // one past the last nucleus char
	codaStart   int // index of first coda char, -1 if no coda yet
	lastCoda    byte
	onsetDIndex int // index of a leading 'd' awaiting a possible stroke, -1 if none/resolved

	transformOccurred bool // any tone/mark/stroke/w-as-vowel transform fired this word, even if later reverted
}

func newComposer(opts Options) *composer {
	c := &composer{method: opts.Method, opts: opts}
	c.resetWord()
	return c
}

func (c *composer) resetWord() {
	c.state = stEmpty
	c.buf.clear()
	c.revert.clear()
	c.defr.clear()
	c.vowelStart = -1
	c.vowelEnd = -1
	c.codaStart = -1
	c.lastCoda = 0
	c.onsetDIndex = -1
	c.transformOccurred = false
}

func isCircumflexCapable(lower byte) bool { return lower == 'a' || lower == 'e' || lower == 'o' }

// markKeyFor resolves which VowelMark a mark-trigger key (w, or VNI 6/7)
// requests for a given nucleus base letter. VNI has no dedicated breve
// digit: 7 does double duty for horn (on o/u) and breve (on a), the same
// way Telex overloads a single 'w' across breve/horn. e only ever takes the
// circumflex (VNI 6, or the Telex ee shortcut); w and 7 never mark it.
func markKeyFor(method Method, key byte, base byte) VowelMark {
	if method == MethodVNI {
		switch key {
		case '6':
			if base == 'a' || base == 'e' || base == 'o' {
				return MarkCircumflex
			}
		case '7':
			switch base {
			case 'o', 'u':
				return MarkHorn
			case 'a':
				return MarkBreve
			}
		}
		return MarkNone
	}
	switch base {
	case 'a':
		return MarkBreve
	case 'o', 'u':
		return MarkHorn
	}
	return MarkNone
}

func toneFromKey(method Method, key byte) (ToneMark, bool) {
	if method == MethodVNI {
		switch key {
		case '1':
			return ToneSac, true
		case '2':
			return ToneHuyen, true
		case '3':
			return ToneHoi, true
		case '4':
			return ToneNga, true
		case '5':
			return ToneNang, true
		case '0':
			return ToneNone, true
		}
		return ToneNone, false
	}
	switch key | 0x20 {
	case 's':
		return ToneSac, true
	case 'f':
		return ToneHuyen, true
	case 'r':
		return ToneHoi, true
	case 'x':
		return ToneNga, true
	case 'j':
		return ToneNang, true
	}
	return ToneNone, false
}

// processKey feeds one ASCII letter or digit through the matrix. Word
// boundary keys (space, backspace, esc, ...) are the orchestrator's job.
func (c *composer) processKey(key byte, caps, shift bool) Action {
	lower := key | 0x20
	isLetter := lower >= 'a' && lower <= 'z'
	isDigit := key >= '0' && key <= '9'
	if !isLetter && !isDigit {
		return ActionReject
	}
	if c.buf.rawN >= maxWordLen {
		return ActionReject
	}

	if c.revert.checkRevert(key) {
		return c.applyRevert(key, caps, shift)
	}

	cat := effectiveCategory(c.method, key, c.state, c.lastCoda)
	action, next := dispatchLookup(c.state, cat)

	switch action {
	case actPass:
		return c.applyPass(key, caps, shift, cat, next)
	case actTone:
		return c.applyToneAction(key, caps, shift, next)
	case actMark:
		return c.applyMarkAction(key, caps, shift, next)
	case actStroke:
		return c.applyStrokeAction(key, caps, shift, next)
	default: // actReject
		c.buf.pushRaw(key, caps, shift)
		return ActionReject
	}
}

func (c *composer) applyPass(key byte, caps, shift bool, cat uint8, next uint8) Action {
	lower := key | 0x20
	switch cat {
	case catVowel:
		return c.applyVowelPass(lower, caps, shift, next)
	case catSpecialW:
		if c.opts.SkipWAsVowelShortcut && c.method == MethodTelex {
			// Leading 'w' stays a literal letter instead of materializing as
			// ư; it still takes its ordinary place in the syllable.
			return c.appendConsonant('w', caps, shift, next)
		}
		return c.applyWAsVowel(caps, shift, next)
	default:
		return c.appendConsonant(lower, caps, shift, next)
	}
}

// tryCrossCodaCircumflex handles the rare FIN+VOWEL case where a single
// coda consonant already sits between the nucleus and a repeat of its
// vowel letter (Telex "nhanaj" for nhận: n-h-a-n-a-j). The repeated 'a'
// still triggers the aa circumflex shortcut on the earlier vowel; the
// coda consonant keeps its place after it rather than being treated as
// the start of a fresh syllable.
func (c *composer) tryCrossCodaCircumflex(lower byte, caps, shift bool) bool {
	if c.codaStart < 0 || c.codaStart != c.vowelEnd || c.buf.charsN-c.codaStart != 1 {
		return false
	}
	if c.vowelEnd <= c.vowelStart {
		return false
	}
	last := &c.buf.chars[c.vowelEnd-1]
	if !isCircumflexCapable(lower) || last.Base != lower || last.Mark != MarkNone {
		return false
	}
	idx := c.vowelEnd - 1
	last.Mark = MarkCircumflex
	if removed := c.confirmDelayedStroke(); removed >= 0 && removed <= idx {
		idx--
	}
	rawIdx, _ := c.buf.pushRaw(lower, caps, shift)
	c.buf.markConsumed(rawIdx, true)
	c.revert.record(xformCircumflex, lower, idx)
	c.state = stFin
	c.transformOccurred = true
	return true
}

// applyVowelPass appends a vowel letter, special-casing the aa/ee/oo
// same-letter shortcut for circumflex.
func (c *composer) applyVowelPass(lower byte, caps, shift bool, next uint8) Action {
	if c.tryCrossCodaCircumflex(lower, caps, shift) {
		return ActionTransform
	}
	if last, ok := c.buf.lastChar(); ok && isCircumflexCapable(lower) &&
		last.Base == lower && last.Mark == MarkNone && c.vowelStart >= 0 {
		idx := c.buf.charsN - 1
		last.Mark = MarkCircumflex
		if removed := c.confirmDelayedStroke(); removed >= 0 && removed <= idx {
			idx--
		}
		rawIdx, _ := c.buf.pushRaw(lower, caps, shift)
		c.buf.markConsumed(rawIdx, true)
		c.revert.record(xformCircumflex, lower, idx)
		c.state = stDia
		c.transformOccurred = true
		return ActionTransform
	}
	c.buf.pushRaw(lower, caps, shift)
	c.buf.pushChar(ProcessedChar{Base: lower, Caps: caps})
	idx := c.buf.charsN - 1
	if c.codaStart >= 0 {
		// A vowel arriving after a coda already started is rare in
		// Vietnamese; treat it as the start of a fresh nucleus rather than
		// corrupting the existing one by stretching vowelEnd across the
		// intervening consonant.
		c.vowelStart = idx
		c.codaStart = -1
	} else if c.vowelStart < 0 {
		c.vowelStart = idx
	}
	c.vowelEnd = idx + 1
	c.state = next
	return ActionUpdate
}

// applyWAsVowel handles 'w' pressed with no vowel typed yet: it becomes the
// vowel ư outright, rather than marking an existing vowel.
func (c *composer) applyWAsVowel(caps, shift bool, next uint8) Action {
	c.buf.pushRaw('w', caps, shift)
	c.buf.pushChar(ProcessedChar{Base: 'u', Mark: MarkHorn, Caps: caps})
	idx := c.buf.charsN - 1
	c.vowelStart = idx
	c.vowelEnd = idx + 1
	c.revert.record(xformWVowel, 'w', idx)
	c.state = next
	c.transformOccurred = true
	return ActionTransform
}

func (c *composer) appendConsonant(lower byte, caps, shift bool, next uint8) Action {
	c.buf.pushRaw(lower, caps, shift)
	c.buf.pushChar(ProcessedChar{Base: lower, Caps: caps})
	idx := c.buf.charsN - 1
	if lower == 'd' && idx == 0 {
		c.onsetDIndex = idx
	}
	if next == stFin {
		if c.codaStart < 0 {
			c.codaStart = idx
		}
		c.lastCoda = lower
		c.state = next
		c.resolveDeferred()
		return ActionUpdate
	}
	c.state = next
	return ActionUpdate
}

// applyToneAction places a tone on the appropriate nucleus vowel.
func (c *composer) applyToneAction(key byte, caps, shift bool, next uint8) Action {
	tone, ok := toneFromKey(c.method, key)
	if !ok || c.vowelStart < 0 {
		c.buf.pushRaw(key, caps, shift)
		return ActionReject
	}
	pos := tonePosition(c.nucleusSlice(), c.codaStart >= 0, c.toneRule())
	targetIdx := c.vowelStart + pos
	if targetIdx < 0 || targetIdx >= c.buf.charsN {
		targetIdx = c.buf.charsN - 1
	}
	c.buf.chars[targetIdx].Tone = tone
	rawIdx, _ := c.buf.pushRaw(key, caps, shift)
	c.buf.markConsumed(rawIdx, true)
	c.revert.record(xformTone, key, targetIdx)
	c.state = next
	c.transformOccurred = true
	return ActionTransform
}

// applyMarkAction applies breve/horn/circumflex to the nucleus, deferring
// confirmation of a uo->ươ double-horn spread until the coda resolves.
func (c *composer) applyMarkAction(key byte, caps, shift bool, next uint8) Action {
	lower := key | 0x20
	target := -1
	for i := c.vowelEnd - 1; i >= c.vowelStart && i >= 0; i-- {
		if markKeyFor(c.method, lower, c.buf.chars[i].Base) != MarkNone {
			target = i
			break
		}
	}
	if target < 0 {
		c.buf.pushRaw(key, caps, shift)
		return ActionReject
	}
	mark := markKeyFor(c.method, lower, c.buf.chars[target].Base)
	c.buf.chars[target].Mark = mark
	if removed := c.confirmDelayedStroke(); removed >= 0 && removed <= target {
		target--
	}
	rawIdx, _ := c.buf.pushRaw(key, caps, shift)
	c.buf.markConsumed(rawIdx, true)

	xform := xformHorn
	if mark == MarkBreve {
		xform = xformBreve
	} else if mark == MarkCircumflex {
		xform = xformCircumflex
	}
	c.revert.record(xform, lower, target)

	// "uo" + horn-trigger: the horn lands on 'o' above; whether 'u' also
	// takes it depends on the coda, decided once the coda is known.
	if mark == MarkHorn && c.buf.chars[target].Base == 'o' && target > c.vowelStart &&
		c.buf.chars[target-1].Base == 'u' && c.buf.chars[target-1].Mark == MarkNone {
		c.defr.set(deferHornOnU, target-1, 0)
	}
	if mark == MarkBreve && c.buf.chars[target].Base == 'a' {
		c.defr.set(deferBreveOnA, target, 0)
	}

	c.state = next
	c.transformOccurred = true
	return ActionTransform
}

// applyStrokeAction handles the d-key in a context where a stroke may apply:
// it resolves retroactively against a pending onset 'd', or else the key is
// just another final consonant.
func (c *composer) applyStrokeAction(key byte, caps, shift bool, next uint8) Action {
	if c.onsetDIndex >= 0 && c.vowelStart < 0 {
		// classic adjacent "dd": no vowel has appeared yet, so this second
		// d unambiguously confirms the stroke right away.
		idx := c.onsetDIndex
		c.buf.chars[idx].Mark = MarkStroke
		rawIdx, _ := c.buf.pushRaw(key, caps, shift)
		c.buf.markConsumed(rawIdx, true)
		c.revert.record(xformStroke, key, idx)
		c.onsetDIndex = -1
		c.state = next
		c.transformOccurred = true
		return ActionTransform
	}
	if c.onsetDIndex >= 0 {
		// non-adjacent "d ... d" (dede): a vowel already separates this d
		// from the onset one. Per the source's own inconsistent handling
		// of this pattern, this is modeled as a deferred decision: the key
		// lands as an ordinary literal 'd' for now, and only a later mark
		// key retroactively confirms the stroke and absorbs it (dede ->
		// đê); a word that commits without such a key (dedicated) keeps
		// the literal d untouched.
		literalIdx := c.buf.charsN
		result := c.appendConsonant('d', caps, shift, next)
		rawIdx := c.buf.rawN - 1
		c.defr.setDelayedStroke(c.onsetDIndex, literalIdx, rawIdx)
		return result
	}
	if key|0x20 == 'd' {
		return c.appendConsonant('d', caps, shift, next)
	}
	// VNI's stroke digit with no onset 'd' to confirm against: not a valid
	// letter on its own, so reject rather than insert a literal digit.
	c.buf.pushRaw(key, caps, shift)
	return ActionReject
}

// confirmDelayedStroke resolves a pending non-adjacent "d ... d" stroke
// (dede) the moment a mark key arrives: the literal 'd' placeholder is
// absorbed back out of the buffer and the original onset is struck.
// Returns the removed char's pre-shift index (so the caller can adjust its
// own local index variables), or -1 if nothing was pending.
func (c *composer) confirmDelayedStroke() int {
	if c.defr.kind != deferDelayedStrokeOnD {
		return -1
	}
	onsetIdx := c.defr.position
	literalIdx := c.defr.aux
	rawIdx := int(c.defr.payload)
	c.buf.removeCharAt(literalIdx)
	if onsetIdx > literalIdx {
		onsetIdx--
	}
	if c.vowelStart > literalIdx {
		c.vowelStart--
	}
	if c.vowelEnd > literalIdx {
		c.vowelEnd--
	}
	if c.codaStart > literalIdx {
		c.codaStart--
	}
	c.buf.markConsumed(rawIdx, true)
	c.buf.chars[onsetIdx].Mark = MarkStroke
	c.revert.record(xformStroke, 'd', onsetIdx)
	c.onsetDIndex = -1
	c.defr.clear()
	c.transformOccurred = true
	return literalIdx
}

// applyRevert undoes the tracked transform, re-exposing the raw keystrokes
// it had consumed, and marks the tracker so a third press doesn't oscillate.
func (c *composer) applyRevert(key byte, caps, shift bool) Action {
	pos := c.revert.position
	switch c.revert.kind {
	case xformStroke:
		c.buf.chars[pos].Mark = MarkNone
		c.onsetDIndex = pos
	case xformCircumflex, xformBreve, xformHorn:
		c.buf.chars[pos].Mark = MarkNone
	case xformWVowel:
		c.buf.chars[pos].Base = 'w'
		c.buf.chars[pos].Mark = MarkNone
	case xformTone:
		c.buf.chars[pos].Tone = ToneNone
	}
	c.reexposeConsumed(pos)
	c.buf.pushRaw(key, caps, shift)
	c.appendLiteralAfterRevert(key, caps)
	c.revert.reverted = true
	return ActionRevert
}

// appendLiteralAfterRevert gives the revert-triggering keystroke itself a
// place in the processed-character buffer: pressing a trigger key a second
// time doesn't just cancel the transform, it also stands for itself (Telex
// "b a s s": the second s cancels sắc AND types a literal s, landing on
// "bas", not "ba"). Vowel letters extend the nucleus; everything else is
// treated as a fresh coda letter, mirroring appendConsonant.
func (c *composer) appendLiteralAfterRevert(key byte, caps bool) {
	lower := key | 0x20
	c.buf.pushChar(ProcessedChar{Base: lower, Caps: caps})
	idx := c.buf.charsN - 1
	if strings.IndexByte("aeiouy", lower) >= 0 {
		if c.codaStart >= 0 {
			c.vowelStart = idx
			c.codaStart = -1
		} else if c.vowelStart < 0 {
			c.vowelStart = idx
		}
		c.vowelEnd = idx + 1
		c.state = stVow
		return
	}
	if c.codaStart < 0 {
		c.codaStart = idx
	}
	c.lastCoda = lower
	c.state = stFin
	c.resolveDeferred()
}

// reexposeConsumed flips the most recent consumed raw entry back to
// unconsumed, restoring the apparent plain-ASCII view the revert implies.
func (c *composer) reexposeConsumed(_ int) {
	for i := c.buf.rawN - 1; i >= 0; i-- {
		if c.buf.raw[i].Consumed {
			c.buf.raw[i].Consumed = false
			return
		}
	}
}

func (c *composer) nucleusSlice() []ProcessedChar {
	if c.vowelStart < 0 || c.vowelEnd <= c.vowelStart {
		return nil
	}
	out := make([]ProcessedChar, c.vowelEnd-c.vowelStart)
	copy(out, c.buf.chars[c.vowelStart:c.vowelEnd])
	return out
}

func (c *composer) codaString() string {
	if c.codaStart < 0 {
		return ""
	}
	out := make([]byte, 0, c.buf.charsN-c.codaStart)
	for i := c.codaStart; i < c.buf.charsN; i++ {
		out = append(out, c.buf.chars[i].Base)
	}
	return string(out)
}

func (c *composer) toneRule() ToneRule {
	if c.opts.ModernTonePlacement {
		return ToneRuleModern
	}
	return ToneRuleTraditional
}

// resolveDeferred confirms or drops a pending horn/breve spread once the
// coda is known, called as soon as a final consonant completes.
func (c *composer) resolveDeferred() {
	if !c.defr.isPending() {
		return
	}
	coda := c.codaString()
	switch c.defr.kind {
	case deferHornOnU:
		if hornUValidFinal(coda) {
			c.buf.chars[c.defr.position].Mark = MarkHorn
		}
		c.defr.clear()
	case deferBreveOnA:
		if !breveValidFinal(coda) {
			c.buf.chars[c.defr.position].Mark = MarkNone
		}
		c.defr.clear()
	case deferDelayedStrokeOnD:
		// stays pending regardless of coda completion; only a later mark
		// key (confirmDelayedStroke) or the word-boundary reset resolves
		// it, per the dede/dedicated distinction.
	}
}

// hadTransform reports whether any transform fired at all this word, even
// one later undone by a revert: the arbiter still needs to know the user
// engaged the composition machinery (e.g. bass: sắc-then-revert leaves no
// current mark, but the word still must run the EN/VN check, not the bare
// "nothing happened" path). hasStroke instead reads the *current* buffer,
// since it gates on the mark actually standing today.
func (c *composer) hadTransform() bool { return c.transformOccurred }

func (c *composer) hasStroke() bool {
	for i := 0; i < c.buf.charsN; i++ {
		if c.buf.chars[i].Mark == MarkStroke {
			return true
		}
	}
	return false
}

// markedSkeleton renders the current buffer through baseMarkRune (mark-aware,
// tone-stripped) for the validator: "việt" renders as "viêt", preserving the
// circumflex/horn/breve/stroke distinctions the phonotactic tables key on,
// since a bare ASCII skeleton would collapse "iê"/"uơ"/"ươ"/"đ" down to
// letters indistinguishable from plain "ie"/"uo"/"uo"/"d" and make every
// marked nucleus look illegal.
func (c *composer) markedSkeleton() string {
	var b strings.Builder
	b.Grow(c.buf.charsN * 2)
	for i := 0; i < c.buf.charsN; i++ {
		b.WriteRune(baseMarkRune(c.buf.chars[i]))
	}
	return b.String()
}

func (c *composer) dominantTone() ToneMark {
	for i := c.vowelStart; i >= 0 && i < c.vowelEnd; i++ {
		if c.buf.chars[i].Tone != ToneNone {
			return c.buf.chars[i].Tone
		}
	}
	return ToneNone
}

// circumflexClosedSyllableImpossible catches a case validateSyllable lets
// through (it accepts an untoned stop-final syllable): a circumflexed
// nucleus closed by a stop coda (p, t)
// carrying no tone yet is not a standing Vietnamese syllable (kêp, têt
// aren't words without a tone on them), so the arbiter must treat it as
// Impossible even though the skeleton's letters are individually legal.
func (c *composer) circumflexClosedSyllableImpossible() bool {
	if c.codaStart < 0 || c.vowelEnd <= c.vowelStart {
		return false
	}
	if c.dominantTone() != ToneNone {
		return false
	}
	switch c.codaString() {
	case "p", "t":
	default:
		return false
	}
	for i := c.vowelStart; i < c.vowelEnd; i++ {
		if c.buf.chars[i].Mark == MarkCircumflex {
			return true
		}
	}
	return false
}

func (c *composer) validity() VNValidity {
	v := validateSyllable(c.markedSkeleton(), c.dominantTone())
	if v == VNValid && c.circumflexClosedSyllableImpossible() {
		return VNImpossible
	}
	return v
}

