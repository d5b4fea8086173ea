package engine

import (
	"strings"
	"testing"
)

// typeWord feeds a literal ASCII string through a fresh Core under the
// given method and returns the final committed/preedit text visible after
// a trailing SPACE, without the trailing space itself.
func typeWord(t *testing.T, method Method, raw string) string {
	t.Helper()
	c := NewCore()
	opts := DefaultOptions()
	opts.Method = method
	c.Configure(opts)

	var out []rune
	apply := func(r Reply) {
		n := int(r.Backspaces)
		if n > len(out) {
			n = len(out)
		}
		out = out[:len(out)-n]
		out = append(out, r.Insert...)
	}

	for _, ch := range raw {
		reply, _ := c.HandleKey(KeyEvent{KeySym: uint32(ch)})
		apply(reply)
	}
	reply, _ := c.HandleKey(KeyEvent{KeySym: uint32(KeySpace)})
	apply(reply)

	return strings.TrimSuffix(string(out), " ")
}

func TestEndToEndTelexScenarios(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"vieetj_viet", "vieetj", "việt"},
		{"dduowngf_duong", "dduowngf", "đường"},
		{"nhanaj_nhan", "nhanaj", "nhận"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := typeWord(t, MethodTelex, tt.raw)
			if got != tt.want {
				t.Errorf("typeWord(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

// TestDelayedStrokeOnD exercises the non-adjacent "d ... d" pattern the
// spec documents as an open question: a later mark key retroactively
// confirms the stroke (dede -> đê), but a word that commits without one
// keeps its literal 'd' untouched (dedicated stays unstroked).
func TestDelayedStrokeOnD(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"dede_confirms_stroke", "dede", "đê"},
		{"dedicated_stays_literal", "dedicated", "dedicated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := typeWord(t, MethodTelex, tt.raw)
			if got != tt.want {
				t.Errorf("typeWord(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestEndToEndEnglishRestore(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"class_restores", "class", "class"},
		{"bass_restores", "bass", "bass"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := typeWord(t, MethodTelex, tt.raw)
			if got != tt.want {
				t.Errorf("typeWord(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestEndToEndKeepRestoresViaCircumflexPostCheck(t *testing.T) {
	got := typeWord(t, MethodTelex, "keep")
	if got != "keep" {
		t.Errorf("typeWord(keep) = %q, want keep", got)
	}
}

// TestEndToEndWeakEnglishTierKeepsVNValidWord guards against the restore
// arbiter over-triggering on a low-confidence English tier: "reos" is
// VN-valid ("réo") and only matches the weak tierPrefix ("re"), well below
// the tier the arbiter requires before restoring a valid word.
func TestEndToEndWeakEnglishTierKeepsVNValidWord(t *testing.T) {
	got := typeWord(t, MethodTelex, "reos")
	if got != "réo" {
		t.Errorf("typeWord(reos) = %q, want réo", got)
	}
}

func TestSkipWAsVowelShortcut(t *testing.T) {
	c := NewCore()
	opts := DefaultOptions()
	opts.SkipWAsVowelShortcut = true
	c.Configure(opts)
	got := typeWordWithCore(c, "w")
	if got != "w" {
		t.Errorf("with SkipWAsVowelShortcut, typeWord(w) = %q, want literal w", got)
	}

	opts.SkipWAsVowelShortcut = false
	c.Configure(opts)
	got = typeWordWithCore(c, "w")
	if got != "ư" {
		t.Errorf("without SkipWAsVowelShortcut, typeWord(w) = %q, want ư", got)
	}
}

func TestEndToEndHoaTonePlacement(t *testing.T) {
	c := NewCore()

	opts := DefaultOptions()
	opts.ModernTonePlacement = true
	c.Configure(opts)
	got := typeWordWithCore(c, "hoaf")
	if got != "hoà" {
		t.Errorf("modern placement: got %q, want hoà", got)
	}

	opts.ModernTonePlacement = false
	c.Configure(opts)
	got = typeWordWithCore(c, "hoaf")
	if got != "hòa" {
		t.Errorf("traditional placement: got %q, want hòa", got)
	}
}

func typeWordWithCore(c *Core, raw string) string {
	var out []rune
	apply := func(r Reply) {
		n := int(r.Backspaces)
		if n > len(out) {
			n = len(out)
		}
		out = out[:len(out)-n]
		out = append(out, r.Insert...)
	}
	for _, ch := range raw {
		reply, _ := c.HandleKey(KeyEvent{KeySym: uint32(ch)})
		apply(reply)
	}
	reply, _ := c.HandleKey(KeyEvent{KeySym: uint32(KeySpace)})
	apply(reply)
	return strings.TrimSuffix(string(out), " ")
}

func TestResetClearsBuffer(t *testing.T) {
	c := NewCore()
	c.HandleKey(KeyEvent{KeySym: uint32('v')})
	c.HandleKey(KeyEvent{KeySym: uint32('i')})
	if c.CurrentBufferRaw() == "" {
		t.Fatal("expected buffer to hold typed keys before reset")
	}
	c.Reset()
	if c.CurrentBufferRaw() != "" {
		t.Errorf("Reset() left buffer = %q, want empty", c.CurrentBufferRaw())
	}
}

func TestSetEnabledShortCircuits(t *testing.T) {
	c := NewCore()
	c.SetEnabled(false)
	_, handled := c.HandleKey(KeyEvent{KeySym: uint32('a')})
	if handled {
		t.Error("expected disabled core to report unhandled")
	}
}

func TestDiffInvariant(t *testing.T) {
	c := NewCore()
	var prevLen int
	for _, ch := range "duongf" {
		reply, _ := c.HandleKey(KeyEvent{KeySym: uint32(ch)})
		next := []rune(c.CurrentBufferUnicode())
		got := prevLen - int(reply.Backspaces) + len(reply.Insert)
		if got != len(next) {
			t.Errorf("diff invariant broken at %q: prev=%d bs=%d ins=%d next=%d",
				ch, prevLen, reply.Backspaces, len(reply.Insert), len(next))
		}
		prevLen = len(next)
	}
}

func BenchmarkHandleKey(b *testing.B) {
	c := NewCore()
	ev := KeyEvent{KeySym: uint32('t')}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.HandleKey(ev)
		if i%8 == 0 {
			c.Reset()
		}
	}
}

func BenchmarkHandleKeyVietnameseWord(b *testing.B) {
	c := NewCore()
	word := "duocw"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, ch := range word {
			c.HandleKey(KeyEvent{KeySym: uint32(ch)})
		}
		c.Reset()
	}
}
