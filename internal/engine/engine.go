package engine

// Core is the external surface of the composition engine (C9): the only
// type a host (a D-Bus daemon, a test, an embedding CLI) talks to.
type Core struct {
	orch    *orchestrator
	opts    Options
	enabled bool
}

// NewCore builds a Core with the default configuration.
func NewCore() *Core {
	opts := DefaultOptions()
	return &Core{orch: newOrchestrator(opts), opts: opts, enabled: true}
}

// Configure replaces the engine's configuration and resets the in-flight
// word, since marks/tones already applied may depend on the old method.
func (c *Core) Configure(opts Options) {
	c.opts = opts
	c.orch = newOrchestrator(opts)
}

// Options returns the engine's current configuration.
func (c *Core) Options() Options { return c.opts }

// SetEnabled toggles the engine without losing its configuration; when
// disabled, HandleKey always reports the key unhandled.
func (c *Core) SetEnabled(enabled bool) {
	c.enabled = enabled
	if !enabled {
		c.orch.reset()
	}
}

func (c *Core) Enabled() bool { return c.enabled }

// Reset clears the in-flight word without changing configuration.
func (c *Core) Reset() { c.orch.reset() }

// HandleKey feeds one key event to the engine. handled reports whether the
// engine consumed the key (the host should still forward it when handled
// is false, or when Reply carries no text but the key was e.g. Return).
func (c *Core) HandleKey(ev KeyEvent) (reply Reply, handled bool) {
	if !c.enabled {
		return Reply{}, false
	}
	r, forward := c.orch.HandleKey(ev)
	return r, !forward
}

// CurrentBufferUnicode returns the Unicode rendering of the word currently
// being composed, without affecting engine state. Used for preedit display
// and debugging.
func (c *Core) CurrentBufferUnicode() string {
	return c.orch.comp.buf.toUnicodeString()
}

// CurrentBufferRaw returns the literal ASCII keystrokes of the word
// currently being composed.
func (c *Core) CurrentBufferRaw() string {
	return c.orch.comp.buf.rawString()
}
