package zcstring

import "context"

// Source holds the View that decoders currently resolve strings against.
// A Source belongs to a single goroutine: it takes no locks, and installing
// a View in one Source is invisible to every other Source. Goroutines that
// decode in parallel each use their own.
//
// The current View is only changed through Guard, Run and WithSource,
// which always put the previous View back when their scope ends.
type Source struct {
	cur View
	set bool
}

// NewSource returns an empty Source.
func NewSource() *Source { return &Source{} }

// Current returns the installed View, if any.
func (s *Source) Current() (View, bool) { return s.cur, s.set }

// Install makes v the current View and returns the one it replaced.
// Prefer Guard, which arranges for the previous View to come back.
func (s *Source) Install(v View) (prev View, ok bool) {
	prev, ok = s.cur, s.set
	s.cur, s.set = v, true
	return prev, ok
}

func (s *Source) restore(v View, ok bool) {
	s.cur, s.set = v, ok
}

// FromString returns s as a View sharing the current source's buffer when s
// lies inside it, and as a new allocation otherwise.
func (s *Source) FromString(str string) View {
	if src, ok := s.Current(); ok {
		return src.ResliceOrCopy(str)
	}
	return Copy(str)
}

// Resolve turns a decoded token into a View. Borrowed text is checked
// against the current source; owned text no longer aliases the input and
// always gets a buffer of its own.
func (s *Source) Resolve(t Token) View {
	if t.Owned {
		return NewBuffer(t.Text).View()
	}
	return s.FromString(t.Text)
}

// Guard scopes one installation of a View in a Source.
//
//	g := src.Guard(doc)
//	defer g.Close()
type Guard struct {
	src  *Source
	prev View
	had  bool
	done bool
}

// Guard installs v and returns a Guard that restores the previous View.
func (s *Source) Guard(v View) *Guard {
	prev, had := s.Install(v)
	return &Guard{src: s, prev: prev, had: had}
}

// Close restores the View that was current when the guard was created.
// Calling Close more than once has no further effect.
func (g *Guard) Close() {
	if g.done {
		return
	}
	g.done = true
	g.src.restore(g.prev, g.had)
}

// Run calls fn with v installed and restores the previous View before
// returning, whether fn returns an error or panics.
func (s *Source) Run(v View, fn func(View) error) error {
	g := s.Guard(v)
	defer g.Close()
	return fn(v)
}

// WithSource is Run for functions that produce a value.
func WithSource[R any](s *Source, v View, fn func(View) (R, error)) (R, error) {
	g := s.Guard(v)
	defer g.Close()
	return fn(v)
}

// Token is a string reported by a decoder, tagged with whether its text
// was borrowed verbatim from the input or built by the decoder (for
// example after unescaping).
type Token struct {
	Text  string
	Owned bool
}

// Borrowed tags text that is a slice of the decoder input.
func Borrowed(text string) Token { return Token{Text: text} }

// Owned tags text the decoder allocated itself.
func Owned(text string) Token { return Token{Text: text, Owned: true} }

type sourceKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Source) context.Context {
	return context.WithValue(ctx, sourceKey{}, s)
}

// FromContext returns the Source carried by ctx, or nil.
func FromContext(ctx context.Context) *Source {
	s, _ := ctx.Value(sourceKey{}).(*Source)
	return s
}
