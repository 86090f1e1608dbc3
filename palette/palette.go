// Package palette models the background color picker page: color buttons
// with an active state, keyboard shortcuts, and small text, class,
// attribute and style demos. Every change is published to subscribers.
package palette

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
)

// ErrUnknownColor is returned when selecting a color without a button.
var ErrUnknownColor = errors.New("unknown color")

// Colors are the color buttons, in page order.
var Colors = []string{"pink", "red", "yellow"}

// RandomID is the id of the button picking a random pastel.
const RandomID = "random"

const (
	DefaultColor = "pink"

	SafeTextMessage = "This is safe text content - no HTML tags will render!"
	HTMLMessage     = "This uses <strong>innerHTML</strong> - HTML tags <em>will</em> render!"

	conceptIdleColor   = "lightblue"
	conceptActiveColor = "lightcoral"
	conceptIdleText    = "This div was created on the server!"
	conceptActiveText  = "Clicked! Background changed!"
)

// Button is a rendered control button.
type Button struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Active  bool   `json:"active"`
	Pressed bool   `json:"pressed"`
}

// Snapshot is the complete page state at one version.
type Snapshot struct {
	Version      uint64   `json:"version"`
	Background   string   `json:"background"`
	Buttons      []Button `json:"buttons"`
	Output       string   `json:"output"`
	OutputHTML   bool     `json:"outputHtml"`
	Highlight    bool     `json:"highlight"`
	Clicks       int      `json:"clicks"`
	ClickTitle   string   `json:"clickTitle"`
	ConceptColor string   `json:"conceptColor"`
	ConceptText  string   `json:"conceptText"`
}

// Active returns the id of the active button, or "" when none is.
func (s Snapshot) Active() string {
	for _, b := range s.Buttons {
		if b.Active {
			return b.ID
		}
	}
	return ""
}

// Opt configures a Palette.
type Opt func(*Palette)

// WithTextSwapDelay sets how long the text demo shows the safe text before
// switching to the HTML message. Defaults to two seconds.
func WithTextSwapDelay(d time.Duration) Opt {
	return func(p *Palette) {
		p.swapDelay = d
	}
}

// WithRand sets the random source used for pastel colors.
func WithRand(r *rand.Rand) Opt {
	return func(p *Palette) {
		p.rand = r
	}
}

// WithLogger sets the palette logger.
func WithLogger(logger *slog.Logger) Opt {
	return func(p *Palette) {
		p.logger = logger
	}
}

// Palette is the mutable page state. It is safe for concurrent use.
type Palette struct {
	mu    sync.Mutex
	state Snapshot
	rand  *rand.Rand

	swapDelay time.Duration
	swapTimer *time.Timer

	nextSub uint64
	subs    map[uint64]chan Snapshot

	logger *slog.Logger
}

// New returns a palette in its default state: pink background with the
// pink button active.
func New(opts ...Opt) *Palette {
	p := &Palette{
		swapDelay: 2 * time.Second,
		subs:      make(map[uint64]chan Snapshot),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rand == nil {
		p.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	buttons := make([]Button, 0, len(Colors)+1)
	for _, c := range Colors {
		buttons = append(buttons, Button{ID: c, Label: c})
	}
	buttons = append(buttons, Button{ID: RandomID, Label: RandomID})

	p.state = Snapshot{
		Buttons:      buttons,
		ConceptColor: conceptIdleColor,
		ConceptText:  conceptIdleText,
	}
	p.paint(DefaultColor, DefaultColor)
	return p
}

// Snapshot returns a copy of the current state.
func (p *Palette) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot()
}

func (p *Palette) snapshot() Snapshot {
	s := p.state
	s.Buttons = append([]Button(nil), p.state.Buttons...)
	return s
}

// paint sets the background and marks exactly the active button, or none
// when active is "".
func (p *Palette) paint(background, active string) {
	p.state.Background = background
	for i := range p.state.Buttons {
		on := p.state.Buttons[i].ID == active
		p.state.Buttons[i].Active = on
		p.state.Buttons[i].Pressed = on
	}
}

// publish bumps the version and hands the snapshot to every subscriber,
// replacing a value the subscriber has not received yet. Callers hold mu.
func (p *Palette) publish() {
	p.state.Version++
	snap := p.snapshot()
	for _, ch := range p.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

// Select paints the background with a color button and makes it the only
// active one.
func (p *Palette) Select(color string) error {
	found := false
	for _, c := range Colors {
		if c == color {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %q", ErrUnknownColor, color)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.paint(color, color)
	p.publish()
	return nil
}

// Random paints a random pastel and clears every active state. It returns
// the chosen color.
func (p *Palette) Random() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	color := randomPastel(p.rand)
	p.paint(color, "")
	p.publish()
	return color
}

// randomPastel returns "rgb(r, g, b)" with every channel in [128, 254].
func randomPastel(r *rand.Rand) string {
	channel := func() int { return 128 + r.IntN(127) }
	return fmt.Sprintf("rgb(%d, %d, %d)", channel(), channel(), channel())
}

// Key applies a keyboard shortcut: p, r and y select a color, space picks
// a random one. Keys are case-insensitive. It reports whether the key was
// handled.
func (p *Palette) Key(key string) bool {
	switch strings.ToLower(key) {
	case "p":
		_ = p.Select("pink")
	case "r":
		_ = p.Select("red")
	case "y":
		_ = p.Select("yellow")
	case " ", "space":
		p.Random()
	default:
		return false
	}
	return true
}

// TextDemo shows the safe text message, then the HTML message once the swap
// delay has passed. Clicking again restarts the delay.
func (p *Palette) TextDemo() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state.Output = SafeTextMessage
	p.state.OutputHTML = false
	p.publish()

	if p.swapTimer != nil {
		p.swapTimer.Stop()
	}
	p.swapTimer = time.AfterFunc(p.swapDelay, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.state.Output = HTMLMessage
		p.state.OutputHTML = true
		p.publish()
	})
}

// ToggleHighlight toggles the highlight class on the output and reports
// the change in its text. It returns the new class state.
func (p *Palette) ToggleHighlight() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state.Highlight = !p.state.Highlight
	if p.state.Highlight {
		p.state.Output = `Class "highlight" added!`
	} else {
		p.state.Output = `Class "highlight" removed!`
	}
	p.state.OutputHTML = false
	p.publish()
	return p.state.Highlight
}

// ClickAttribute counts a click on the attribute button and returns the
// new count.
func (p *Palette) ClickAttribute() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state.Clicks++
	p.state.ClickTitle = fmt.Sprintf("Button clicked %d times", p.state.Clicks)
	p.state.Output = fmt.Sprintf("Button clicked %d times (check button attributes!)", p.state.Clicks)
	p.state.OutputHTML = false
	p.publish()
	return p.state.Clicks
}

// ToggleConcept flips the created div between its two backgrounds.
func (p *Palette) ToggleConcept() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state.ConceptColor == conceptIdleColor {
		p.state.ConceptColor = conceptActiveColor
		p.state.ConceptText = conceptActiveText
	} else {
		p.state.ConceptColor = conceptIdleColor
		p.state.ConceptText = conceptIdleText
	}
	p.publish()
	return p.state.ConceptColor
}

// Subscribe returns a channel receiving the current snapshot followed by
// every later one. Slow subscribers only see the latest snapshot. The
// returned func unsubscribes and closes the channel.
func (p *Palette) Subscribe() (<-chan Snapshot, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextSub
	p.nextSub++
	ch := make(chan Snapshot, 1)
	ch <- p.snapshot()
	p.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.subs, id)
			close(ch)
		})
	}
}

// Close stops a pending text swap.
func (p *Palette) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.swapTimer != nil {
		p.swapTimer.Stop()
	}
}
