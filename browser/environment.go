package browser

import (
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"payment-form/types"
	"payment-form/utils"
)

// Environment owns the current browser snapshot and fans resize events out
// to subscribers.
type Environment struct {
	mu        sync.Mutex
	snapshot  types.BrowserContext
	nextID    int
	listeners map[int]func(types.BrowserContext)
}

func NewEnvironment(initial types.BrowserContext) *Environment {
	return &Environment{
		snapshot:  initial,
		listeners: make(map[int]func(types.BrowserContext)),
	}
}

func (e *Environment) Snapshot() types.BrowserContext {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot
}

// Resize records new screen dimensions and notifies every subscriber.
func (e *Environment) Resize(width, height int) {
	e.Update(func(c *types.BrowserContext) {
		c.ScreenWidth = width
		c.ScreenHeight = height
	})
}

// Update applies fn to the snapshot and notifies every subscriber.
func (e *Environment) Update(fn func(*types.BrowserContext)) {
	e.mu.Lock()
	fn(&e.snapshot)
	snapshot := e.snapshot
	listeners := make([]func(types.BrowserContext), 0, len(e.listeners))
	for _, l := range e.listeners {
		listeners = append(listeners, l)
	}
	e.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

// Subscribe registers fn for resize events. The returned func removes it
// and is safe to call more than once.
func (e *Environment) Subscribe(fn func(types.BrowserContext)) func() {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.listeners, id)
			e.mu.Unlock()
		})
	}
}

func (e *Environment) Subscribers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}

// LocalContext describes the machine the CLI runs on.
func LocalContext(now time.Time, width, height int) types.BrowserContext {
	return types.BrowserContext{
		UserAgent:      "payment-form/1.0 (" + runtime.GOOS + "; " + runtime.GOARCH + ")",
		Language:       localLanguage(),
		ColorDepth:     24,
		UTCOffset:      utils.FormatUTCOffset(now),
		ScreenWidth:    width,
		ScreenHeight:   height,
		TimezoneOffset: utils.TimezoneOffsetMinutes(now),
	}
}

// localLanguage turns LANG=en_US.UTF-8 into en-US.
func localLanguage() string {
	lang := os.Getenv("LANG")
	if i := strings.IndexAny(lang, ".@"); i >= 0 {
		lang = lang[:i]
	}
	if lang == "" || lang == "C" || lang == "POSIX" {
		return "en-US"
	}
	return strings.ReplaceAll(lang, "_", "-")
}
