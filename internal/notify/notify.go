// Package notify raises desktop notifications for capture outcomes. The
// orchestrator owns deciding when; this package owns formatting and
// platform dispatch.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"strings"

	"github.com/example/glintshot/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventFailure fires when a capture session fails.
	EventFailure Event = "failure"
	// EventTooSmall fires when a confirmed selection is under the minimum.
	EventTooSmall Event = "too_small"
	// EventExported fires when a crop reaches its destination.
	EventExported Event = "exported"
)

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "glintshot",
		Events: map[Event]EventPreference{
			EventFailure:  {Template: "Capture failed: %s"},
			EventTooSmall: {Template: "Selection too small: %s"},
			EventExported: {Template: "Exported %s"},
		},
	}
}

// LoadPreferences reads template overrides from environment variables.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("GLINTSHOT_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	apply := func(key string, event Event) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			eventPrefs := prefs.Events[event]
			eventPrefs.Template = v
			prefs.Events[event] = eventPrefs
		}
	}
	apply("GLINTSHOT_NOTIFY_FAILURE_TEXT", EventFailure)
	apply("GLINTSHOT_NOTIFY_TOO_SMALL_TEXT", EventTooSmall)
	apply("GLINTSHOT_NOTIFY_EXPORTED_TEXT", EventExported)
	return prefs
}

// notifyFn is swapped out in tests.
var notifyFn = platform.Notify

// Notifier sends OS-level notifications based on the configured preferences.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
}

// New creates a Notifier using the provided preferences. All events start
// disabled.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool)}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	if n.enabled == nil {
		n.enabled = make(map[Event]bool)
	}
	n.enabled[event] = enabled
}

// Failure sends a capture failure notification.
func (n *Notifier) Failure(detail string) {
	n.dispatch(EventFailure, detail, platform.Options{})
}

// TooSmall sends a rejected-selection notification.
func (n *Notifier) TooSmall(detail string) {
	n.dispatch(EventTooSmall, detail, platform.Options{})
}

// Exported sends an export notification with an optional image preview.
func (n *Notifier) Exported(detail string, img image.Image) {
	if !n.enabledFor(EventExported) {
		return
	}
	opts := platform.Options{}
	if img != nil {
		if path, cleanup, err := createPreview(img); err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventExported, detail, opts)
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil || n.enabled == nil {
		return false
	}
	return n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.enabledFor(event) {
		return
	}
	template := strings.TrimSpace(n.template(event))
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := notifyFn(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

func (n *Notifier) template(event Event) string {
	if n == nil {
		return ""
	}
	if pref, ok := n.prefs.Events[event]; ok {
		return pref.Template
	}
	return ""
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "glintshot-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}
	return path, cleanup, nil
}
