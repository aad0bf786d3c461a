package sanitize

import (
	"regexp"
	"strings"

	"github.com/tuusuario/wm-trace-snapshots/internal/core"
)

const redactedTitle = "***REDACTED***"

// Options configures which captured titles get redacted before a trace
// is persisted. Window titles routinely leak document names, URLs, and
// account identifiers into CI artifacts.
type Options struct {
	// RedactAll replaces every non-system window title.
	RedactAll bool
	// SensitiveWords redacts any title containing one of these,
	// case-insensitively.
	SensitiveWords []string
	// Patterns redacts titles matching any of these regexps.
	Patterns []string
}

// DefaultOptions redacts the obvious credential-bearing titles and
// nothing else.
func DefaultOptions() Options {
	return Options{
		SensitiveWords: []string{
			"password", "secret", "token", "credentials",
			"private", "incognito",
		},
	}
}

// Sanitizer rewrites trace entries in place before persistence.
type Sanitizer struct {
	opts     Options
	patterns []*regexp.Regexp
}

func NewSanitizer(opts Options) (*Sanitizer, error) {
	s := &Sanitizer{opts: opts}
	for _, p := range opts.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		s.patterns = append(s.patterns, re)
	}
	return s, nil
}

// SanitizeEntries replaces sensitive window titles across all entries
// of a trace. Window states are immutable, so redaction rebuilds the
// affected states rather than editing them; identity fields derived
// from the title are rewritten the same way so redacted traces still
// diff against each other.
func (s *Sanitizer) SanitizeEntries(entries []core.Entry) error {
	for ei := range entries {
		for wi, w := range entries[ei].Windows {
			title := w.Title()
			if !s.shouldRedact(w, title) {
				continue
			}

			redacted, err := rebuildWithTitle(w, redactedTitle, title)
			if err != nil {
				return err
			}
			entries[ei].Windows[wi] = redacted
		}
	}
	return nil
}

func (s *Sanitizer) shouldRedact(w *core.WindowState, title string) bool {
	// System layers (nav bar etc.) keep their titles; diff output is
	// useless without them and they never carry user data.
	if !w.IsAppWindow() && w.IsValidNavBarType() {
		return false
	}
	if s.opts.RedactAll && w.IsAppWindow() {
		return true
	}
	lower := strings.ToLower(title)
	for _, word := range s.opts.SensitiveWords {
		if strings.Contains(lower, strings.ToLower(word)) {
			return true
		}
	}
	for _, re := range s.patterns {
		if re.MatchString(title) {
			return true
		}
	}
	return false
}

func rebuildWithTitle(w *core.WindowState, title, oldTitle string) (*core.WindowState, error) {
	rects := core.WindowRects{}
	for _, pair := range []struct {
		dst **core.Rect
		src core.Rect
	}{
		{&rects.Frame, w.Frame()},
		{&rects.ContainingFrame, w.ContainingFrame()},
		{&rects.ParentFrame, w.ParentFrame()},
		{&rects.ContentFrame, w.ContentFrame()},
		{&rects.ContentInsets, w.ContentInsets()},
		{&rects.SurfaceInsets, w.SurfaceInsets()},
		{&rects.GivenContentInsets, w.GivenContentInsets()},
		{&rects.Crop, w.Crop()},
	} {
		r := pair.src
		*pair.dst = &r
	}

	return core.NewWindowState(core.WindowStateConfig{
		Attributes:      w.Attributes(),
		DisplayID:       w.DisplayID(),
		StackID:         w.StackID(),
		Layer:           w.Layer(),
		IsSurfaceShown:  w.IsSurfaceShown(),
		WindowType:      w.WindowType(),
		RequestedSize:   w.RequestedSize(),
		SurfacePosition: w.SurfacePosition(),
		Rects:           rects,
		IsAppWindow:     w.IsAppWindow(),
		Container: core.ContainerConfig{
			Title: title,
			Token: w.Token(),
			// The stable ID embeds the title; rewrite it consistently
			// so the same window redacts to the same identity in every
			// trace.
			StableID: strings.ReplaceAll(w.StableID(), oldTitle, title),
			Visible:  w.Container().IsVisible(),
			Parent:   w.Container().Parent(),
		},
	})
}
