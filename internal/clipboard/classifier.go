package clipboard

import (
	"strings"

	"github.com/lajidonggua/ClipBox/internal/datauri"
)

// Decision is the outcome of classifying one clipboard sample. It is total:
// every sample maps to exactly one decision.
type Decision int

const (
	// DecisionIgnore: noise, duplicate, or empty — no state change.
	DecisionIgnore Decision = iota
	// DecisionPassthrough: text that is already an image data URI; record it
	// as an image without re-encoding.
	DecisionPassthrough
	// DecisionNewText: genuinely new text content.
	DecisionNewText
	// DecisionNewImage: genuinely new image content.
	DecisionNewImage
)

// defaultNoiseMarkers are substrings the darwin image probe is known to
// fabricate as clipboard-visible side effects. Matching text must never enter
// the history, or the monitor would re-observe its own diagnostics forever.
var defaultNoiseMarkers = []string{
	"execution error",
	"osascript:",
}

// Classifier centralizes all de-noising so the monitor loop stays a plain
// classify-then-act dispatch.
type Classifier struct {
	noise []string
}

// NewClassifier returns a classifier with the platform noise markers.
func NewClassifier() *Classifier {
	return &Classifier{noise: defaultNoiseMarkers}
}

// Classify decides what to do with sample given the monitor's last observed
// content. Duplicate suppression runs before the pass-through check so an
// image data URI sitting on the clipboard is recorded once, not every tick.
func (c *Classifier) Classify(sample Sample, lastSeen string) Decision {
	if sample.Kind == KindNone || sample.Content == "" {
		return DecisionIgnore
	}
	if sample.Kind == KindText {
		for _, marker := range c.noise {
			if strings.Contains(sample.Content, marker) {
				return DecisionIgnore
			}
		}
	}
	if sample.Content == lastSeen {
		return DecisionIgnore
	}
	if sample.Kind == KindText && datauri.IsImage(sample.Content) {
		return DecisionPassthrough
	}
	if sample.Kind == KindImage {
		return DecisionNewImage
	}
	return DecisionNewText
}
