// Package voice describes the voice presets understood by the voice generator.
package voice

const (
	// MinMode is the lowest valid voice mode.
	MinMode = 0

	// MaxMode is the highest valid voice mode.
	MaxMode = 8

	// DefaultMode is used when a request does not pick one.
	DefaultMode = 0
)

// Preset is a voice configuration selectable by its mode.
type Preset struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Speed       float64 `json:"speed"`
}

var presets = [...]Preset{
	{ID: 0, Name: "Sleepy Voice", Description: "Slow, calming voice perfect for sleep", Speed: 0.8},
	{ID: 1, Name: "Chipmunk Voice", Description: "High-pitched, energetic voice", Speed: 1.7},
	{ID: 2, Name: "Slow Google TTS", Description: "Very slow Google Text-to-Speech", Speed: 0.5},
	{ID: 3, Name: "Standard Google TTS", Description: "Normal speed Google Text-to-Speech", Speed: 1.0},
	{ID: 4, Name: "Deepgram Odysseus", Description: "Deepgram voice - Odysseus", Speed: 1.0},
	{ID: 5, Name: "Deepgram Thalia", Description: "Deepgram voice - Thalia", Speed: 1.0},
	{ID: 6, Name: "Deepgram Amalthea", Description: "Deepgram voice - Amalthea", Speed: 1.0},
	{ID: 7, Name: "Deepgram Andromeda", Description: "Deepgram voice - Andromeda", Speed: 1.0},
	{ID: 8, Name: "Deepgram Apollo", Description: "Deepgram voice - Apollo", Speed: 1.0},
}

// All returns every preset ordered by mode.
func All() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets[:])
	return out
}

// Valid reports whether mode selects a known preset.
func Valid(mode int) bool {
	return mode >= MinMode && mode <= MaxMode
}

// Get returns the preset for mode.
func Get(mode int) (Preset, bool) {
	if !Valid(mode) {
		return Preset{}, false
	}
	return presets[mode], true
}
