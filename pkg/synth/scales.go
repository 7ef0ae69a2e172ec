package synth

import "math"

// Scale is a named looping note sequence for the melody voice.
type Scale struct {
	Name  string
	Notes []float64
}

// NoteFreq converts a MIDI note number to its frequency in Hz.
func NoteFreq(midi int) float64 {
	return 440 * math.Pow(2, float64(midi-69)/12)
}

func notes(midi ...int) []float64 {
	out := make([]float64, len(midi))
	for i, n := range midi {
		out[i] = NoteFreq(n)
	}
	return out
}

// scales maps each scene side to its melody. One scale per face plus
// the neutral center set; the audio mapper looks them up by the side
// name.
var scales = []Scale{
	{Name: "front", Notes: notes(60, 64, 67, 71, 72, 71, 67, 64)},  // C major 7 arp
	{Name: "back", Notes: notes(57, 60, 64, 65, 64, 60)},           // A minor lift
	{Name: "left", Notes: notes(62, 65, 69, 72, 74, 72, 69, 65)},   // D minor 7 arp
	{Name: "right", Notes: notes(67, 71, 74, 78, 79, 78, 74, 71)},  // G major 7 arp
	{Name: "top", Notes: notes(72, 76, 79, 83, 84, 83, 79, 76)},    // C major 7, octave up
	{Name: "bottom", Notes: notes(48, 52, 55, 59, 60, 59, 55, 52)}, // C major 7, octave down
	{Name: "center", Notes: notes(60, 62, 64, 67, 69)},             // C pentatonic
}

// ScaleByName returns the scale for a side name, falling back to the
// center scale for anything unknown.
func ScaleByName(name string) Scale {
	for _, s := range scales {
		if s.Name == name {
			return s
		}
	}
	return scales[len(scales)-1]
}

// ScaleNames lists every available scale, center last.
func ScaleNames() []string {
	out := make([]string, len(scales))
	for i, s := range scales {
		out[i] = s.Name
	}
	return out
}
