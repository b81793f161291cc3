// Package notes is the static catalog of the eight sargam notes.
package notes

// Note describes one playable note: its logical id, the sargam display
// name, the keyboard key bound to it, the sample file it plays, and the
// MIDI pitch used when echoing to a synth.
type Note struct {
	ID      string
	Display string
	Key     string
	File    string
	Pitch   uint8
}

// Catalog is the fixed note table, in scale order. The ids double as
// trigger identifiers and as keys in persisted recordings.
var Catalog = []Note{
	{ID: "sa", Display: "Sa", Key: "a", File: "sa.wav", Pitch: 60},
	{ID: "re", Display: "Re", Key: "s", File: "re.wav", Pitch: 62},
	{ID: "ga", Display: "Ga", Key: "d", File: "ga.wav", Pitch: 64},
	{ID: "ma", Display: "Ma", Key: "f", File: "ma.wav", Pitch: 65},
	{ID: "pa", Display: "Pa", Key: "g", File: "pa.wav", Pitch: 67},
	{ID: "dha", Display: "Dha", Key: "h", File: "dha.wav", Pitch: 69},
	{ID: "ni", Display: "Ni", Key: "j", File: "ni.wav", Pitch: 71},
	{ID: "sa_high", Display: "Sa'", Key: "k", File: "sa_high.wav", Pitch: 72},
}

var (
	byKey = make(map[string]Note, len(Catalog))
	byID  = make(map[string]Note, len(Catalog))
)

func init() {
	for _, n := range Catalog {
		byKey[n.Key] = n
		byID[n.ID] = n
	}
}

// ByKey looks up the note bound to a keyboard key.
func ByKey(key string) (Note, bool) {
	n, ok := byKey[key]
	return n, ok
}

// ByID looks up a note by its logical id.
func ByID(id string) (Note, bool) {
	n, ok := byID[id]
	return n, ok
}
