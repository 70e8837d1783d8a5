package entities

// PlaybackStatus is the state of the playback sequencer.
type PlaybackStatus string

const (
	StatusIdle    PlaybackStatus = "idle"    // no chapter loaded
	StatusReady   PlaybackStatus = "ready"   // chapter loaded, not playing
	StatusPlaying PlaybackStatus = "playing" // current verse audio is playing
)

// PlaybackState is a snapshot of the sequencer state.
type PlaybackState struct {
	Status        PlaybackStatus
	ChapterNumber int // 0 when idle
	VerseIndex    int
	FirstIndex    int
	LastIndex     int
}

// PlaybackEvent is emitted to listeners after every sequencer change.
type PlaybackEvent struct {
	State         PlaybackState
	PrevIndex     int
	ChapterLoaded bool // a new chapter content was selected
}

// IndexChanged reports whether the current verse changed.
func (e PlaybackEvent) IndexChanged() bool {
	return e.ChapterLoaded || e.State.VerseIndex != e.PrevIndex
}
