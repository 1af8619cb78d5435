package history

import "time"

// Event is one recorded step of a build run.
type Event struct {
	ID        int64
	BuildID   string
	Type      string
	Timestamp time.Time
	Payload   []byte
	Metadata  map[string]string
}

// Version returns the semantic version the build was recorded under.
func (e Event) Version() string { return e.Metadata[MetaVersion] }
