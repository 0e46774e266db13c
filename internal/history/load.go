package history

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// LoadHistory reads and parses the history CSV at path. History is required:
// a missing or unreadable file is an error.
func LoadHistory(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	rows := ParseHistory(string(data))
	log.Info().Str("path", path).Int("rows", len(rows)).Msg("Loaded history")
	return rows, nil
}

// LoadEvents reads and parses the events CSV at path. Events are optional
// context: a missing file yields an empty set, not an error.
func LoadEvents(path string) ([]Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("path", path).Msg("No events file, continuing without")
			return nil, nil
		}
		return nil, fmt.Errorf("read events: %w", err)
	}
	events := ParseEvents(string(data))
	log.Info().Str("path", path).Int("events", len(events)).Msg("Loaded events")
	return events, nil
}
