package server

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MatchPlayer is one participant in a finished match record.
type MatchPlayer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Worms int    `json:"worms"`
}

// MatchRecord is what gets appended for every finished match.
type MatchRecord struct {
	Room      string        `json:"room"`
	Timestamp time.Time     `json:"timestamp"`
	Winner    MatchPlayer   `json:"winner"`
	Players   []MatchPlayer `json:"players"`
}

// history appends finished match records to a file, one JSON per line.
type history struct {
	mu   sync.Mutex
	path string
	log  zerolog.Logger
}

func newHistory(path string) *history {
	return &history{
		path: path,
		log:  log.With().Str("part", "history").Logger(),
	}
}

func (h *history) Append(rec MatchRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(data, '\n'))
	return err
}
