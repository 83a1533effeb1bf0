// Package history accumulates practice minutes per calendar day on top of an
// opaque key-value Backend. The whole day mapping lives under a single key as
// a JSON object {"YYYY-MM-DD": minutes}.
package history

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"
)

// Key is the backend key holding the serialized day mapping.
const Key = "breathingHistory"

// dayLayout is the locale-independent day key format. Keys sort
// chronologically as plain strings.
const dayLayout = "2006-01-02"

// Backend persists opaque values by key.
type Backend interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Close() error
}

// Day is one day's accumulated practice.
type Day struct {
	Key     string  `json:"day" yaml:"day"`
	Minutes float64 `json:"minutes" yaml:"minutes"`
}

// DayKey returns the local calendar date of t as YYYY-MM-DD. The zone is
// read at call time, so a zone change mid-session can move the key.
func DayKey(t time.Time) string {
	return t.In(time.Local).Format(dayLayout)
}

// ParseDayKey parses a key produced by DayKey in the local zone.
func ParseDayKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(dayLayout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("history: parse day %q: %w", key, err)
	}
	return t, nil
}

// Store reads and updates the day mapping. It does no caching: every call
// goes to the backend, so several processes sharing a backend see each
// other's writes (last writer wins on a race).
type Store struct {
	backend Backend
	log     *log.Logger
}

// New returns a Store over backend. A nil logger uses log.Default().
func New(backend Backend, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{backend: backend, log: logger}
}

// load reads the mapping. Absent or malformed data yields an empty map;
// only backend I/O failures are returned.
func (s *Store) load() (map[string]float64, error) {
	data := make(map[string]float64)
	raw, ok, err := s.backend.Get(Key)
	if err != nil {
		return data, fmt.Errorf("history: read: %w", err)
	}
	if !ok || len(raw) == 0 {
		return data, nil
	}
	if jsonErr := json.Unmarshal(raw, &data); jsonErr != nil {
		s.log.Printf("history: ignoring malformed %s: %v", Key, jsonErr)
		return make(map[string]float64), nil
	}
	if data == nil {
		s.log.Printf("history: ignoring malformed %s: null", Key)
		return make(map[string]float64), nil
	}
	return data, nil
}

// AddMinutes adds minutes to day's total and writes the whole mapping back.
func (s *Store) AddMinutes(day string, minutes float64) error {
	if minutes < 0 {
		return fmt.Errorf("history: negative minutes %v", minutes)
	}
	data, err := s.load()
	if err != nil {
		return err
	}
	data[day] += minutes

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("history: marshal: %w", err)
	}
	if err := s.backend.Set(Key, raw); err != nil {
		return fmt.Errorf("history: write: %w", err)
	}
	return nil
}

// GetMinutes returns day's total, 0 when absent or unreadable.
func (s *Store) GetMinutes(day string) float64 {
	data, err := s.load()
	if err != nil {
		s.log.Printf("%v", err)
		return 0
	}
	return data[day]
}

// Days returns every recorded day in ascending order.
func (s *Store) Days() ([]Day, error) {
	data, err := s.load()
	if err != nil {
		return nil, err
	}
	days := make([]Day, 0, len(data))
	for k, v := range data {
		days = append(days, Day{Key: k, Minutes: v})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Key < days[j].Key })
	return days, nil
}

// Since returns the days on or after from's calendar date, ascending.
func (s *Store) Since(from time.Time) ([]Day, error) {
	all, err := s.Days()
	if err != nil {
		return nil, err
	}
	cut := DayKey(from)
	i := sort.Search(len(all), func(i int) bool { return all[i].Key >= cut })
	return all[i:], nil
}

// Total sums the given days.
func Total(days []Day) float64 {
	var total float64
	for _, d := range days {
		total += d.Minutes
	}
	return total
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
