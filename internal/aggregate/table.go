package aggregate

import (
	"sort"

	"github.com/sigreer/fmlogreport/internal/ereport"
)

// DayLayout is the day bucket format (UTC calendar day)
const DayLayout = "2006-01-02"

// Entry holds the running statistics for one device identity key
type Entry struct {
	Key string

	// Classes counts ereports by class
	Classes map[string]int

	// Days counts ereports by UTC day; DayOrder lists each day once,
	// in the order its first ereport was seen
	Days     map[string]int
	DayOrder []string

	// Events holds every ereport for the device in input order
	Events []*ereport.Ereport
}

// Total returns the number of ereports recorded for the device
func (e *Entry) Total() int {
	return len(e.Events)
}

// ClassCount is one row of a class histogram
type ClassCount struct {
	Class string `json:"class"`
	Count int    `json:"count"`
}

// DayCount is one row of a day histogram
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// SortedClasses returns the class histogram, most frequent first
func (e *Entry) SortedClasses() []ClassCount {
	out := make([]ClassCount, 0, len(e.Classes))
	for class, n := range e.Classes {
		out = append(out, ClassCount{Class: class, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Class < out[j].Class
	})
	return out
}

// Distribution returns the day histogram in first-seen order
func (e *Entry) Distribution() []DayCount {
	out := make([]DayCount, 0, len(e.DayOrder))
	for _, day := range e.DayOrder {
		out = append(out, DayCount{Day: day, Count: e.Days[day]})
	}
	return out
}

// Table maps device identity keys to their entries.
// It is owned by a single goroutine for the length of a run.
type Table struct {
	entries map[string]*Entry
	keys    []string
}

// New creates an empty table
func New() *Table {
	return &Table{
		entries: make(map[string]*Entry),
	}
}

// Record adds an ereport to the entry for key, creating it on first use.
// Every call counts as a distinct event.
func (t *Table) Record(key string, ev *ereport.Ereport) {
	day := ev.Time().Format(DayLayout)

	entry, ok := t.entries[key]
	if !ok {
		t.entries[key] = &Entry{
			Key:      key,
			Classes:  map[string]int{ev.Class: 1},
			Days:     map[string]int{day: 1},
			DayOrder: []string{day},
			Events:   []*ereport.Ereport{ev},
		}
		t.keys = append(t.keys, key)
		return
	}

	entry.Classes[ev.Class]++
	if _, seen := entry.Days[day]; !seen {
		entry.DayOrder = append(entry.DayOrder, day)
	}
	entry.Days[day]++
	entry.Events = append(entry.Events, ev)
}

// Get returns the entry for key, or nil
func (t *Table) Get(key string) *Entry {
	return t.entries[key]
}

// Len returns the number of devices in the table
func (t *Table) Len() int {
	return len(t.entries)
}

// Keys returns device keys in the order they were first recorded
func (t *Table) Keys() []string {
	keys := make([]string, len(t.keys))
	copy(keys, t.keys)
	return keys
}

// Entries returns all entries in first-recorded order
func (t *Table) Entries() []*Entry {
	out := make([]*Entry, 0, len(t.keys))
	for _, k := range t.keys {
		out = append(out, t.entries[k])
	}
	return out
}
