package pipeline

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/sigreer/fmlogreport/internal/aggregate"
	"github.com/sigreer/fmlogreport/internal/ereport"
	"github.com/sigreer/fmlogreport/internal/logger"
)

// maxLineSize bounds a single fmdump JSON line
const maxLineSize = 16 * 1024 * 1024

// OutcomeKind says what happened to one input line
type OutcomeKind int

const (
	Recorded OutcomeKind = iota
	Filtered
	Dropped
)

func (k OutcomeKind) String() string {
	switch k {
	case Recorded:
		return "recorded"
	case Filtered:
		return "filtered"
	case Dropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Drop reasons
const (
	DropUnsupportedScheme  = "unsupported_scheme"
	DropIncompleteDetector = "incomplete_detector"
)

// Outcome is the per-record result of processing a line. A Dropped
// outcome is recoverable; fatal problems are returned as errors instead.
type Outcome struct {
	Kind   OutcomeKind
	Key    string
	Reason string
}

// Stats counts what a run did with its input
type Stats struct {
	Lines    int
	Recorded int
	Filtered map[ereport.FilterReason]int
	Dropped  map[string]int
}

// FilteredTotal returns the number of filtered lines
func (s Stats) FilteredTotal() int {
	n := 0
	for _, v := range s.Filtered {
		n += v
	}
	return n
}

// DroppedTotal returns the number of dropped ereports
func (s Stats) DroppedTotal() int {
	n := 0
	for _, v := range s.Dropped {
		n += v
	}
	return n
}

// Pipeline feeds event lines into an aggregation table
type Pipeline struct {
	table    *aggregate.Table
	envelope ereport.EnvelopeParser
	stats    Stats
}

// New creates a pipeline that records into table
func New(table *aggregate.Table) *Pipeline {
	return &Pipeline{
		table: table,
		stats: Stats{
			Filtered: make(map[ereport.FilterReason]int),
			Dropped:  make(map[string]int),
		},
	}
}

// Stats returns the counters so far
func (p *Pipeline) Stats() Stats {
	return p.stats
}

// Process handles one event line. The returned error is fatal for the run.
func (p *Pipeline) Process(line []byte) (Outcome, error) {
	p.stats.Lines++

	class, err := p.envelope.Class(line)
	if err != nil {
		return Outcome{}, fmt.Errorf("malformed event: %w", err)
	}

	if reason, skip := ereport.Filter(class); skip {
		p.stats.Filtered[reason]++
		return Outcome{Kind: Filtered, Reason: string(reason)}, nil
	}

	ev, err := ereport.Decode(line)
	if err != nil {
		return Outcome{}, fmt.Errorf("malformed ereport %s: %w", class, err)
	}

	var key string
	switch det := ev.Detector.(type) {
	case ereport.DevDetector:
		if det.Path == "" {
			logger.Warnf("dev detector without device-path in %s - skipping", class)
			return p.drop(DropIncompleteDetector), nil
		}
		key = ereport.DevKey(det.Path)
	case ereport.HcDetector, ereport.FmdDetector:
		key, err = ereport.Resolve(det)
		if err != nil {
			logger.Warnf("failed to get fmri for %s: %v", class, err)
			return p.drop(dropReason(err)), nil
		}
	default:
		logger.Warnf("unsupported detector scheme %q in %s - skipping", ev.Detector.Scheme(), class)
		return p.drop(DropUnsupportedScheme), nil
	}

	p.table.Record(key, ev)
	p.stats.Recorded++
	return Outcome{Kind: Recorded, Key: key}, nil
}

func (p *Pipeline) drop(reason string) Outcome {
	p.stats.Dropped[reason]++
	return Outcome{Kind: Dropped, Reason: reason}
}

func dropReason(err error) string {
	if errors.Is(err, ereport.ErrUnsupportedScheme) {
		return DropUnsupportedScheme
	}
	return DropIncompleteDetector
}

// Run reads r line by line into table. Blank lines are ignored. The first
// malformed line stops the run with an error naming its line number.
func Run(r io.Reader, table *aggregate.Table) (Stats, error) {
	p := New(table)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		outcome, err := p.Process(line)
		if err != nil {
			return p.Stats(), fmt.Errorf("line %d: %w", lineNum, err)
		}
		logger.Debugf("line %d: %s %s%s", lineNum, outcome.Kind, outcome.Key, outcome.Reason)
	}
	if err := scanner.Err(); err != nil {
		return p.Stats(), fmt.Errorf("reading input at line %d: %w", lineNum+1, err)
	}

	s := p.Stats()
	logger.Infof("processed %d lines: %d recorded, %d filtered, %d dropped, %d devices",
		s.Lines, s.Recorded, s.FilteredTotal(), s.DroppedTotal(), table.Len())
	return s, nil
}
