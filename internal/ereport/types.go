package ereport

import (
	"errors"
	"time"
)

// ErrUnsupportedScheme is returned when a detector uses a scheme we can't key
var ErrUnsupportedScheme = errors.New("unsupported detector scheme")

// ErrIncompleteDetector is returned when a known scheme lacks the field its key is built from
var ErrIncompleteDetector = errors.New("incomplete detector")

// Detector schemes as they appear on the wire
const (
	SchemeDev = "dev"
	SchemeHc  = "hc"
	SchemeFmd = "fmd"
)

// Ereport is a single fault-management error report
type Ereport struct {
	Class    string
	Detector Detector
	TOD      []int64
}

// Time returns the event time. TOD[0] is seconds since the epoch.
func (e *Ereport) Time() time.Time {
	if len(e.TOD) == 0 {
		return time.Time{}
	}
	return time.Unix(e.TOD[0], 0).UTC()
}

// Detector describes the subsystem or component that raised an ereport.
// The set of implementations is closed: DevDetector, HcDetector,
// FmdDetector and UnknownDetector.
type Detector interface {
	Scheme() string
	isDetector()
}

// DevDetector is a dev-scheme detector, identified by its device path
type DevDetector struct {
	Path string
}

// HcDetector is a hardware-component detector
type HcDetector struct {
	Pairs []HcPair
}

// HcPair is one element of an hc-scheme component list
type HcPair struct {
	Name string `json:"hc-name"`
	ID   string `json:"hc-id"`
}

// FmdDetector is raised by an fmd module
type FmdDetector struct {
	Module string
}

// UnknownDetector carries any scheme we don't handle
type UnknownDetector struct {
	Name string
}

func (DevDetector) Scheme() string { return SchemeDev }
func (HcDetector) Scheme() string { return SchemeHc }
func (FmdDetector) Scheme() string { return SchemeFmd }
func (d UnknownDetector) Scheme() string { return d.Name }

func (DevDetector) isDetector() {}
func (HcDetector) isDetector() {}
func (FmdDetector) isDetector() {}
func (UnknownDetector) isDetector() {}
