package ereport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/valyala/fastjson"
)

// EnvelopeParser reads just the class out of an event line.
// It reuses its parser between calls and is not safe for concurrent use.
type EnvelopeParser struct {
	p fastjson.Parser
}

// Class returns the class member of a JSON object line
func (ep *EnvelopeParser) Class(line []byte) (string, error) {
	v, err := ep.p.ParseBytes(line)
	if err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}
	if v.Type() != fastjson.TypeObject {
		return "", fmt.Errorf("expected JSON object, got %s", v.Type())
	}
	cv := v.Get("class")
	if cv == nil {
		return "", errors.New("missing class")
	}
	class, err := cv.StringBytes()
	if err != nil {
		return "", fmt.Errorf("class: %w", err)
	}
	return string(class), nil
}

// wireEreport mirrors the fmdump -AVj line layout
type wireEreport struct {
	Class    *string         `json:"class"`
	Detector json.RawMessage `json:"detector"`
	TOD      []int64         `json:"__tod"`
}

type wireDetector struct {
	Scheme     *string  `json:"scheme"`
	DevicePath string   `json:"device-path"`
	HcList     []HcPair `json:"hc-list"`
	ModName    string   `json:"mod-name"`
}

// Decode parses a full ereport line
func Decode(line []byte) (*Ereport, error) {
	var w wireEreport
	if err := json.Unmarshal(line, &w); err != nil {
		return nil, err
	}
	if w.Class == nil {
		return nil, errors.New("missing class")
	}
	if len(w.TOD) == 0 {
		return nil, errors.New("missing __tod")
	}
	det, err := decodeDetector(w.Detector)
	if err != nil {
		return nil, err
	}
	return &Ereport{
		Class:    *w.Class,
		Detector: det,
		TOD:      w.TOD,
	}, nil
}

func decodeDetector(raw json.RawMessage) (Detector, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, errors.New("missing detector")
	}

	var wd wireDetector
	if err := json.Unmarshal(raw, &wd); err != nil {
		return nil, fmt.Errorf("detector: %w", err)
	}
	if wd.Scheme == nil {
		return nil, errors.New("detector: missing scheme")
	}

	switch *wd.Scheme {
	case SchemeDev:
		return DevDetector{Path: wd.DevicePath}, nil
	case SchemeHc:
		return HcDetector{Pairs: wd.HcList}, nil
	case SchemeFmd:
		return FmdDetector{Module: wd.ModName}, nil
	default:
		return UnknownDetector{Name: *wd.Scheme}, nil
	}
}
