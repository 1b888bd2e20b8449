package ereport

import (
	"fmt"
	"strings"
)

// Key prefixes for each detector scheme
const (
	DevPrefix = "dev://"
	HcPrefix  = "hc://"
	FmdPrefix = "fmd:///module/"
)

// Resolve builds the FMRI-style identity key for a detector.
// The same detector content always yields the same key.
func Resolve(d Detector) (string, error) {
	switch det := d.(type) {
	case DevDetector:
		if det.Path == "" {
			return "", fmt.Errorf("%w: dev detector has no device-path", ErrIncompleteDetector)
		}
		return DevKey(det.Path), nil
	case HcDetector:
		if len(det.Pairs) == 0 {
			return "", fmt.Errorf("%w: hc detector has no hc-list", ErrIncompleteDetector)
		}
		var b strings.Builder
		b.WriteString(HcPrefix)
		for _, p := range det.Pairs {
			b.WriteString("/")
			b.WriteString(p.Name)
			b.WriteString("=")
			b.WriteString(p.ID)
		}
		return b.String(), nil
	case FmdDetector:
		if det.Module == "" {
			return "", fmt.Errorf("%w: fmd detector has no mod-name", ErrIncompleteDetector)
		}
		return FmdPrefix + det.Module, nil
	case UnknownDetector:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, det.Name)
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedScheme, d)
	}
}

// DevKey returns the identity key for a device path
func DevKey(path string) string {
	return DevPrefix + path
}

// DevicePath extracts the device path from a dev-scheme key
func DevicePath(key string) (string, bool) {
	if !strings.HasPrefix(key, DevPrefix) {
		return "", false
	}
	return strings.TrimPrefix(key, DevPrefix), true
}
