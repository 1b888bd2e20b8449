package ereport

import "strings"

// FilterReason names why a line was left out of the aggregate
type FilterReason string

const (
	// FilterNotEreport covers list.suspect, resource and other non-ereport classes
	FilterNotEreport FilterReason = "not_ereport"

	// FilterFilesystem covers ereport.fs.* (ZFS) whose payloads carry
	// numeric fields we don't decode
	FilterFilesystem FilterReason = "fs_ereport"

	// FilterFmdLog covers ereport.fm.fmd.log_* which have no detector
	FilterFmdLog FilterReason = "fmd_log_ereport"
)

const (
	ereportPrefix = "ereport."
	fsPrefix      = "ereport.fs."
	fmdLogPrefix  = "ereport.fm.fmd.log_"
)

// Filter reports whether an event class is excluded from aggregation
func Filter(class string) (FilterReason, bool) {
	switch {
	case !strings.HasPrefix(class, ereportPrefix):
		return FilterNotEreport, true
	case strings.HasPrefix(class, fsPrefix):
		return FilterFilesystem, true
	case strings.HasPrefix(class, fmdLogPrefix):
		return FilterFmdLog, true
	}
	return "", false
}
