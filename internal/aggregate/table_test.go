package aggregate

import (
	"reflect"
	"testing"
	"time"

	"github.com/sigreer/fmlogreport/internal/ereport"
)

func ev(class string, at time.Time) *ereport.Ereport {
	return &ereport.Ereport{
		Class:    class,
		Detector: ereport.DevDetector{Path: "/pci@0,0/disk@1,0"},
		TOD:      []int64{at.Unix(), 0},
	}
}

func sum(m map[string]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

func TestRecordCountsAgree(t *testing.T) {
	base := time.Date(2019, 3, 1, 12, 0, 0, 0, time.UTC)
	classes := []string{"ereport.io.scsi.cmd.disk.tran", "ereport.io.scsi.cmd.disk.dev.rqs.derr", "ereport.io.scsi.cmd.disk.recovered"}

	tbl := New()
	const n = 25
	for i := 0; i < n; i++ {
		tbl.Record("dev:///pci@0,0/disk@1,0", ev(classes[i%len(classes)], base.Add(time.Duration(i)*7*time.Hour)))
	}

	if tbl.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", tbl.Len())
	}
	e := tbl.Get("dev:///pci@0,0/disk@1,0")
	if e.Total() != n {
		t.Errorf("events = %d, want %d", e.Total(), n)
	}
	if got := sum(e.Classes); got != n {
		t.Errorf("class histogram sum = %d, want %d", got, n)
	}
	if got := sum(e.Days); got != n {
		t.Errorf("day histogram sum = %d, want %d", got, n)
	}
	if len(e.DayOrder) != len(e.Days) {
		t.Errorf("day order has %d days, histogram has %d", len(e.DayOrder), len(e.Days))
	}
}

func TestRecordDayOrderIsFirstSeen(t *testing.T) {
	d := func(day int, hour int) time.Time {
		return time.Date(2019, 5, day, hour, 0, 0, 0, time.UTC)
	}
	tbl := New()
	for _, at := range []time.Time{d(7, 1), d(3, 2), d(7, 9), d(4, 0), d(3, 23), d(9, 5)} {
		tbl.Record("hc:///chassis=0/bay=1/disk=0", ev("ereport.io.scsi.cmd.disk.tran", at))
	}

	e := tbl.Get("hc:///chassis=0/bay=1/disk=0")
	want := []string{"2019-05-07", "2019-05-03", "2019-05-04", "2019-05-09"}
	if !reflect.DeepEqual(e.DayOrder, want) {
		t.Errorf("day order = %v, want %v", e.DayOrder, want)
	}
	dist := e.Distribution()
	wantDist := []DayCount{{"2019-05-07", 2}, {"2019-05-03", 2}, {"2019-05-04", 1}, {"2019-05-09", 1}}
	if !reflect.DeepEqual(dist, wantDist) {
		t.Errorf("distribution = %v, want %v", dist, wantDist)
	}
}

func TestRecordSameDayDifferentClasses(t *testing.T) {
	at := time.Date(2019, 1, 15, 8, 0, 0, 0, time.UTC)
	tbl := New()
	tbl.Record("dev:///pci@0,0/pci8086,6f08@3", ev("ereport.io.pciex.rc.ce", at))
	tbl.Record("dev:///pci@0,0/pci8086,6f08@3", ev("ereport.io.pciex.pl.re", at.Add(time.Hour)))

	e := tbl.Get("dev:///pci@0,0/pci8086,6f08@3")
	if len(e.Classes) != 2 || e.Classes["ereport.io.pciex.rc.ce"] != 1 || e.Classes["ereport.io.pciex.pl.re"] != 1 {
		t.Errorf("unexpected class histogram: %v", e.Classes)
	}
	if len(e.Days) != 1 || e.Days["2019-01-15"] != 2 {
		t.Errorf("unexpected day histogram: %v", e.Days)
	}
}

func TestRecordUsesUTCDays(t *testing.T) {
	// 2019-01-01 23:30 UTC is already 2019-01-02 in UTC+1 and still 2019-01-01 in UTC-5
	at := time.Date(2019, 1, 1, 23, 30, 0, 0, time.UTC)
	tbl := New()
	tbl.Record("fmd:///module/eft", ev("ereport.fm.fmd.module", at.In(time.FixedZone("CET", 3600))))

	e := tbl.Get("fmd:///module/eft")
	if e.DayOrder[0] != "2019-01-01" {
		t.Errorf("day = %q, want 2019-01-01", e.DayOrder[0])
	}
}

func TestRecordDuplicatesAreCounted(t *testing.T) {
	at := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	dup := ev("ereport.io.pciex.rc.ce", at)
	tbl := New()
	tbl.Record("k", dup)
	tbl.Record("k", dup)
	if got := tbl.Get("k").Classes["ereport.io.pciex.rc.ce"]; got != 2 {
		t.Errorf("count = %d, want 2", got)
	}
}

func TestKeysKeepFirstRecordedOrder(t *testing.T) {
	at := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	tbl := New()
	for _, k := range []string{"c", "a", "c", "b", "a"} {
		tbl.Record(k, ev("ereport.io.pciex.rc.ce", at))
	}
	if got, want := tbl.Keys(), []string{"c", "a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("keys = %v, want %v", got, want)
	}
	if got := len(tbl.Entries()); got != 3 {
		t.Errorf("entries = %d, want 3", got)
	}
	if tbl.Get("missing") != nil {
		t.Error("expected nil for unknown key")
	}
}

func TestSortedClasses(t *testing.T) {
	e := &Entry{Classes: map[string]int{"b": 2, "a": 2, "c": 5, "d": 1}}
	want := []ClassCount{{"c", 5}, {"a", 2}, {"b", 2}, {"d", 1}}
	if got := e.SortedClasses(); !reflect.DeepEqual(got, want) {
		t.Errorf("sorted = %v, want %v", got, want)
	}
}
