package pipeline

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/sigreer/fmlogreport/internal/aggregate"
	"github.com/sigreer/fmlogreport/internal/ereport"
	"github.com/sigreer/fmlogreport/internal/logger"
)

const (
	diskTran  = `{"class":"ereport.io.scsi.cmd.disk.tran","detector":{"scheme":"dev","device-path":"/pci@0,0/pci8086,2f02@1/pci15d9,808@0/iport@f/disk@w5000cca2530e3c0d,0"},"__tod":[1546300800,0]}`
	diskDerr  = `{"class":"ereport.io.scsi.cmd.disk.dev.rqs.derr","detector":{"scheme":"dev","device-path":"/pci@0,0/pci8086,2f02@1/pci15d9,808@0/iport@f/disk@w5000cca2530e3c0d,0"},"__tod":[1546390800,0]}`
	cpuHc     = `{"class":"ereport.cpu.intel.l2cache","detector":{"scheme":"hc","hc-list":[{"hc-name":"motherboard","hc-id":"0"},{"hc-name":"chip","hc-id":"1"}]},"__tod":[1546300800,0]}`
	fmdModule = `{"class":"ereport.fm.fmd.module","detector":{"scheme":"fmd","mod-name":"zfs-diagnosis"},"__tod":[1546300800,0]}`
	cpuScheme = `{"class":"ereport.cpu.generic","detector":{"scheme":"cpu","cpuid":3},"__tod":[1546300800,0]}`
	emptyHc   = `{"class":"ereport.cpu.intel.l2cache","detector":{"scheme":"hc"},"__tod":[1546300800,0]}`
)

// quiet routes diagnostics into a buffer for the duration of a test
func quiet(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := logger.Init("warn", &buf); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { logger.Init("warn", os.Stderr) })
	return &buf
}

func run(t *testing.T, lines ...string) (*aggregate.Table, Stats, error) {
	t.Helper()
	tbl := aggregate.New()
	stats, err := Run(strings.NewReader(strings.Join(lines, "\n")+"\n"), tbl)
	return tbl, stats, err
}

func TestRunRecordsEachScheme(t *testing.T) {
	quiet(t)
	tbl, stats, err := run(t, diskTran, diskDerr, cpuHc, fmdModule)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Recorded != 4 || stats.Lines != 4 {
		t.Errorf("stats = %+v", stats)
	}

	wantKeys := []string{
		"dev:///pci@0,0/pci8086,2f02@1/pci15d9,808@0/iport@f/disk@w5000cca2530e3c0d,0",
		"hc:///motherboard=0/chip=1",
		"fmd:///module/zfs-diagnosis",
	}
	keys := tbl.Keys()
	if len(keys) != len(wantKeys) {
		t.Fatalf("keys = %v, want %v", keys, wantKeys)
	}
	for i := range wantKeys {
		if keys[i] != wantKeys[i] {
			t.Errorf("key[%d] = %q, want %q", i, keys[i], wantKeys[i])
		}
	}

	disk := tbl.Get(wantKeys[0])
	if disk.Total() != 2 || len(disk.Classes) != 2 {
		t.Errorf("disk entry: total=%d classes=%v", disk.Total(), disk.Classes)
	}
	if len(disk.DayOrder) != 2 || disk.DayOrder[0] != "2019-01-01" || disk.DayOrder[1] != "2019-01-02" {
		t.Errorf("disk day order = %v", disk.DayOrder)
	}
}

func TestRunFiltersSilently(t *testing.T) {
	diag := quiet(t)
	tbl, stats, err := run(t,
		`{"class":"ereport.fs.zfs.io"}`,
		`{"class":"ereport.fm.fmd.log_event"}`,
		`{"class":"list.suspect","uuid":"5c3a"}`,
		`{"class":"resource.fm.asru.ok"}`,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Len() != 0 {
		t.Errorf("expected no entries, got %v", tbl.Keys())
	}
	if stats.Filtered[ereport.FilterFilesystem] != 1 || stats.Filtered[ereport.FilterFmdLog] != 1 || stats.Filtered[ereport.FilterNotEreport] != 2 {
		t.Errorf("filtered = %v", stats.Filtered)
	}
	if diag.Len() != 0 {
		t.Errorf("filtering should not log, got %q", diag.String())
	}
}

func TestRunDropsUnresolvableDetectors(t *testing.T) {
	diag := quiet(t)
	tbl, stats, err := run(t, cpuScheme, emptyHc, diskTran)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Len() != 1 {
		t.Errorf("expected only the disk entry, got %v", tbl.Keys())
	}
	if stats.Dropped[DropUnsupportedScheme] != 1 || stats.Dropped[DropIncompleteDetector] != 1 {
		t.Errorf("dropped = %v", stats.Dropped)
	}
	out := diag.String()
	if !strings.Contains(out, "unsupported detector scheme") {
		t.Errorf("missing unsupported scheme diagnostic: %q", out)
	}
	if !strings.Contains(out, "failed to get fmri") {
		t.Errorf("missing resolver diagnostic: %q", out)
	}
}

func TestRunFatalOnMalformedLine(t *testing.T) {
	quiet(t)
	_, _, err := run(t, diskTran, `{"class":"ereport.io.pciex.rc.ce","detector":{"scheme":`)
	if err == nil {
		t.Fatal("expected error for truncated ereport")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should name the line: %v", err)
	}
}

func TestRunFatalOnBadEnvelope(t *testing.T) {
	quiet(t)
	_, _, err := run(t, `not json at all`)
	if err == nil {
		t.Fatal("expected error for non-JSON line")
	}
}

func TestRunFilteredLineNeedsNoFullShape(t *testing.T) {
	quiet(t)
	// A filtered class with a payload that would not decode as an ereport
	_, stats, err := run(t, `{"class":"ereport.fs.zfs.checksum","detector":"weird","__tod":"x"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.FilteredTotal() != 1 {
		t.Errorf("filtered = %v", stats.Filtered)
	}
}

func TestRunSkipsBlankLines(t *testing.T) {
	quiet(t)
	_, stats, err := run(t, "", diskTran, "   ", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Lines != 1 || stats.Recorded != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestProcessOutcomes(t *testing.T) {
	quiet(t)
	p := New(aggregate.New())

	tests := []struct {
		line string
		kind OutcomeKind
	}{
		{diskTran, Recorded},
		{`{"class":"ereport.fs.zfs.io"}`, Filtered},
		{cpuScheme, Dropped},
	}
	for _, tt := range tests {
		got, err := p.Process([]byte(tt.line))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Kind != tt.kind {
			t.Errorf("kind = %s, want %s", got.Kind, tt.kind)
		}
	}
	if _, err := p.Process([]byte(`{"class":`)); err == nil {
		t.Error("expected fatal error")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestRunReadError(t *testing.T) {
	quiet(t)
	if _, err := Run(failingReader{}, aggregate.New()); err == nil {
		t.Error("expected read error")
	}
}
