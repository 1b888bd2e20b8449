package report

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sigreer/fmlogreport/internal/aggregate"
	"github.com/sigreer/fmlogreport/internal/ereport"
	"github.com/sigreer/fmlogreport/internal/hwgrok"
)

// Report is the per-device diagnostic summary of one run
type Report struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Source      string    `json:"source"`
	Inventory   string    `json:"inventory,omitempty"`
	Summary     *Summary  `json:"summary,omitempty"`
	Devices     []Device  `json:"devices"`
}

// Summary carries the input counters of the run
type Summary struct {
	Lines    int `json:"lines"`
	Recorded int `json:"recorded"`
	Filtered int `json:"filtered"`
	Dropped  int `json:"dropped"`
}

// Device is one report row: a device key, its inventory identity if
// one was found, and its ereport histograms
type Device struct {
	Key        string                 `json:"key"`
	Disk       *DiskInfo              `json:"disk,omitempty"`
	PCI        *PCIInfo               `json:"pci,omitempty"`
	Components []hwgrok.Component     `json:"components,omitempty"`
	Total      int                    `json:"total"`
	Classes    []aggregate.ClassCount `json:"classes"`
	Days       []aggregate.DayCount   `json:"days"`
}

type DiskInfo struct {
	Location     string `json:"location"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	Serial       string `json:"serial"`
	Firmware     string `json:"firmware"`
	SizeBytes    uint64 `json:"size_bytes,omitempty"`
}

type PCIInfo struct {
	VendorName    string `json:"vendor_name"`
	DeviceName    string `json:"device_name"`
	SubsystemName string `json:"subsystem_name"`
}

// Meta identifies a run
type Meta struct {
	RunID       string
	GeneratedAt time.Time
	Source      string
	Inventory   string
}

// NewMeta stamps a run with a fresh id and the current time
func NewMeta(source, inventory string) Meta {
	return Meta{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Source:      source,
		Inventory:   inventory,
	}
}

// Assemble joins every table entry with the inventory. inv may be nil.
// Neither the table nor the inventory is modified.
func Assemble(tbl *aggregate.Table, inv *hwgrok.Snapshot, meta Meta) *Report {
	r := &Report{
		RunID:       meta.RunID,
		GeneratedAt: meta.GeneratedAt,
		Source:      meta.Source,
		Inventory:   meta.Inventory,
		Devices:     make([]Device, 0, tbl.Len()),
	}
	for _, e := range tbl.Entries() {
		d := Device{
			Key:     e.Key,
			Total:   e.Total(),
			Classes: e.SortedClasses(),
			Days:    e.Distribution(),
		}
		enrich(&d, inv)
		r.Devices = append(r.Devices, d)
	}
	return r
}

func enrich(d *Device, inv *hwgrok.Snapshot) {
	if inv == nil {
		return
	}

	if strings.HasPrefix(d.Key, ereport.HcPrefix) {
		d.Components = inv.FindByFMRI(d.Key)
		return
	}

	path := devicePath(d.Key)
	switch {
	case isDiskPath(path):
		if bay, ok := inv.FindDisk(path); ok {
			d.Disk = &DiskInfo{
				Location:     bay.Label,
				Manufacturer: bay.Disk.Manufacturer,
				Model:        bay.Disk.Model,
				Serial:       bay.Disk.SerialNumber,
				Firmware:     bay.Disk.FirmwareRevision,
				SizeBytes:    bay.Disk.SizeInBytes,
			}
		}
	case isPCIPath(path):
		if dev, ok := inv.FindPCIDevice(path); ok {
			d.PCI = &PCIInfo{
				VendorName:    dev.VendorName,
				DeviceName:    dev.DeviceName,
				SubsystemName: dev.SubsystemName,
			}
		}
	}
}

// devicePath returns the /devices path a key refers to. Keys without
// a dev:// prefix are taken as paths already.
func devicePath(key string) string {
	if p, ok := ereport.DevicePath(key); ok {
		return p
	}
	return key
}

func isDiskPath(p string) bool {
	return isPCIPath(p) && strings.Contains(p, "disk")
}

func isPCIPath(p string) bool {
	return strings.HasPrefix(p, "/pci")
}
