package hwgrok

import (
	"encoding/json"
	"fmt"
	"os"
)

// Component kinds returned by FindByFMRI
const (
	KindChassis          = "chassis"
	KindServiceProcessor = "service-processor"
	KindPCIDevice        = "pci-device"
	KindDriveBay         = "drive-bay"
	KindDisk             = "disk"
	KindProcessor        = "processor"
	KindMemorySlot       = "memory-slot"
	KindDIMM             = "dimm"
	KindPowerSupply      = "power-supply"
	KindFan              = "fan"
)

// Component is the common identity of any inventory record
type Component struct {
	Kind         string `json:"kind"`
	Label        string `json:"label,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty"`
	Serial       string `json:"serial,omitempty"`
}

// Load reads and parses a hwgrok snapshot file
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hwgrok data: %w", err)
	}
	return Parse(data)
}

// Parse decodes a hwgrok JSON document
func Parse(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing hwgrok data: %w", err)
	}
	return &snap, nil
}

// FindDisk returns the bay holding the disk at devicePath.
// Lookups scan linearly; a snapshot is bounded by slot count.
func (s *Snapshot) FindDisk(devicePath string) (*DriveBay, bool) {
	if s == nil {
		return nil, false
	}
	for i := range s.DriveBays {
		bay := &s.DriveBays[i]
		if bay.Disk != nil && bay.Disk.DevicePath == devicePath {
			return bay, true
		}
	}
	return nil, false
}

// FindPCIDevice returns the PCI device at devicePath
func (s *Snapshot) FindPCIDevice(devicePath string) (*PCIDevice, bool) {
	if s == nil {
		return nil, false
	}
	for i := range s.PCIDevices {
		if s.PCIDevices[i].DevicePath == devicePath {
			return &s.PCIDevices[i], true
		}
	}
	return nil, false
}

// FindByFMRI returns every component whose hc-fmri equals fmri
func (s *Snapshot) FindByFMRI(fmri string) []Component {
	if s == nil || fmri == "" {
		return nil
	}

	var out []Component
	if c := s.Chassis; c != nil && c.FMRI == fmri {
		out = append(out, Component{Kind: KindChassis, Label: c.Label, Manufacturer: c.Manufacturer, Model: c.Model, Serial: c.SerialNumber})
	}
	if sp := s.ServiceProcessor; sp != nil && sp.FMRI == fmri {
		out = append(out, Component{Kind: KindServiceProcessor, Label: sp.Label})
	}
	for _, p := range s.PCIDevices {
		if p.FMRI == fmri {
			out = append(out, Component{Kind: KindPCIDevice, Label: p.Label, Manufacturer: p.VendorName, Model: p.DeviceName})
		}
	}
	for _, bay := range s.DriveBays {
		if bay.FMRI == fmri {
			out = append(out, Component{Kind: KindDriveBay, Label: bay.Label})
		}
		if d := bay.Disk; d != nil && d.FMRI == fmri {
			out = append(out, Component{Kind: KindDisk, Label: bay.Label, Manufacturer: d.Manufacturer, Model: d.Model, Serial: d.SerialNumber})
		}
	}
	for _, p := range s.Processors {
		if p.FMRI == fmri {
			out = append(out, Component{Kind: KindProcessor, Label: p.Label, Model: p.Brand})
		}
	}
	for _, m := range s.Memory {
		if m.FMRI == fmri {
			out = append(out, Component{Kind: KindMemorySlot, Label: m.Label})
		}
		if d := m.DIMM; d != nil && d.FMRI == fmri {
			out = append(out, Component{Kind: KindDIMM, Label: m.Label, Manufacturer: d.Manufacturer, Model: d.PartNumber, Serial: d.SerialNumber})
		}
	}
	for _, p := range s.PowerSupplies {
		if p.FMRI == fmri {
			out = append(out, Component{Kind: KindPowerSupply, Label: p.Label, Manufacturer: p.Manufacturer, Model: p.Model, Serial: p.SerialNumber})
		}
	}
	for _, f := range s.Fans {
		if f.FMRI == fmri {
			out = append(out, Component{Kind: KindFan, Label: f.Label})
		}
	}
	return out
}
