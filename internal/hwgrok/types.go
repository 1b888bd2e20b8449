package hwgrok

// Snapshot is the hwgrok JSON document describing a system's hardware.
// Only the fields the report uses or displays are decoded.
type Snapshot struct {
	Chassis          *Chassis          `json:"chassis,omitempty"`
	ServiceProcessor *ServiceProcessor `json:"service-processor,omitempty"`
	PCIDevices       []PCIDevice       `json:"pci-devices"`
	DriveBays        []DriveBay        `json:"drive-bays"`
	Processors       []Processor       `json:"processors"`
	Memory           []MemorySlot      `json:"memory"`
	PowerSupplies    []PowerSupply     `json:"power-supplies"`
	Fans             []Fan             `json:"fans"`
}

type Chassis struct {
	Label        string `json:"label,omitempty"`
	FMRI         string `json:"hc-fmri"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty"`
	SerialNumber string `json:"serial-number,omitempty"`
}

type ServiceProcessor struct {
	Label            string `json:"label,omitempty"`
	FMRI             string `json:"hc-fmri"`
	FirmwareRevision string `json:"firmware-revision,omitempty"`
	MACAddress       string `json:"mac-address,omitempty"`
	IPv4Address      string `json:"ipv4-address,omitempty"`
}

type PCIDevice struct {
	Label         string `json:"label"`
	FMRI          string `json:"hc-fmri"`
	VendorName    string `json:"pci-vendor-name"`
	DeviceName    string `json:"pci-device-name"`
	SubsystemName string `json:"pci-subsystem-name"`
	VendorID      string `json:"pci-vendor-id,omitempty"`
	DeviceID      string `json:"pci-device-id,omitempty"`
	DevicePath    string `json:"device-path"`
	DriverName    string `json:"driver-name,omitempty"`
}

// DriveBay is a physical slot; Disk is nil when the bay is empty
type DriveBay struct {
	Label string `json:"label"`
	FMRI  string `json:"hc-fmri"`
	Disk  *Disk  `json:"disk,omitempty"`
}

type Disk struct {
	FMRI             string `json:"hc-fmri"`
	Manufacturer     string `json:"manufacturer"`
	Model            string `json:"model"`
	SerialNumber     string `json:"serial-number"`
	FirmwareRevision string `json:"firmware-revision"`
	SizeInBytes      uint64 `json:"size-in-bytes,omitempty"`
	DevicePath       string `json:"device-path"`
}

type Processor struct {
	Label         string `json:"label"`
	FMRI          string `json:"hc-fmri"`
	Brand         string `json:"processor-brand,omitempty"`
	NumberOfCores int    `json:"number-of-cores,omitempty"`
	ClockSpeedMHz int    `json:"clock-speed-mhz,omitempty"`
}

// MemorySlot is a DIMM socket; DIMM is nil when the socket is empty
type MemorySlot struct {
	Label string `json:"label"`
	FMRI  string `json:"hc-fmri"`
	DIMM  *DIMM  `json:"dimm,omitempty"`
}

type DIMM struct {
	FMRI         string `json:"hc-fmri"`
	Manufacturer string `json:"manufacturer,omitempty"`
	PartNumber   string `json:"part-number,omitempty"`
	SerialNumber string `json:"serial-number,omitempty"`
	SizeInBytes  uint64 `json:"size-in-bytes,omitempty"`
}

type PowerSupply struct {
	Label            string `json:"label"`
	FMRI             string `json:"hc-fmri"`
	Manufacturer     string `json:"manufacturer,omitempty"`
	Model            string `json:"model,omitempty"`
	SerialNumber     string `json:"serial-number,omitempty"`
	FirmwareRevision string `json:"firmware-revision,omitempty"`
}

type Fan struct {
	Label string `json:"label"`
	FMRI  string `json:"hc-fmri"`
}
