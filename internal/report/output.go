package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const labelWidth = 40

// PrintJSON outputs the report as JSON
func PrintJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// PrintText outputs the report as a human-readable listing, one block
// per device
func PrintText(w io.Writer, r *Report) {
	printField(w, "Run ID:", r.RunID)
	printField(w, "Generated:", r.GeneratedAt.Format(time.RFC3339))
	printField(w, "FM Log:", r.Source)
	printField(w, "Hardware Inventory:", r.Inventory)
	printField(w, "Devices:", strconv.Itoa(len(r.Devices)))
	fmt.Fprintln(w)

	for _, d := range r.Devices {
		printDevice(w, &d)
	}
}

func printDevice(w io.Writer, d *Device) {
	fmt.Fprintln(w, strings.Repeat("=", 75))
	printRow(w, "Device Path:", d.Key)

	if disk := d.Disk; disk != nil {
		printRow(w, "Disk Location:", disk.Location)
		printRow(w, "Disk Manufacturer:", disk.Manufacturer)
		printRow(w, "Disk Model:", disk.Model)
		printRow(w, "Disk Serial:", disk.Serial)
		printRow(w, "Firmware Rev:", disk.Firmware)
		if disk.SizeBytes > 0 {
			printRow(w, "Disk Size:", humanize.Bytes(disk.SizeBytes))
		}
	}
	if pci := d.PCI; pci != nil {
		printRow(w, "Vendor Name:", pci.VendorName)
		printRow(w, "Device Name:", pci.DeviceName)
		printRow(w, "Subsystem Name:", pci.SubsystemName)
	}
	for _, c := range d.Components {
		printRow(w, "Component:", c.Kind)
		printField(w, "  Location:", c.Label)
		printField(w, "  Manufacturer:", c.Manufacturer)
		printField(w, "  Model:", c.Model)
		printField(w, "  Serial:", c.Serial)
	}

	printRow(w, "Total ereports:", strconv.Itoa(d.Total))
	fmt.Fprintln(w)

	printRow(w, "class", "# occurrences")
	printRow(w, "-----", "-------------")
	for _, c := range d.Classes {
		printRow(w, c.Class, strconv.Itoa(c.Count))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Event Occurrence Distribution")
	fmt.Fprintln(w, "-----------------------------")
	for _, day := range d.Days {
		printRow(w, day.Day, strconv.Itoa(day.Count))
	}
	fmt.Fprintln(w)
}

// printRow prints a label/value pair
func printRow(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%-*s %s\n", labelWidth, label, value)
}

// printField prints a field if value is non-empty
func printField(w io.Writer, label, value string) {
	if value != "" {
		printRow(w, label, value)
	}
}
