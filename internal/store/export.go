package store

import (
	"database/sql"
	"fmt"

	"github.com/sigreer/fmlogreport/internal/report"
)

// Export writes a finished report into the database in one transaction
func (s *Store) Export(r *report.Report) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin export: %w", err)
	}

	if err := exportReport(tx, r); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit export: %w", err)
	}
	return nil
}

func exportReport(tx *sql.Tx, r *report.Report) error {
	var lines, recorded, filtered, dropped sql.NullInt64
	if sum := r.Summary; sum != nil {
		lines = sql.NullInt64{Int64: int64(sum.Lines), Valid: true}
		recorded = sql.NullInt64{Int64: int64(sum.Recorded), Valid: true}
		filtered = sql.NullInt64{Int64: int64(sum.Filtered), Valid: true}
		dropped = sql.NullInt64{Int64: int64(sum.Dropped), Valid: true}
	}

	_, err := tx.Exec(`
		INSERT INTO runs (id, generated_at, source, inventory, lines, recorded, filtered, dropped)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.RunID, r.GeneratedAt, r.Source, nullString(r.Inventory), lines, recorded, filtered, dropped)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i := range r.Devices {
		if err := exportDevice(tx, r.RunID, i, &r.Devices[i]); err != nil {
			return err
		}
	}
	return nil
}

func exportDevice(tx *sql.Tx, runID string, seq int, d *report.Device) error {
	var disk report.DiskInfo
	if d.Disk != nil {
		disk = *d.Disk
	}
	var pci report.PCIInfo
	if d.PCI != nil {
		pci = *d.PCI
	}

	result, err := tx.Exec(`
		INSERT INTO devices (
			run_id, seq, key, total,
			disk_location, disk_manufacturer, disk_model, disk_serial, disk_firmware, disk_size_bytes,
			pci_vendor_name, pci_device_name, pci_subsystem_name
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, seq, d.Key, d.Total,
		nullString(disk.Location), nullString(disk.Manufacturer), nullString(disk.Model),
		nullString(disk.Serial), nullString(disk.Firmware), nullInt64(int64(disk.SizeBytes)),
		nullString(pci.VendorName), nullString(pci.DeviceName), nullString(pci.SubsystemName),
	)
	if err != nil {
		return fmt.Errorf("failed to insert device %s: %w", d.Key, err)
	}

	deviceID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get device id: %w", err)
	}

	for _, c := range d.Components {
		_, err := tx.Exec(`
			INSERT INTO device_components (device_id, kind, label, manufacturer, model, serial)
			VALUES (?, ?, ?, ?, ?, ?)
		`, deviceID, c.Kind, nullString(c.Label), nullString(c.Manufacturer), nullString(c.Model), nullString(c.Serial))
		if err != nil {
			return fmt.Errorf("failed to insert component for %s: %w", d.Key, err)
		}
	}

	for _, c := range d.Classes {
		_, err := tx.Exec(`
			INSERT INTO device_classes (device_id, class, count) VALUES (?, ?, ?)
		`, deviceID, c.Class, c.Count)
		if err != nil {
			return fmt.Errorf("failed to insert class for %s: %w", d.Key, err)
		}
	}

	for i, day := range d.Days {
		_, err := tx.Exec(`
			INSERT INTO device_days (device_id, seq, day, count) VALUES (?, ?, ?, ?)
		`, deviceID, i, day.Day, day.Count)
		if err != nil {
			return fmt.Errorf("failed to insert day for %s: %w", d.Key, err)
		}
	}

	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt64(i int64) sql.NullInt64 {
	if i == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: i, Valid: true}
}
