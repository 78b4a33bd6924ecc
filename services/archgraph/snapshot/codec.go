// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Decode reads a snapshot from its JSON wire form.
//
// # Description
//
// The wire format is a UTF-8 JSON object with top-level fields
// metadata, codeAtoms, sqlAtoms, links, diagnostics, and duration.
// Unrecognized properties are ignored, never rejected, so newer
// scanners remain compatible with older cores. Callers that need the
// original bytes back verbatim should retain them; Decode does not
// preserve unknown fields through a re-encode.
func Decode(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	dec := json.NewDecoder(r)
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	normalize(&snap)
	return &snap, nil
}

// DecodeBytes decodes a snapshot from an in-memory JSON document.
func DecodeBytes(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	normalize(&snap)
	return &snap, nil
}

// Load reads and decodes a snapshot file.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	return DecodeBytes(data)
}

// Encode writes the snapshot in its JSON wire form.
func Encode(w io.Writer, snap *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// Save encodes the snapshot to a file.
func Save(path string, snap *Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot %s: %w", path, err)
	}
	defer f.Close()
	return Encode(f, snap)
}

// normalize replaces nil slices with empty ones so the wire form always
// carries the array fields and re-encodes stay stable.
func normalize(snap *Snapshot) {
	if snap.Components == nil {
		snap.Components = []Component{}
	}
	if snap.DataObjects == nil {
		snap.DataObjects = []DataObject{}
	}
	if snap.Relationships == nil {
		snap.Relationships = []Relationship{}
	}
	if snap.Diagnostics == nil {
		snap.Diagnostics = []Diagnostic{}
	}
}
