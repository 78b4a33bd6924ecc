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
	"fmt"

	"github.com/minio/highwayhash"
)

// fingerprintKey is fixed so fingerprints are stable across processes.
var fingerprintKey = []byte("archsignal.fingerprint.v1.......")

// Fingerprint derives a stable component id from a qualified name and kind.
//
// # Description
//
// Scanners are free to mint ids however they like; this helper gives
// in-process producers (tests, federation fixtures) the same shape the
// reference scanners use: a short keyed hash of "namespace.name|kind".
// The hash is stable across runs and platforms.
func Fingerprint(namespace, name string, kind ComponentKind) string {
	qualified := name
	if namespace != "" {
		qualified = namespace + "." + name
	}
	h, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		// Key length is a compile-time constant; New64 cannot fail here.
		panic(err)
	}
	h.Write([]byte(qualified))
	h.Write([]byte{'|'})
	h.Write([]byte(kind))
	return fmt.Sprintf("%s:%016x", qualified, h.Sum64())
}
