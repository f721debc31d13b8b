// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the simulation's standard CBOR encoding
// configuration.
//
// Streetsim uses two serialization formats with a clear boundary:
// JSON(C) for human-authored inputs (network files, run
// configuration is YAML) and CBOR for machine state, meaning the
// snapshot payloads inside save files. This package holds the shared
// CBOR modes so every package encodes identically.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2), so
// the same logical snapshot always serializes to the same bytes.
// Combined with the ordered-entry representation of
// [parking.Snapshot], byte comparison of two encoded snapshots is a
// structural state comparison.
//
// Types that are only ever serialized as CBOR carry `cbor` struct
// tags; types shared with JSON tooling carry `json` tags (which
// fxamacker/cbor reads as a fallback). Never both on one field.
package codec
