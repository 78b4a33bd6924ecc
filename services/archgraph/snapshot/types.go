// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package snapshot defines the immutable graph model exchanged between
// scanners and the analysis engines.
//
// # Description
//
// A Snapshot is a point-in-time capture of a repository: code components,
// database objects, typed relationships between them, and scanner
// diagnostics. Snapshots are produced once by scanning and never mutated
// by the analysis engines, which makes every downstream analysis safely
// parallelizable over the same snapshot.
//
// # Thread Safety
//
// Snapshot and Index are read-only after construction and safe for
// concurrent use.
package snapshot

import "time"

// ComponentKind classifies a code-level component.
type ComponentKind string

const (
	// KindType is a class or struct definition.
	KindType ComponentKind = "type"

	// KindInterface is an interface or trait definition.
	KindInterface ComponentKind = "interface"

	// KindEnum is an enumeration type.
	KindEnum ComponentKind = "enum"

	// KindMethod is an operation, function, or method.
	KindMethod ComponentKind = "method"

	// KindProperty is a property with accessor semantics.
	KindProperty ComponentKind = "property"

	// KindField is a plain data field.
	KindField ComponentKind = "field"

	// KindRecord is a record type.
	KindRecord ComponentKind = "record"

	// KindDTO is a data carrier with no behavior.
	KindDTO ComponentKind = "dto"

	// KindTypeAlias is an alias for another type.
	KindTypeAlias ComponentKind = "typeAlias"

	// KindModule is a module or package boundary.
	KindModule ComponentKind = "module"

	// KindUIComponent is a user-interface component.
	KindUIComponent ComponentKind = "uiComponent"

	// KindUnknown is a component the scanner could not classify.
	KindUnknown ComponentKind = "unknown"
)

// IsValid reports whether the kind is a recognized component kind.
func (k ComponentKind) IsValid() bool {
	switch k {
	case KindType, KindInterface, KindEnum, KindMethod, KindProperty,
		KindField, KindRecord, KindDTO, KindTypeAlias, KindModule,
		KindUIComponent, KindUnknown:
		return true
	default:
		return false
	}
}

// DataObjectKind classifies a database-level object.
type DataObjectKind string

const (
	// DataKindTable is a database table.
	DataKindTable DataObjectKind = "table"

	// DataKindProcedure is a stored procedure.
	DataKindProcedure DataObjectKind = "procedure"

	// DataKindView is a database view.
	DataKindView DataObjectKind = "view"
)

// IsValid reports whether the kind is a recognized data object kind.
func (k DataObjectKind) IsValid() bool {
	switch k {
	case DataKindTable, DataKindProcedure, DataKindView:
		return true
	default:
		return false
	}
}

// RelationshipKind classifies a directed edge between graph entities.
type RelationshipKind string

const (
	// RelImports indicates the source imports the target.
	RelImports RelationshipKind = "imports"

	// RelReExports indicates the source re-exports the target.
	RelReExports RelationshipKind = "reExports"

	// RelWorkspaceDependency indicates a build-level workspace dependency.
	RelWorkspaceDependency RelationshipKind = "workspaceDependency"

	// RelInherits indicates the source inherits from the target.
	RelInherits RelationshipKind = "inherits"

	// RelImplements indicates the source implements the target interface.
	RelImplements RelationshipKind = "implements"

	// RelCalls indicates the source invokes the target.
	RelCalls RelationshipKind = "calls"

	// RelReferences indicates a general reference from source to target.
	RelReferences RelationshipKind = "references"

	// RelContains indicates structural containment. Contains edges form a
	// forest and are used for membership counts only; coupling, cycle, and
	// governance analysis consider non-Contains kinds exclusively.
	RelContains RelationshipKind = "contains"
)

// IsValid reports whether the kind is a recognized relationship kind.
func (k RelationshipKind) IsValid() bool {
	switch k {
	case RelImports, RelReExports, RelWorkspaceDependency, RelInherits,
		RelImplements, RelCalls, RelReferences, RelContains:
		return true
	default:
		return false
	}
}

// IsCoupling reports whether the kind participates in coupling analysis.
// Contains edges express membership, not coupling.
func (k RelationshipKind) IsCoupling() bool {
	return k != RelContains
}

// DiagnosticSeverity classifies a scanner diagnostic.
type DiagnosticSeverity string

const (
	DiagnosticInfo    DiagnosticSeverity = "info"
	DiagnosticWarning DiagnosticSeverity = "warning"
	DiagnosticError   DiagnosticSeverity = "error"
)

// Component is a code-level unit tracked in the graph.
type Component struct {
	// ID is a stable string fingerprint, unique within one snapshot.
	// It is typically derived from the qualified name and kind.
	ID string `json:"id"`

	// Name is the simple name of the component.
	Name string `json:"name"`

	// Kind classifies the component.
	Kind ComponentKind `json:"kind"`

	// Namespace is the hierarchical dotted path containing the component.
	Namespace string `json:"namespace,omitempty"`

	// Repository identifies the origin repository in multi-repo contexts.
	Repository string `json:"repository,omitempty"`

	// Signature is the declaration signature, when the scanner knows it.
	Signature string `json:"signature,omitempty"`

	// FilePath is the source file provenance, when known.
	FilePath string `json:"filePath,omitempty"`

	// LineNumber is the source line provenance, when known.
	LineNumber int `json:"lineNumber,omitempty"`

	// LinesOfCode is an optional size proxy.
	LinesOfCode int `json:"linesOfCode,omitempty"`

	// Language is the source language of the component.
	Language string `json:"language,omitempty"`

	// IsPublic indicates the component is part of a public surface.
	IsPublic bool `json:"isPublic,omitempty"`
}

// DataObject is a database-level unit (table, stored procedure, view).
type DataObject struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Kind        DataObjectKind `json:"kind"`
	Namespace   string         `json:"namespace,omitempty"`
	Repository  string         `json:"repository,omitempty"`
	FilePath    string         `json:"filePath,omitempty"`
	LineNumber  int            `json:"lineNumber,omitempty"`
	LinesOfCode int            `json:"linesOfCode,omitempty"`
}

// Relationship is a typed, directed edge between two graph entities.
//
// Dangling references (a target not present in the same snapshot) are
// tolerated: they are excluded from traversal but never a fatal error.
type Relationship struct {
	// ID uniquely identifies this edge within its originating snapshot.
	ID string `json:"id"`

	// SourceID references the source component or data object.
	SourceID string `json:"sourceId"`

	// TargetID references the target component or data object.
	TargetID string `json:"targetId"`

	// Kind classifies the edge.
	Kind RelationshipKind `json:"kind"`

	// Confidence reflects detector certainty, 0.0 to 1.0.
	Confidence float64 `json:"confidence"`

	// Evidence is optional free text recorded by the detector.
	Evidence string `json:"evidence,omitempty"`
}

// Diagnostic is a non-fatal message produced during scanning.
//
// A snapshot with diagnostics is still analyzable; diagnostics surface
// alongside analysis results rather than aborting them.
type Diagnostic struct {
	Severity DiagnosticSeverity `json:"severity"`
	Message  string             `json:"message"`
	FilePath string             `json:"filePath,omitempty"`
}

// Metadata identifies the scan that produced a snapshot.
type Metadata struct {
	// Repository identifies the scanned repository.
	Repository string `json:"repository"`

	// ScanTimestamp is when the scan ran.
	ScanTimestamp time.Time `json:"scanTimestamp"`

	// Branch is the scanned branch, when available.
	Branch string `json:"branch,omitempty"`

	// Commit is the scanned commit, when available.
	Commit string `json:"commit,omitempty"`

	// ScanID uniquely identifies the scan run, when available.
	ScanID string `json:"scanId,omitempty"`
}

// Snapshot is an immutable capture of a repository graph.
//
// Ordering of Components, DataObjects, and Relationships carries no
// semantic meaning, except that substring root resolution in the impact
// engine takes the first match in snapshot iteration order.
type Snapshot struct {
	Metadata      Metadata       `json:"metadata"`
	Components    []Component    `json:"codeAtoms"`
	DataObjects   []DataObject   `json:"sqlAtoms"`
	Relationships []Relationship `json:"links"`
	Diagnostics   []Diagnostic   `json:"diagnostics"`

	// Duration is the scan duration in milliseconds.
	Duration int64 `json:"duration"`
}
