package domain

import "time"

// Severity of a diagnostic event
type Severity string

const (
	SeverityDebug   Severity = "debug"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// DiagnosticKind names the failure class of a diagnostic event
type DiagnosticKind string

const (
	KindExtractionMiss          DiagnosticKind = "extraction_miss"
	KindMatchMiss               DiagnosticKind = "match_miss"
	KindMalformedFragment       DiagnosticKind = "malformed_fragment"
	KindAllocationInconsistency DiagnosticKind = "allocation_inconsistency"
	KindUnknownStatus           DiagnosticKind = "unknown_status"
	KindPricesLost              DiagnosticKind = "prices_lost"
	KindFailedOrder             DiagnosticKind = "failed_order"
)

// Diagnostic is one observable event emitted while reconciling
type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind"`
	Severity Severity       `json:"severity"`
	RunID    string         `json:"runId,omitempty"`
	OrderID  string         `json:"orderId,omitempty"`
	Message  string         `json:"message"`
	Detail   string         `json:"detail,omitempty"`
	At       time.Time      `json:"at"`
}
