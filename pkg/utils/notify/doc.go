// Package notify provides the logger used by azdhooks to report hook progress.
//
// A [Logger] is created once per process with [NewLogger] and passed to every
// component that reports progress. Each record is a single line on stdout:
//
//	2026-10-18 09:30:01,123 - preprovision - INFO - ✅ Pre-provision hook completed successfully
//
// Message types include info (ℹ️), success (✅), warning (⚠️), error (❌) and
// start (🔄). Symbols are colored when the output is a terminal.
package notify
