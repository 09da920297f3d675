// Package svc provides the service layer of azdhooks.
//
// Subpackages:
//   - hook: Runs the steps of one lifecycle phase behind a single exit-code boundary
package svc
