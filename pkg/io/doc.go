// Package io provides configuration input and output for azdhooks.
//
// Subpackages:
//   - config: Loading, validation and scaffolding of azdhooks.yaml
package io
