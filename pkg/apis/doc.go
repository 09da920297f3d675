// Package apis provides the shared types of azdhooks.
//
//   - lifecycle: The azd lifecycle phases a hook can run in
package apis
