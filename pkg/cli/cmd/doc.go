// Package cmd provides the command-line interface for azdhooks.
//
// The root command carries the shared flags and one subcommand per azd
// lifecycle phase:
//   - preprovision, postprovision, predeploy, postdeploy: run the phase hook
//   - init: write a starter azdhooks.yaml
//   - list: show the configured steps of every phase
//   - schema: print the JSON schema of azdhooks.yaml
package cmd
