// Package config loads azdhooks configuration.
//
// Settings are layered: defaults < azdhooks.yaml < AZDHOOKS_* environment
// variables < command-line flags. The optional file also declares the steps
// each lifecycle hook runs:
//
//	log:
//	  level: info
//	runner:
//	  timeout: 10m
//	hooks:
//	  preprovision:
//	    require_env: [AZURE_LOCATION]
//	    steps:
//	      - name: check tooling
//	        run: az version
//
// The hooks section is decoded with gopkg.in/yaml.v3 so that environment
// variable names under a step's env keep their case. [JSONSchema] describes
// the same format for editors.
package config
