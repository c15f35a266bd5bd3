// Package config loads the transmock configuration file.
//
// The file is YAML, discovered as transmock.yaml (or transmock.yml) in the
// working directory or named by TRANSMOCK_CONFIG:
//
//	version: "1.0"
//	beacon:
//	  dir: /tmp
//	  probeTimeout: 10ms
//	mock:
//	  host: localhost
//	  defaultBehavior: '<behavior name="EndpointBehavior" />'
//	  ports:
//	    - "Dynamic*"
//	logging:
//	  level: info
//	  format: text
//
// ${VAR} and ${VAR:-default} references are expanded before parsing. The raw
// document is checked against an embedded JSON Schema, missing values are
// filled from struct tag defaults, and TRANSMOCK_* environment variables
// override what the file says.
package config
