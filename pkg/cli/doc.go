// Package cli provides the transmock command-line interface.
//
// Commands:
//   - beacon: hold the presence beacon so mock transports activate
//   - probe: report whether a beacon is held on this host
//   - mock: run the transport adapter over a YAML message context
//   - address: print the mock address of a logical port name
//   - config: display the effective configuration
//   - version: show version information
//
// Every command reads transmock.yaml (see package config) and accepts
// --log-level, --log-format and --json.
//
// Usage:
//
//	transmock beacon --for 10m &
//	transmock probe --wait 2s
//	transmock mock --port DynamicPortOut --context msg.yaml --write
//	transmock address DynamicPortOut
package cli
