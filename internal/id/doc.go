// Package id provides identifier generation for transmock.
//
//   - Session: UUID v4 naming one beacon ownership period, logged on start
//     and stop so concurrent test processes on a host can be told apart.
//   - Short: 16-character hex IDs used to correlate the log lines of a
//     single adapter invocation.
package id
