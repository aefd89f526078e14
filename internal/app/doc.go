// Package app contains the controller that both the CLI and the GUI drive:
// session bookkeeping for one BLE connection, frame sending with ACK
// collection, and the connection state machine.
package app
