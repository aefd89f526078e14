// Package ports defines the interfaces that connect the application layer
// to the BLE infrastructure.
//
// The application core (internal/app, internal/gui) depends only on these
// interfaces. The concrete implementation over tinygo.org/x/bluetooth lives
// in internal/adapters/ble.
//
// # Port Interfaces
//
//   - [Transport]: discovers devices and opens connections
//   - [DeviceLink]: a single open connection to the matrix command characteristic
//
// This separation keeps the controller and the GUI testable without BLE
// hardware: tests substitute in-memory fakes for both interfaces.
package ports
