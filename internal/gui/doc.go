// Package gui serves the local browser control page. The page itself is a
// single embedded HTML document; everything dynamic flows over a WebSocket
// RPC connection at /ws using the Frame envelope. Connection state changes
// and device ACKs are pushed to every connected page as event frames.
package gui
