// Package widgettour is a small standalone walkthrough of the terminal
// widgets used in this repository. It has no connection to the matrix
// protocol; it exists as a live reference for the text, input, table and
// progress components.
package widgettour
