// Package client defines the boundary between the request builder and the HTTP stack.
// It holds the typed option set (Config), the issued request snapshot (Request), the
// buffered outcome (Response), and the Adapter/Factory interfaces together with a
// go-resty backed implementation.
package client
