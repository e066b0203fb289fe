// Package transporter provides an immutable, fluent HTTP request builder.
//
// A Transport accumulates the method, target URI, headers, cookies and body
// parameters of a request. Methods prefixed with "With" return a new Transport
// and never modify the receiver; methods prefixed with "Set", "Replace" and
// "Remove" modify the receiver in place and rebuild its HTTP client adapter once
// per call. Send issues the request through the bound adapter and captures any
// failure in the returned Response instead of propagating it.
package transporter
