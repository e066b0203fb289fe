// Package app provides the application logic behind the transporter command line.
// It turns the loaded configuration and the command line request into a Transport,
// then either prints the prepared request or sends it and writes the response body.
package app
