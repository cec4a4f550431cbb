// Package domain contains the values exchanged between the canonicalization
// service, the HTTP API and the CLI. They are free of infrastructure
// concerns and know how to write themselves as JSON.
package domain
