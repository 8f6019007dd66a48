// Package server exposes the REST API over the course store and, when
// configured, serves the static front-end. Collection jobs started over
// the API run on background goroutines and are tracked in the job
// registry.
package server
