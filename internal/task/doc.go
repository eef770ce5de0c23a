// Package task runs background work through an in-memory queue drained by a
// pool of workers. Tasks are persisted before they are queued so that pending
// and interrupted work is picked up again after a restart.
package task
