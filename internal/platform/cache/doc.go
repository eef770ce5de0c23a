// Package cache holds the Redis-backed pieces of the service: a read-through
// copy of the question set catalog and a SET NX based once-only guard used to
// deduplicate reminder sends.
package cache
