// Package domain contains the core entities of the journal: users and their
// profiles, diary entries, question sets with their per-user progress
// pointer, and monthly goals. Entities validate themselves and carry no
// knowledge of storage or transport.
package domain
