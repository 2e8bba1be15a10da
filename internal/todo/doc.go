// Package todo holds the in-memory task store.
//
// A Store owns an ordered collection of tasks. Creation order is display
// order. Each task carries:
//
//	{
//	  "id": 1,
//	  "description": "Buy milk",
//	  "due_date": "2024-05-01T00:00:00",
//	  "priority": "low",
//	  "completed": false
//	}
//
// # Identity
//
// IDs start at 1 and come from a counter that only moves forward. Deleting
// a task never frees its ID, and the counter is persisted alongside the
// tasks so a reload keeps the same policy.
//
// # Due Dates
//
// Due dates are accepted as YYYY-MM-DD and stored as YYYY-MM-DDT00:00:00.
// Anything else fails with ErrInvalidDateFormat before the store changes.
//
// # Priorities
//
//   - "low"
//   - "medium"
//   - "high"
//
// An empty priority means unset and encodes as null.
//
// The store does no locking. It is owned by a single caller for the life of
// one command or one interactive session.
package todo
