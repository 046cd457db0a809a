// Package service provides application-level services for managing users,
// decks, the shared card catalog, and training sessions. Services
// orchestrate stores, the card generator, and the scheduler; they own the
// business rules that span more than one store.
package service
