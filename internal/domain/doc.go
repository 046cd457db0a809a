// Package domain contains the core business entities, value objects, and
// domain logic of the vocabulary service: shared flashcards, user-owned
// decks, and the per-user review state binding a card into a deck. It is
// independent of any specific infrastructure or delivery mechanism.
package domain
