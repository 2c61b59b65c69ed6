// Package domain defines the core business entities of the scheduling
// service: users, topics, decks, cards, and the per-direction review
// schedules that the spaced-repetition engine operates on.
package domain
