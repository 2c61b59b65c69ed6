// Package store defines the persistence interfaces the services depend
// on, the shared error sentinels implementations map onto, and the
// transaction helper used to compose multiple store operations atomically.
package store
