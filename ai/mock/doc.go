// Package mock provides test doubles for the ai interfaces.
//
// Each mock exposes an injectable Func field for custom behavior and a
// call counter for assertions. The defaults return canned text so simple
// tests need no setup.
package mock
