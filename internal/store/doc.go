// Package store holds the shared mutable state of the service: the
// analytics counters and a generic TTL cache for derived values.
//
// Store is the only component requiring synchronization; the generator
// and scorer are stateless. Record and Snapshot never lose or tear an
// update under concurrent use. Cache expiry is evaluated lazily on read;
// the background sweep started by Run only reclaims memory and is not
// required for correctness.
//
// Nothing in the store survives process restart.
package store
