// Package session supervises the appliance connection lifecycle.
//
// A Manager owns one Device (a protocol transport or the development
// simulator) and keeps it connected: exponential-backoff reconnect,
// one synchronization engine per established session, and clean engine
// teardown when the connection drops. The manager also answers health
// queries about connection state and sync counters.
package session
