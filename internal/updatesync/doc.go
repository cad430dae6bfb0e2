// Package updatesync defers entity state updates until the hub is
// ready to receive them.
//
// # The race it solves
//
// The appliance session and the hub's entity subscription are two
// independent timelines. On fresh setup the appliance typically
// connects and reports its full state before the hub has subscribed
// any entities; an update emitted at that moment would be silently
// dropped and the hub would show stale or empty state until the next
// organic change on the appliance, which for an idle receiver can be
// minutes or never.
//
// # How it works
//
// One Engine serves one appliance connection. Every state change is
// handed to Notify as a full snapshot:
//
//   - Hub configured (or a previous delivery confirmed it): the
//     snapshot is emitted synchronously, in call order.
//   - Hub not yet configured: the snapshot becomes the pending update,
//     overwriting any previous one (only the latest full state
//     matters), and a single retry loop starts if none is active.
//
// The retry loop attempts delivery at a fixed cadence (default 3s) up
// to a bounded number of attempts (default 10). The first successful
// delivery marks the engine confirmed; from then on the deferral
// machinery is bypassed permanently. If the budget runs out the loop
// stops silently, keeping the pending snapshot, and the next notify
// starts a fresh cycle.
//
// Close cancels the retry loop and drops pending state; the session
// manager creates a fresh engine for each established connection.
//
// # Invariants
//
//   - At most one retry loop runs per engine at any time.
//   - A pending snapshot exists only while unconfirmed.
//   - Confirmed transitions false to true at most once and never reverts.
//   - Notify never returns an error and never blocks indefinitely.
package updatesync
