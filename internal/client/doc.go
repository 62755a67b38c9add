// Package client implements the Valu API client, the single owner of the host
// channel.
//
// The client translates high-level operations into tagged outbound messages
// and routes tagged inbound messages back to whoever is waiting for them:
//   - Module pointers, intents, service calls and console commands are
//     correlated by request id in one pending table per request family
//   - Function-call replies are handed to the module handle that issued them
//   - Readiness, route changes and new intents are dispatched to the bound
//     application and to the client's event bus
//
// The client runs two goroutines: a read loop that decodes frames and settles
// waiters, and a dispatch loop that runs application callbacks and event
// listeners one at a time, in arrival order. Application code may therefore
// await replies from inside a callback without stalling the channel.
package client
