// Package eventbus implements a named-event publish/subscribe registry.
//
// Listeners are invoked synchronously, in registration order, on the
// goroutine that calls Publish. A listener may be registered as one-shot, in
// which case it is removed after the first dispatch that reaches it.
//
// Every publish is wrapped by two meta-events, EventBefore and EventAfter,
// which receive the published name followed by its arguments. Observers can use
// them to watch all traffic on a bus without knowing individual event names.
package eventbus
