// Package intent defines the Intent value type and the application lifecycle
// surface that the client drives.
//
// An Intent names a target application, an action and a parameter map. Intents
// flow in both directions: the host launches the embedded application with one
// and delivers new ones while it runs, and the application sends them to other
// applications or background services.
package intent
