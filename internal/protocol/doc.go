// Package protocol implements the wire format of the host channel.
//
// Every message, in both directions, is an envelope:
//
//	{
//	  "target": "valuApi",
//	  "name": "api:run",
//	  "message": {...}
//	}
//
// The target tag lets the channel be shared with unrelated traffic: inbound
// envelopes carrying another tag are dropped before their payload is parsed.
//
// The package also provides the building blocks of request/response
// correlation:
//   - NewRequestID, which generates locally unique, time-ordered identifiers
//   - Table, a pending-request table with atomic claim-and-delete
//   - Reply, the Ok/Err union decided once when a reply is decoded
//   - Tombstones, a short-lived memory of settled identifiers
package protocol
