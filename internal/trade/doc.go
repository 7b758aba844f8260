// Package trade provides the value types that rules operate on.
//
// An Offer is one tradeable exchange (ingredients → result, with usage limits)
// held by an Agent. A Trade is the mutable façade the engine builds around a
// single live offer for the duration of one trigger invocation.
//
// This package contains type definitions only. All other internal packages
// import trade; trade imports nothing internal.
package trade
