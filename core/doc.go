// Package core provides the foundational domain types used by campusmesh. It
// defines the core abstractions for:
//
//   - Agent descriptors (identifier, instruction text, tool handlers, scopes)
//   - Sessions (stateful conversational containers with an append-only transcript)
//   - Messages (immutable transcript records with role and turn index)
//   - Transitions (the closed result variants of resolving a tool invocation)
//   - The shared error taxonomy of the orchestration engine
//
// The package intentionally keeps implementation concerns (routing, the
// conversation loop, storage, model backends) out of scope, exposing small
// types so higher layers can be composed and tested independently.
package core
