// Package core provides the foundational domain types shared across the
// shopagent engine. It defines:
//
//   - Messages and roles exchanged within a conversation
//   - The closed set of intents the classifier may emit
//   - The chat request/response contract returned to callers
//   - The error taxonomy recovered at the orchestrator boundary
//   - A bounded-retry helper for calls to external services
//
// The package intentionally keeps implementation concerns (persistence,
// model providers, orchestration) out of scope, exposing small types so
// higher layers can depend on contracts rather than concrete backends.
package core
