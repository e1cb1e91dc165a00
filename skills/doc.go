// Package skills owns the skill registry: the mapping from skill
// identifiers and trigger phrases to descriptor/runner pairs.
//
// A skill pairs a Descriptor (payload → features) with a Runner
// (features → output). Registrations are immutable once inserted; a
// re-registration under the same identifier replaces the old bundle
// atomically, which the verified-manifest update path relies on.
// Lookups return (value, false) for unknown identifiers or mismatched
// type parameters, never panic.
package skills
