// Package blogboost rewrites scraped articles into reference-augmented,
// AI-enhanced versions and publishes them back to an article store.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., openai/, readability/, sqlite/).
package blogboost
