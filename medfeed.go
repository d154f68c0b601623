// Package medfeed aggregates medical content from third-party sites.
// It crawls articles, videos and procedure-price listings, reconstructs
// article content into ordered paragraphs and images, and persists the
// result relationally.
//
// This package contains domain types, interfaces and pure domain logic
// following Ben Johnson's Standard Package Layout. Implementations live
// in subdirectories named after their primary dependency (e.g., sqlite/,
// goquery/, http/).
package medfeed
