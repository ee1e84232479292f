// Package tally owns the ERP query protocol client.
//
// Ownership boundary:
// - envelope construction and spec validation
// - filter formula dialects
// - blocking HTTP transport
// - record extraction from response text
package tally
