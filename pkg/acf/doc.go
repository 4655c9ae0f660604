// Package acf decodes Advanced Custom Fields data stored as flat WordPress
// post meta rows into typed values.
//
// ACF persists every field as one or more meta rows on the owning post. A
// scalar field is a single row keyed by the field name. Repeatable fields
// (repeaters and flexible content) flatten their rows into keys of the form
// {field}_{index}_{subfield}, and a companion row {field} holds either the row
// count (repeater) or a serialized array of layout names (flexible content).
// Each value row is paired with a hidden _{key} row naming the ACF field key
// whose definition post describes the field type.
//
// # Decoding
//
// A FieldFactory resolves a meta key to a Field decoder, first through the
// stored field definition and, for flexible content subfields without one,
// through the name and layout inference tables. FlexibleContent groups rows by
// block index and returns an ordered []Block. Image resolves an attachment id
// to its post and decodes the serialized attachment metadata, including the
// generated size variants.
//
// Storage is abstracted by Repository; implementations live under repo/.
package acf
