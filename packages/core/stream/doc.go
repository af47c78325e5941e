// Package stream decodes executed-specification result documents.
//
// A result document is one JSON object per spec file: the spec name
// plus a nested fragment tree. A fragment's status is either a plain
// tag ("success", "failure", "error", "skipped", "pending") or a
// decoration {"decorated": <status>} nested to any depth.
package stream
