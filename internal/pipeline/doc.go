// Package pipeline runs frontmatter parsers over documents.
//
// A [Stage] is one parse step, such as toml.Parse. [Run] applies stages to
// many documents at once with a bounded worker pool; every document is
// handled by exactly one goroutine, so documents never see concurrent
// mutation. [ParseFiles] adds reading and per-file format selection on
// top of the same pool, which is what the check and parse commands use.
//
// After parsing, [Lookup] and [Field] read the stored metadata back
// without the caller knowing which format produced it.
package pipeline
