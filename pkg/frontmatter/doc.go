// Package frontmatter splits a document into its frontmatter block and its
// body, and attaches parsed frontmatter to the document.
//
// Frontmatter is the block at the very start of a document delimited by
// lines containing only "---" (trailing whitespace allowed):
//
//	---
//	title = 'Hello'
//	---
//	Body text.
//
// [Split] finds the block and returns the metadata text and the body as
// substrings of the input. It never fails: content without a block comes
// back unchanged as the body, with empty metadata.
//
// # Attaching metadata
//
// The format packages ([github.com/thoreinstein/matter/pkg/frontmatter/toml],
// [github.com/thoreinstein/matter/pkg/frontmatter/yaml] and
// [github.com/thoreinstein/matter/pkg/frontmatter/json]) each expose a
// Parse function that decodes the block in their format, stores the value
// in the document's extension map under the package's Metadata key, and
// replaces the document content with the body:
//
//	doc := item.New("post.md", content)
//	if err := toml.Parse(doc); err != nil {
//		return err
//	}
//	meta, ok := extension.Get(doc.Extensions(), toml.Metadata)
//
// Parsing is all-or-nothing. A document without frontmatter is left
// untouched and Parse returns nil; a document whose frontmatter fails to
// decode is left untouched and Parse returns an error for which
// errors.Is(err, [ErrSyntax]) reports true. The caller decides which
// format to parse; nothing here inspects the content to guess.
//
// Both Unix (LF) and Windows (CRLF) line endings are handled.
package frontmatter
