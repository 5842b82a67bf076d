// Package validator collects and reports frontmatter problems found by
// matter check.
//
// A [Result] holds one [Issue] per problem, each tied to a document path
// and, when the parser reported one, a line and column inside the
// frontmatter block. [Result.AddParseError] turns the error types of the
// toml, yaml and json packages into issues, one per syntax error.
//
//	result := &validator.Result{}
//	for _, r := range results {
//		result.Checked++
//		result.AddParseError(r.Item.Path, "toml", r.Err)
//	}
//	validator.NewReporter(os.Stdout, validator.FormatText).Report(result)
package validator
