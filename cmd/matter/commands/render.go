package commands

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/matter/internal/render"
)

var (
	renderFormat     string
	renderStandalone bool
)

func init() {
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "",
		"frontmatter format: toml, yaml, json, auto (default from config)")
	renderCmd.Flags().BoolVar(&renderStandalone, "standalone", false, "wrap the output in an HTML page")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Render the document body as HTML",
	Long: `Parse the frontmatter, then render the body as GitHub flavored Markdown.

The page title is the "title" field of the frontmatter when it is a
string, otherwise the first level-1 heading of the body.`,
	Example: `  matter render post.md > post.html
  matter render post.md --standalone`,
	Args: cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		return runRender(c.Context(), c.OutOrStdout(), args[0])
	},
}

func runRender(ctx context.Context, w io.Writer, path string) error {
	choose, err := formatChooser(renderFormat)
	if err != nil {
		return err
	}
	it, err := loadDocument(ctx, path, choose(path))
	if err != nil {
		return err
	}

	page, err := render.New().Render(it)
	if err != nil {
		return err
	}

	if renderStandalone {
		fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n%s</body>\n</html>\n",
			html.EscapeString(page.Title), page.HTML)
		return nil
	}
	if page.Title != "" {
		fmt.Fprintf(w, "<!-- title: %s -->\n", html.EscapeString(page.Title))
	}
	_, err = io.WriteString(w, page.HTML)
	return err
}
