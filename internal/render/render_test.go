package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/matter/pkg/frontmatter/toml"
	"github.com/thoreinstein/matter/pkg/frontmatter/yaml"
	"github.com/thoreinstein/matter/pkg/item"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		parse     func(*item.Item) error
		wantTitle string
		wantHTML  []string
	}{
		{
			name:      "metadata title wins",
			content:   "---\ntitle = 'From Meta'\n---\n# Heading\n\nText.\n",
			parse:     func(it *item.Item) error { return toml.Parse(it) },
			wantTitle: "From Meta",
			wantHTML:  []string{`<h1 id="heading">Heading</h1>`, "<p>Text.</p>"},
		},
		{
			name:      "first level-1 heading",
			content:   "---\nauthor: me\n---\n## Sub\n\n# The *Real* Title\n\n# Second\n",
			parse:     func(it *item.Item) error { return yaml.Parse(it) },
			wantTitle: "The Real Title",
			wantHTML:  []string{"<em>Real</em>"},
		},
		{
			name:      "non-string title falls back to heading",
			content:   "---\ntitle: 42\n---\n# Answer\n",
			parse:     func(it *item.Item) error { return yaml.Parse(it) },
			wantTitle: "Answer",
		},
		{
			name:      "no title",
			content:   "plain paragraph\n",
			wantTitle: "",
			wantHTML:  []string{"<p>plain paragraph</p>"},
		},
		{
			name:     "gfm table",
			content:  "| a | b |\n|---|---|\n| 1 | 2 |\n",
			wantHTML: []string{"<table>", "<td>1</td>"},
		},
	}

	r := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := item.New("doc.md", tt.content)
			if tt.parse != nil {
				require.NoError(t, tt.parse(doc))
			}

			page, err := r.Render(doc)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, page.Title)
			for _, want := range tt.wantHTML {
				assert.Contains(t, page.HTML, want)
			}
		})
	}
}
