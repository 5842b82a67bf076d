package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/matter/internal/errors"
	"github.com/thoreinstein/matter/internal/logging"
	"github.com/thoreinstein/matter/pkg/frontmatter"
	"github.com/thoreinstein/matter/pkg/frontmatter/toml"
	"github.com/thoreinstein/matter/pkg/item"
)

func makeItems(n int, bad map[int]bool) []*item.Item {
	items := make([]*item.Item, n)
	for i := range n {
		meta := fmt.Sprintf("n = %d", i)
		if bad[i] {
			meta = "n = "
		}
		items[i] = item.New(fmt.Sprintf("doc%02d.md", i), "---\n"+meta+"\n---\nbody")
	}
	return items
}

func TestRun_OrderAndIsolation(t *testing.T) {
	items := makeItems(20, map[int]bool{3: true, 11: true})

	results, err := Run(context.Background(), items, []Stage{toml.Parse}, Options{Workers: 4})
	require.NoError(t, err)
	require.Len(t, results, 20)

	for i, r := range results {
		assert.Same(t, items[i], r.Item)
		assert.Equal(t, items[i].Path, r.Path)
		assert.False(t, r.Skipped)
		if i == 3 || i == 11 {
			assert.True(t, errors.Is(r.Err, frontmatter.ErrSyntax), "item %d", i)
			assert.Equal(t, "---\nn = \n---\nbody", r.Item.Body)
			continue
		}
		require.NoError(t, r.Err, "item %d", i)
		assert.Equal(t, "body", r.Item.Body)
		md, ok := Lookup(r.Item)
		require.True(t, ok)
		assert.Equal(t, int64(i), md.Value.(map[string]any)["n"])
	}
}

func TestRun_StagesInOrder(t *testing.T) {
	var order []string
	record := func(name string, err error) Stage {
		return func(frontmatter.Document) error {
			order = append(order, name)
			return err
		}
	}
	first := record("first", nil)
	failing := record("fail", errors.New("stop"))
	never := record("never", nil)

	results, err := Run(context.Background(), makeItems(1, nil), []Stage{first, failing, never}, Options{Workers: 1})
	require.NoError(t, err)
	assert.EqualError(t, results[0].Err, "stop")
	assert.Equal(t, []string{"first", "fail"}, order)
}

func TestRun_FailFast(t *testing.T) {
	items := makeItems(50, map[int]bool{0: true})

	results, err := Run(context.Background(), items, []Stage{toml.Parse}, Options{Workers: 1, FailFast: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, frontmatter.ErrSyntax))
	assert.True(t, errors.Is(results[0].Err, frontmatter.ErrSyntax))
	assert.True(t, results[len(results)-1].Skipped, "later items should not run")
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	stage := func(frontmatter.Document) error {
		calls.Add(1)
		return nil
	}

	results, err := Run(ctx, makeItems(5, nil), []Stage{stage}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls.Load())
	for _, r := range results {
		assert.True(t, r.Skipped)
	}
}

func TestRun_Empty(t *testing.T) {
	results, err := Run(context.Background(), nil, []Stage{toml.Parse}, Options{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestParseFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
		return p
	}
	good := write("good.toml", "---\ntitle = 'ok'\n---\nbody")
	bad := write("bad.json", "---\n{\"a\": }\n---\nbody")
	plain := write("plain.md", "no frontmatter here")
	missing := filepath.Join(dir, "missing.md")

	ctx := logging.NewContext(context.Background(), logging.ForTest(t))
	choose := func(p string) Format { return FormatForPath(p, nil) }

	results, err := ParseFiles(ctx, []string{good, bad, plain, missing}, choose, Options{Workers: 2})
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.NoError(t, results[0].Err)
	assert.Equal(t, FormatTOML, results[0].Format)
	assert.Equal(t, "body", results[0].Item.Body)

	assert.True(t, errors.Is(results[1].Err, frontmatter.ErrSyntax))
	assert.Equal(t, FormatJSON, results[1].Format)

	assert.NoError(t, results[2].Err)
	_, ok := Lookup(results[2].Item)
	assert.False(t, ok)

	assert.Error(t, results[3].Err)
	assert.Nil(t, results[3].Item)
}

func TestParseFiles_UnknownFormat(t *testing.T) {
	results, err := ParseFiles(context.Background(), []string{"x.md"}, func(string) Format { return "ini" }, Options{})
	require.NoError(t, err)
	assert.True(t, errors.Is(results[0].Err, errors.ErrUnknownFormat))
}
