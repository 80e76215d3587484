package view

import (
	"bytes"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
)

func TestNewParsesEveryPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	for _, name := range []string{"index.html", "about.html", "book.html", "bookings.html", "menu.html", "menu_item.html", "error.html"} {
		assert.True(t, r.Has(name), name)
	}
	assert.False(t, r.Has("base.html"))
}

func TestRenderAboutInsideLayout(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/about", nil), httptest.NewRecorder())
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "about.html", nil, c))

	out := buf.String()
	assert.Contains(t, out, "<title>About &middot; Little Lemon</title>")
	assert.Contains(t, out, `href="/about" class="active"`)
	assert.Contains(t, out, `/static/style.css`)

	require.Error(t, r.Render(&buf, "missing.html", nil, c))
}

func TestMarkdownEscapesRawHTML(t *testing.T) {
	render := markdownFunc(goldmark.New())
	out := string(render("Fresh *basil* <script>alert(1)</script>"))
	assert.Contains(t, out, "<em>basil</em>")
	assert.NotContains(t, out, "<script>")
}

func TestStaticFS(t *testing.T) {
	_, err := fs.Stat(StaticFS(), "booking.js")
	require.NoError(t, err)
	_, err = fs.Stat(StaticFS(), "style.css")
	require.NoError(t, err)
}
