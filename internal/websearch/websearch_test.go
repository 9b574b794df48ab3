package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage = `<html><body>
<div class="result results_links">
  <h2><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fwww.example.com%2Fcot&amp;rut=x">Chain of <b>Thought</b> prompting</a></h2>
  <a class="result__snippet" href="#">Ask the model to reason step by step.</a>
</div>
<div class="result">
  <h2><a class="result__a" href="https://blog.test/agents">LLM agents</a></h2>
</div>
<div class="result"><span>no link here</span></div>
<div class="result">
  <h2><a class="result__a" href="https://third.test/">Third</a></h2>
  <a class="result__snippet">Another snippet.</a>
</div>
</body></html>`

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/html/", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("q"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestResults(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, resultsPage)
	c := New(WithBaseURL(srv.URL))

	results, err := c.Results(context.Background(), "chain of thought")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "Chain of Thought prompting", results[0].Title)
	assert.Equal(t, "https://www.example.com/cot", results[0].URL)
	assert.Equal(t, "Ask the model to reason step by step.", results[0].Snippet)
	assert.Equal(t, "LLM agents", results[1].Title)
	assert.Empty(t, results[1].Snippet)
}

func TestSearchFormatsText(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, resultsPage)
	c := New(WithBaseURL(srv.URL+"/"), WithMaxResults(2))

	text, err := c.Search(context.Background(), "chain of thought")
	require.NoError(t, err)

	want := "[Result 1] Chain of Thought prompting\n" +
		"Ask the model to reason step by step.\n" +
		"Source: example.com\n\n" +
		"[Result 2] LLM agents\n" +
		"Source: blog.test"
	assert.Equal(t, want, text)
}

func TestSearchNoResults(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `<html><body><p>nothing</p></body></html>`)
	c := New(WithBaseURL(srv.URL))

	text, err := c.Search(context.Background(), "zzzz")
	require.NoError(t, err)
	assert.Equal(t, "No results found for: zzzz", text)
}

func TestSearchHTTPError(t *testing.T) {
	srv := newTestServer(t, http.StatusServiceUnavailable, "busy")
	c := New(WithBaseURL(srv.URL), WithTimeout(time.Second))

	_, err := c.Search(context.Background(), "q")
	assert.ErrorContains(t, err, "503")
}

func TestResolveRedirect(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"//duckduckgo.com/l/?uddg=https%3A%2F%2Fa.test%2Fx", "https://a.test/x"},
		{"https://duckduckgo.com/l/?kh=1", "https://duckduckgo.com/l/?kh=1"},
		{"https://a.test/page", "https://a.test/page"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveRedirect(tt.in), tt.in)
	}
}
