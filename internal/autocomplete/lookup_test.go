package autocomplete

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/ezcomplete/internal/delayguard"
	"github.com/nhath/ezcomplete/internal/dom"
)

func TestEncodeQuery(t *testing.T) {
	tests := map[string]string{
		"Can":             "Can",
		"New Zealand":     "New%20Zealand",
		"a&b=c":           "a%26b%3Dc",
		"São Tomé":        "S%C3%A3o%20Tom%C3%A9",
		"50%":             "50%25",
		"plus+sign":       "plus%2Bsign",
		"slash/question?": "slash%2Fquestion%3F",
		"Côte d'Ivoire":   "C%C3%B4te%20d'Ivoire",
		"(a)*!~-_.":       "(a)*!~-_.",
	}
	for in, want := range tests {
		assert.Equal(t, want, EncodeQuery(in), in)
	}
}

func TestDecodeMatches(t *testing.T) {
	m, err := DecodeMatches([]byte(` [{"name":"Canada","code":"CA"},{"name":"China"}] `))
	require.NoError(t, err)
	assert.Equal(t, []Match{{Name: "Canada"}, {Name: "China"}}, m)

	m, err = DecodeMatches([]byte(`[]`))
	require.NoError(t, err)
	assert.NotNil(t, m)
	assert.Empty(t, m)

	_, err = DecodeMatches([]byte(`null`))
	assert.ErrorIs(t, err, ErrNotArray)

	_, err = DecodeMatches([]byte(`{"name":"Canada"}`))
	assert.ErrorIs(t, err, ErrNotArray)

	_, err = DecodeMatches([]byte(`[{"name":`))
	assert.Error(t, err)
}

func newCountriesServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/countries":
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			w.Header().Set("Content-Type", "application/json")
			if r.URL.Query().Get("matching") == "New Z" {
				w.Write([]byte(`[{"name":"New Zealand"}]`))
				return
			}
			w.Write([]byte(`[]`))
		case "/broken":
			w.Write([]byte(`<html>oops</html>`))
		default:
			http.Error(w, "nope", http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetcher_Get(t *testing.T) {
	srv := newCountriesServer(t)
	f, err := NewHTTPFetcher(HTTPFetcherConfig{Origin: srv.URL})
	require.NoError(t, err)

	matches, body, err := f.Get(context.Background(), "/countries?matching="+EncodeQuery("New Z"))
	require.NoError(t, err)
	assert.Equal(t, []Match{{Name: "New Zealand"}}, matches)
	assert.JSONEq(t, `[{"name":"New Zealand"}]`, string(body))

	matches, _, err = f.Get(context.Background(), srv.URL+"/countries?matching=zz")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestHTTPFetcher_GetErrors(t *testing.T) {
	srv := newCountriesServer(t)
	f, err := NewHTTPFetcher(HTTPFetcherConfig{Origin: srv.URL})
	require.NoError(t, err)

	_, _, err = f.Get(context.Background(), "/missing")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)

	_, _, err = f.Get(context.Background(), "/broken")
	assert.ErrorIs(t, err, ErrNotArray)

	noOrigin, err := NewHTTPFetcher(HTTPFetcherConfig{})
	require.NoError(t, err)
	_, _, err = noOrigin.Get(context.Background(), "/countries?matching=a")
	assert.ErrorContains(t, err, "without an origin")
}

func TestNewHTTPFetcher_InvalidOrigin(t *testing.T) {
	_, err := NewHTTPFetcher(HTTPFetcherConfig{Origin: "::not a url"})
	assert.Error(t, err)

	_, err = NewHTTPFetcher(HTTPFetcherConfig{Origin: "/relative"})
	assert.Error(t, err)
}

// queueLoop collects posted callbacks so the test can run them on its own
// goroutine, the way a host event loop would.
type queueLoop struct {
	posts chan func()
}

func newQueueLoop() *queueLoop {
	return &queueLoop{posts: make(chan func(), 8)}
}

func (q *queueLoop) Post(fn func()) {
	q.posts <- fn
}

func TestHTTPFetcher_FetchPostsOnLoop(t *testing.T) {
	srv := newCountriesServer(t)
	loop := newQueueLoop()
	f, err := NewHTTPFetcher(HTTPFetcherConfig{Origin: srv.URL, Loop: loop})
	require.NoError(t, err)

	var got []Match
	f.Fetch("/countries?matching=New%20Z", func(m []Match) { got = m })

	select {
	case fn := <-loop.posts:
		assert.Nil(t, got, "callback must wait for the loop")
		fn()
	case <-time.After(5 * time.Second):
		t.Fatal("lookup never completed")
	}
	assert.Equal(t, []Match{{Name: "New Zealand"}}, got)
}

func TestHTTPFetcher_FailuresAreSilent(t *testing.T) {
	srv := newCountriesServer(t)
	loop := newQueueLoop()
	f, err := NewHTTPFetcher(HTTPFetcherConfig{Origin: srv.URL, Loop: loop})
	require.NoError(t, err)

	called := false
	f.Fetch("/missing", func([]Match) { called = true })
	f.Fetch("/broken", func([]Match) { called = true })

	select {
	case <-loop.posts:
		t.Fatal("failed lookups must not reach the loop")
	case <-time.After(200 * time.Millisecond):
	}
	assert.False(t, called)
}

func TestWidget_WithHTTPFetcher(t *testing.T) {
	srv := newCountriesServer(t)
	loop := newQueueLoop()
	doc := dom.NewDocument(loop)
	doc.Body.AppendChild(doc.CreateElement("input"))

	f, err := NewHTTPFetcher(HTTPFetcherConfig{Origin: srv.URL, Loop: loop})
	require.NoError(t, err)
	w, err := Attach(doc, WithFetcher(f))
	require.NoError(t, err)

	w.Input().Value = "New Z"
	w.Input().Dispatch(dom.NewEvent(dom.EventInput))

	// First post: the quiet period elapsing. Second: the lookup completing.
	for i := 0; i < 2; i++ {
		select {
		case fn := <-loop.posts:
			fn()
		case <-time.After(5 * time.Second):
			t.Fatalf("post %d never arrived", i)
		}
	}

	assert.True(t, w.State().Visible)
	assert.Equal(t, "New Zealand", w.Overlay().TextContent())
}

func TestAttach_DefaultFetcherUsesOrigin(t *testing.T) {
	srv := newCountriesServer(t)
	loop := newQueueLoop()
	doc := dom.NewDocument(loop)
	doc.Body.AppendChild(doc.CreateElement("input"))
	clock := delayguard.NewManual()

	w, err := Attach(doc, WithOrigin(srv.URL), WithScheduler(clock))
	require.NoError(t, err)
	assert.Equal(t, DefaultEndpoint, w.URL())

	w.Input().Value = "New Z"
	w.Input().Dispatch(dom.NewEvent(dom.EventInput))
	clock.Advance(QuietPeriod)

	select {
	case fn := <-loop.posts:
		fn()
	case <-time.After(5 * time.Second):
		t.Fatal("lookup never reached the server")
	}

	assert.True(t, w.State().Visible)
	assert.Equal(t, []Match{{Name: "New Zealand"}}, w.State().Matches)
}

func TestAttach_EndpointAndSelectorOptions(t *testing.T) {
	doc := dom.NewDocument(nil)
	doc.Body.AppendChild(doc.CreateElement("input"))
	city := doc.Body.AppendChild(doc.CreateElement("input"))
	city.ID = "city"

	w, err := Attach(doc, WithEndpoint("/cities?q="), WithSelector("#city"), WithOrigin("http://lookup.test"))
	require.NoError(t, err)
	assert.Same(t, city, w.Input())
	assert.Equal(t, "/cities?q=", w.URL())
}

func TestAttach_InvalidOrigin(t *testing.T) {
	for _, origin := range []string{"/relative", "::not a url"} {
		doc := dom.NewDocument(nil)
		doc.Body.AppendChild(doc.CreateElement("input"))

		_, err := Attach(doc, WithOrigin(origin))
		assert.Error(t, err, origin)
	}

	doc := dom.NewDocument(nil)
	doc.Body.AppendChild(doc.CreateElement("input"))
	_, err := Attach(doc, WithOrigin("/relative"), WithFetcher(&fakeFetcher{}))
	assert.NoError(t, err, "an injected fetcher ignores the origin")
}
