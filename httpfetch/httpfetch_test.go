package httpfetch_test

import (
	"net/http"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/require"

	"github.com/acksell/rpmscan/httpfetch"
)

// roundTripFunc adapts a function to http.RoundTripper so tests can fake
// server behavior without a real listener.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func instantBackOff() backoff.BackOff {
	return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 5)
}

// Two 5xx responses followed by a 2xx succeed overall: the transient
// failures are retried and the eventual success is returned.
func TestGetRetriesServerErrorsThenSucceeds(t *testing.T) {
	attempts := 0
	transport := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		attempts++
		if attempts <= 2 {
			return &http.Response{StatusCode: 503, Body: http.NoBody, Header: make(http.Header)}, nil
		}
		return &http.Response{
			StatusCode: 200,
			Body:       http.NoBody,
			Header:     make(http.Header),
		}, nil
	})

	client, err := httpfetch.New(httpfetch.Options{
		Transport: transport,
		BackOff:   instantBackOff,
	})
	require.NoError(t, err)

	_, err = client.Get(t.Context(), "https://example.invalid/repodata/repomd.xml")
	require.NoError(t, err)
	require.Equal(t, 3, attempts)
}

// A 4xx response fails immediately, without retrying.
func TestGetFailsFastOnClientError(t *testing.T) {
	attempts := 0
	transport := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		attempts++
		return &http.Response{StatusCode: 404, Body: http.NoBody, Header: make(http.Header)}, nil
	})

	client, err := httpfetch.New(httpfetch.Options{
		Transport: transport,
		BackOff:   instantBackOff,
	})
	require.NoError(t, err)

	_, err = client.Get(t.Context(), "https://example.invalid/repodata/repomd.xml")
	require.Error(t, err)
	require.Equal(t, 1, attempts)

	var classified *httpfetch.ClassifiedError
	require.ErrorAs(t, err, &classified)
	require.Equal(t, httpfetch.KindPermanent, classified.Kind)
}

// Exhausting every retry on persistent 5xx responses still reports a
// transient-classified error, not success.
func TestGetExhaustsRetriesOnPersistentServerError(t *testing.T) {
	attempts := 0
	transport := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		attempts++
		return &http.Response{StatusCode: 503, Body: http.NoBody, Header: make(http.Header)}, nil
	})

	client, err := httpfetch.New(httpfetch.Options{
		Transport: transport,
		BackOff:   instantBackOff,
	})
	require.NoError(t, err)

	_, err = client.Get(t.Context(), "https://example.invalid/repodata/repomd.xml")
	require.Error(t, err)
	require.Equal(t, 6, attempts, "one initial attempt plus five retries")

	var classified *httpfetch.ClassifiedError
	require.ErrorAs(t, err, &classified)
	require.Equal(t, httpfetch.KindTransient, classified.Kind)
}

// New's zero-value Options path (system trust store, default timeout and
// schedule) builds a usable client.
func TestNewWithZeroOptions(t *testing.T) {
	client, err := httpfetch.New(httpfetch.Options{})
	require.NoError(t, err)
	require.NotNil(t, client)
}
