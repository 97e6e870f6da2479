package mailinglist

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("ada@example.com"))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail("a b@example.com"))
	assert.False(t, ValidEmail("ada@example"))
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in, first, last string
	}{
		{"Ada", "Ada", ""},
		{"Ada Lovelace", "Ada", "Lovelace"},
		{"Ada King Lovelace", "Ada", "King Lovelace"},
		{" Ada", " Ada", "Ada"},
	}
	for _, tt := range tests {
		first, last := SplitName(tt.in)
		assert.Equal(t, tt.first, first, "first of %q", tt.in)
		assert.Equal(t, tt.last, last, "last of %q", tt.in)
	}
}

func upstream(t *testing.T, status int, body string, seen *memberRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/3.0/lists/list-1/members", r.URL.Path)
		assert.Equal(t, "Bearer key-1", r.Header.Get("Authorization"))
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(url string) *Client {
	return New(Config{APIKey: "key-1", ListID: "list-1", BaseURL: url}, nil)
}

func TestSubscribeSuccess(t *testing.T) {
	var seen memberRequest
	srv := upstream(t, http.StatusOK, `{"id":"abc"}`, &seen)

	err := newTestClient(srv.URL).Subscribe(context.Background(), Subscriber{Name: "Ada King Lovelace", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", seen.EmailAddress)
	assert.Equal(t, "subscribed", seen.Status)
	assert.Equal(t, "Ada", seen.MergeFields.FirstName)
	assert.Equal(t, "King Lovelace", seen.MergeFields.LastName)
}

func TestSubscribeMemberExists(t *testing.T) {
	srv := upstream(t, http.StatusBadRequest, `{"title":"Member Exists","detail":"ada@example.com is already a list member."}`, nil)

	err := newTestClient(srv.URL).Subscribe(context.Background(), Subscriber{Name: "Ada", Email: "ada@example.com"})
	assert.ErrorIs(t, err, ErrAlreadySubscribed)
}

func TestSubscribeUpstreamError(t *testing.T) {
	srv := upstream(t, http.StatusNotFound, `{"title":"Resource Not Found","detail":"The requested resource could not be found."}`, nil)

	err := newTestClient(srv.URL).Subscribe(context.Background(), Subscriber{Name: "Ada", Email: "ada@example.com"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "The requested resource could not be found.", apiErr.Detail)
}

func TestSubscribeNonJSONError(t *testing.T) {
	srv := upstream(t, http.StatusBadGateway, `<html>bad gateway</html>`, nil)

	err := newTestClient(srv.URL).Subscribe(context.Background(), Subscriber{Name: "Ada", Email: "ada@example.com"})
	assert.ErrorIs(t, err, ErrMalformedResponse)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestSubscribeNonJSONSuccess(t *testing.T) {
	srv := upstream(t, http.StatusOK, `<html>proxy</html>`, nil)

	err := newTestClient(srv.URL).Subscribe(context.Background(), Subscriber{Name: "Ada", Email: "ada@example.com"})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestSubscribeNotConfigured(t *testing.T) {
	c := New(Config{APIKey: "key-1"}, nil)
	assert.False(t, c.Configured())
	assert.ErrorIs(t, c.Subscribe(context.Background(), Subscriber{}), ErrNotConfigured)
}

func TestMembersURLDefaultsPrefix(t *testing.T) {
	c := New(Config{APIKey: "k", ListID: "abc"}, nil)
	assert.Equal(t, "https://us16.api.mailchimp.com/3.0/lists/abc/members", c.membersURL())
}
