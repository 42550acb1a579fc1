package transkribus

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acdh-oeaw/transkribus-utils/internal/config"
	"github.com/acdh-oeaw/transkribus-utils/internal/errs"
)

func TestAuthenticate(t *testing.T) {
	_, srv := newFakeTranskribus(t)

	session, err := Authenticate(context.Background(), srv.Client(), "user@example.org", "secret", srv.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, testToken, session.Token)
	assert.Equal(t, srv.URL, session.BaseURL)
}

func TestAuthenticateRejected(t *testing.T) {
	_, srv := newFakeTranskribus(t)

	_, err := Authenticate(context.Background(), srv.Client(), "user@example.org", "wrong", srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrAuth)

	var apiErr *errs.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 403, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "invalid credentials")
}

func TestAuthenticateEmptyCredentials(t *testing.T) {
	_, err := Authenticate(context.Background(), nil, "", "secret", "http://localhost")
	assert.ErrorIs(t, err, errs.ErrConfig)
}

func TestNewClient(t *testing.T) {
	_, srv := newFakeTranskribus(t)

	c, err := NewClient(context.Background(), config.Settings{
		User:         "user@example.org",
		Password:     "secret",
		BaseURL:      srv.URL,
		GoobiBaseURL: "https://viewer.example.org/sourcefile?id=",
	}, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	assert.Equal(t, testToken, c.Session().Token)
	assert.Equal(t, "https://viewer.example.org/sourcefile?id=", c.GoobiBaseURL())
}

func TestNewClientMissingConfig(t *testing.T) {
	t.Setenv(config.EnvUser, "")
	t.Setenv(config.EnvPassword, "")
	t.Setenv(config.EnvBaseURL, "")

	_, err := NewClient(context.Background(), config.Settings{User: "someone"})
	assert.ErrorIs(t, err, errs.ErrConfig)
}

func TestExpiredSessionSurfacesAsAPIError(t *testing.T) {
	_, srv := newFakeTranskribus(t)
	c := NewClientWithSession(Session{BaseURL: srv.URL, Token: "expired"}, "", WithHTTPClient(srv.Client()))

	_, err := c.ListCollections(context.Background())
	require.Error(t, err)
	assert.Equal(t, 401, errs.StatusCode(err))
}

func TestGetOrCreateCollectionIsIdempotent(t *testing.T) {
	f, srv := newFakeTranskribus(t)
	c := f.client(srv, afero.NewMemMapFs())
	ctx := context.Background()

	first, err := c.GetOrCreateCollection(ctx, "acdh-transkribus-utils")
	require.NoError(t, err)
	second, err := c.GetOrCreateCollection(ctx, "acdh-transkribus-utils")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.callCount("/collections/createCollection"))
}

func TestGetOrCreateCollectionFirstMatchWins(t *testing.T) {
	f, srv := newFakeTranskribus(t)
	f.collections = []Collection{{ID: 7, Name: "dup"}, {ID: 3, Name: "dup"}, {ID: 9, Name: "other"}}
	c := f.client(srv, afero.NewMemMapFs())

	id, err := c.GetOrCreateCollection(context.Background(), "dup")
	require.NoError(t, err)
	assert.Equal(t, 7, id)
	assert.Equal(t, 0, f.callCount("/collections/createCollection"))
}

func TestCreateCollectionFailure(t *testing.T) {
	f, srv := newFakeTranskribus(t)
	f.failPaths["/collections/createCollection"] = 500
	c := f.client(srv, afero.NewMemMapFs())

	_, err := c.GetOrCreateCollection(context.Background(), "new")
	require.Error(t, err)
	assert.Equal(t, 500, errs.StatusCode(err))
}

func TestFilterCollectionsByName(t *testing.T) {
	f, srv := newFakeTranskribus(t)
	f.collections = []Collection{{ID: 1, Name: "acdh-transkribus-utils"}, {ID: 2, Name: "kelsen"}, {ID: 3, Name: "acdh-other"}}
	c := f.client(srv, afero.NewMemMapFs())

	cols, err := c.FilterCollectionsByName(context.Background(), "acdh-")
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, 1, cols[0].ID)
	assert.Equal(t, 3, cols[1].ID)
}

func TestSearchFulltext(t *testing.T) {
	f, srv := newFakeTranskribus(t)
	c := f.client(srv, afero.NewMemMapFs())

	res, err := c.SearchFulltext(context.Background(), "Wien", url.Values{"rows": {"10"}})
	require.NoError(t, err)
	assert.Equal(t, "Wien", res["query"])
	assert.Equal(t, "LinesLc", res["type"])

	_, err = c.SearchFulltext(context.Background(), "", nil)
	assert.ErrorIs(t, err, errs.ErrConfig)
}
