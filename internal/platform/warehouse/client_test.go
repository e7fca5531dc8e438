package warehouse

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutil "github.com/imamik/dwhprov/internal/testing"
)

//nolint:ireturn // Returning interface is appropriate for test mock helper
func newMockConn(t *testing.T) pgxmock.PgxConnIface {
	t.Helper()

	mock, err := pgxmock.NewConn(pgxmock.MonitorPingsOption(true))
	require.NoError(t, err)
	return mock
}

func TestConnString(t *testing.T) {
	t.Parallel()

	cfg := testutil.NewConfigBuilder().
		WithEndpoint(testutil.DefaultEndpoint, testutil.DefaultVPCID).
		WithPassword("p@ss word").
		Build()

	s, err := ConnString(&cfg.Redshift)
	require.NoError(t, err)

	u, err := url.Parse(s)
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, testutil.DefaultEndpoint+":5439", u.Host)
	assert.Equal(t, "/dwh", u.Path)
	assert.Equal(t, "dwhuser", u.User.Username())
	pw, _ := u.User.Password()
	assert.Equal(t, "p@ss word", pw)
	assert.Equal(t, "require", u.Query().Get("sslmode"))
}

func TestConnString_NoEndpoint(t *testing.T) {
	t.Parallel()

	cfg := testutil.NewConfigBuilder().Build()
	_, err := ConnString(&cfg.Redshift)
	assert.ErrorIs(t, err, ErrNoEndpoint)
}

func TestPing(t *testing.T) {
	t.Parallel()

	mock := newMockConn(t)
	mock.ExpectPing()
	mock.ExpectClose()

	cfg := testutil.NewConfigBuilder().WithEndpoint(testutil.DefaultEndpoint, testutil.DefaultVPCID).Build()
	var dialed string
	client := New(&cfg.Redshift, WithDialer(func(_ context.Context, connString string) (Conn, error) {
		dialed = connString
		return mock, nil
	}))

	require.NoError(t, client.Ping(context.Background()))
	assert.Contains(t, dialed, testutil.DefaultEndpoint)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPing_Fails(t *testing.T) {
	t.Parallel()

	mock := newMockConn(t)
	mock.ExpectPing().WillReturnError(errors.New("server closed the connection"))
	mock.ExpectClose()

	cfg := testutil.NewConfigBuilder().WithEndpoint(testutil.DefaultEndpoint, testutil.DefaultVPCID).Build()
	client := New(&cfg.Redshift, WithDialer(func(context.Context, string) (Conn, error) {
		return mock, nil
	}))

	err := client.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ping")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPing_DialError(t *testing.T) {
	t.Parallel()

	cfg := testutil.NewConfigBuilder().WithEndpoint(testutil.DefaultEndpoint, testutil.DefaultVPCID).Build()
	client := New(&cfg.Redshift, WithDialer(func(context.Context, string) (Conn, error) {
		return nil, errors.New("dial tcp: i/o timeout")
	}))

	err := client.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect")
}
