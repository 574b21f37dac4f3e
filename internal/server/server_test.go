package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSchedule records the parameters it was called with and serves
// canned bodies keyed by the resolved signature.
type fakeSchedule struct {
	channelCalls []string
	programCalls []string
	err          error
}

func sig(p *string) string {
	if p == nil {
		return "all"
	}
	return *p
}

func (f *fakeSchedule) Channels(_ context.Context, groupID *string) ([]byte, error) {
	f.channelCalls = append(f.channelCalls, sig(groupID))
	if f.err != nil {
		return nil, f.err
	}
	return []byte(fmt.Sprintf(`{"channels":[],"sig":%q}`, sig(groupID))), nil
}

func (f *fakeSchedule) Programs(_ context.Context, channelIDs *string) ([]byte, error) {
	f.programCalls = append(f.programCalls, sig(channelIDs))
	if f.err != nil {
		return nil, f.err
	}
	return []byte(fmt.Sprintf(`{"programs":[],"sig":%q}`, sig(channelIDs))), nil
}

func doGet(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestVersion(t *testing.T) {
	srv := New(&fakeSchedule{}, zerolog.Nop())

	rec := doGet(t, srv, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, `{"version":1.0}`, rec.Body.String())
}

func TestChannelsPassesFilterThrough(t *testing.T) {
	fs := &fakeSchedule{}
	srv := New(fs, zerolog.Nop())

	rec := doGet(t, srv, "/channels?group_id=3")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = doGet(t, srv, "/channels")
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, []string{"3", "all"}, fs.channelCalls)
}

func TestProgramsRawChannelIDs(t *testing.T) {
	fs := &fakeSchedule{}
	srv := New(fs, zerolog.Nop())

	// The value is handed over verbatim, never parsed.
	doGet(t, srv, "/programs?channel_ids=3,7")
	doGet(t, srv, "/programs")

	require.Equal(t, []string{"3,7", "all"}, fs.programCalls)
}

func TestRepeatedRequestsSameBody(t *testing.T) {
	fs := &fakeSchedule{}
	srv := New(fs, zerolog.Nop())

	first := doGet(t, srv, "/channels")
	second := doGet(t, srv, "/channels")

	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
}

func TestUpstreamErrorIsJSON502(t *testing.T) {
	fs := &fakeSchedule{err: errors.New("upstream down")}
	srv := New(fs, zerolog.Nop())

	for _, target := range []string{"/channels", "/programs"} {
		rec := doGet(t, srv, target)
		assert.Equal(t, http.StatusBadGateway, rec.Code, target)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"), target)
		assert.JSONEq(t, `{"error":"upstream down"}`, rec.Body.String(), target)
	}
}

func TestGracefulShutdown(t *testing.T) {
	srv := New(&fakeSchedule{}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.ListenAndServe(ctx, "127.0.0.1:0")
	}()

	cancel()
	require.NoError(t, <-done)
}
