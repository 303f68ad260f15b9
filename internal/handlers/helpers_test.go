package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"skinsense-backend/internal/models"
	"skinsense-backend/internal/repository"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) repository.FeedbackStore {
	t.Helper()

	store, _, err := repository.Open(context.Background(), filepath.Join(t.TempDir(), "feedback.db"))
	require.NoError(t, err)
	require.NoError(t, store.Init(context.Background()))
	t.Cleanup(func() { store.Close(context.Background()) })
	return store
}

func seed(t *testing.T, store repository.FeedbackStore, rows ...models.Feedback) {
	t.Helper()
	for i := range rows {
		require.NoError(t, store.Create(context.Background(), &rows[i]))
	}
}

func jsonRequest(method, path, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(v))
}

var errStoreDown = errors.New("database is locked")

// brokenStore fails every operation.
type brokenStore struct{}

func (brokenStore) Init(context.Context) error                    { return errStoreDown }
func (brokenStore) Create(context.Context, *models.Feedback) error { return errStoreDown }
func (brokenStore) List(context.Context) ([]models.Feedback, error) {
	return nil, errStoreDown
}
func (brokenStore) ListNewestFirst(context.Context) ([]models.Feedback, error) {
	return nil, errStoreDown
}
func (brokenStore) Count(context.Context) (int64, error) { return 0, errStoreDown }
func (brokenStore) Close(context.Context) error          { return nil }

// chanNotifier records published messages.
type chanNotifier struct {
	messages chan string
}

func newChanNotifier() *chanNotifier {
	return &chanNotifier{messages: make(chan string, 8)}
}

func (n *chanNotifier) Publish(_ context.Context, message string) error {
	n.messages <- message
	return nil
}
