package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/fsbackup/internal/client/models"
	"github.com/dmitrijs2005/fsbackup/internal/common"
	"github.com/dmitrijs2005/fsbackup/internal/logging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCred = models.Credential{Name: "key.json", Data: []byte(`{"project_id":"p"}`)}

// captured is what the fake backup service saw on its last request.
type captured struct {
	path        string
	keyName     string
	keyData     []byte
	collections string
	hasColl     bool
	requestID   string
}

func newService(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*HTTPClient, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusTeapot)
			return
		}

		got.path = r.URL.Path
		got.requestID = r.Header.Get(common.RequestIDHeaderName)
		f, hdr, err := r.FormFile(common.FieldServiceAccountKey)
		if err == nil {
			got.keyName = hdr.Filename
			got.keyData, _ = io.ReadAll(f)
			f.Close()
		}
		if v, ok := r.MultipartForm.Value[common.FieldCollections]; ok {
			got.hasColl = true
			got.collections = v[0]
		}

		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return NewHTTPClient(srv.URL+"/", srv.Client(), logging.Discard()), got
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListCollections_Success(t *testing.T) {
	c, got := newService(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"collections": []string{"users", "orders", "users"}})
	})

	names, err := c.ListCollections(context.Background(), testCred)
	require.NoError(t, err)

	assert.Equal(t, []string{"users", "orders", "users"}, names, "order kept, duplicates kept")
	assert.Equal(t, common.ListCollectionsPath, got.path)
	assert.Equal(t, "key.json", got.keyName)
	assert.Equal(t, testCred.Data, got.keyData)
	assert.False(t, got.hasColl)
	_, err = uuid.Parse(got.requestID)
	assert.NoError(t, err, "request id must be a uuid")
}

func TestListCollections_EmptyList(t *testing.T) {
	c, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"collections": []string{}})
	})

	names, err := c.ListCollections(context.Background(), testCred)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestListCollections_Failures(t *testing.T) {
	tests := []struct {
		name      string
		handler   func(w http.ResponseWriter, r *http.Request)
		wantIs    error
		wantMsg   string
		wantState int
	}{
		{
			name: "remote error with message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "invalid key"})
			},
			wantMsg:   "invalid key",
			wantState: http.StatusInternalServerError,
		},
		{
			name: "remote error without message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusBadRequest, map[string]string{})
			},
			wantState: http.StatusBadRequest,
		},
		{
			name: "remote error with non-json body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte("<html>bad gateway</html>"))
			},
			wantState: http.StatusBadGateway,
		},
		{
			name: "missing collections",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]any{"items": []string{"a"}})
			},
			wantIs: ErrMalformedResponse,
		},
		{
			name: "null collections",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]any{"collections": nil})
			},
			wantIs: ErrMalformedResponse,
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("{nope"))
			},
			wantIs: ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newService(t, tt.handler)

			_, err := c.ListCollections(context.Background(), testCred)
			require.Error(t, err)

			if tt.wantIs != nil {
				require.ErrorIs(t, err, tt.wantIs)
				return
			}

			var re *RemoteError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.wantState, re.Status)
			assert.Equal(t, tt.wantMsg, re.Message)

			msg, ok := RemoteMessage(err)
			assert.Equal(t, tt.wantMsg != "", ok)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestListCollections_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewHTTPClient(url, nil, logging.Discard())
	_, err := c.ListCollections(context.Background(), testCred)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestGenerateBackup_Success(t *testing.T) {
	c, got := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="dump.json"`)
		_, _ = w.Write([]byte(`{"users":{}}`))
	})

	art, err := c.GenerateBackup(context.Background(), testCred, []string{"users", "orders"})
	require.NoError(t, err)
	defer art.Body.Close()

	body, err := io.ReadAll(art.Body)
	require.NoError(t, err)

	assert.Equal(t, `{"users":{}}`, string(body))
	assert.Equal(t, `attachment; filename="dump.json"`, art.Disposition)
	assert.Equal(t, "application/json", art.ContentType)
	assert.Equal(t, common.GenerateBackupPath, got.path)
	assert.Equal(t, "users,orders", got.collections)
	assert.Equal(t, testCred.Data, got.keyData)
}

func TestGenerateBackup_RemoteError(t *testing.T) {
	c, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "quota exceeded"})
	})

	art, err := c.GenerateBackup(context.Background(), testCred, []string{"users"})
	require.Nil(t, art)

	var re *RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "quota exceeded", re.Error())
}

func TestRemoteError_GenericMessage(t *testing.T) {
	err := &RemoteError{Status: http.StatusInternalServerError}
	assert.Equal(t, "backup service returned 500 Internal Server Error", err.Error())

	_, ok := RemoteMessage(err)
	assert.False(t, ok)
	_, ok = RemoteMessage(errors.New("plain"))
	assert.False(t, ok)
}

func TestClose(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1", nil, logging.Discard())
	assert.NoError(t, c.Close())
}
