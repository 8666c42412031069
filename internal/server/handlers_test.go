package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Heidric/hmacsign/internal/crypto"
	"github.com/Heidric/hmacsign/internal/customerrors"
	"github.com/Heidric/hmacsign/internal/model"
	"github.com/Heidric/hmacsign/internal/services"
)

type mockSigner struct {
	err     error
	lastKey *string
	calls   int
}

func (m *mockSigner) Sign(ctx context.Context, message string) (string, error) {
	m.calls++
	m.lastKey = nil
	if m.err != nil {
		return "", m.err
	}
	return "default:" + message, nil
}

func (m *mockSigner) SignWithKey(ctx context.Context, message, key string) (string, error) {
	m.calls++
	m.lastKey = &key
	if m.err != nil {
		return "", m.err
	}
	return key + ":" + message, nil
}

func serve(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.GetRouter().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) customerrors.CommonError {
	t.Helper()
	var body customerrors.CommonError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestSignJSONHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantDigest string
		wantKey    *string
	}{
		{
			name:       "default key",
			body:       `{"message":"hello"}`,
			wantDigest: "default:hello",
		},
		{
			name:       "explicit key",
			body:       `{"message":"hello","key":"k"}`,
			wantDigest: "k:hello",
			wantKey:    ptr("k"),
		},
		{
			name:       "explicit empty key",
			body:       `{"message":"hello","key":""}`,
			wantDigest: ":hello",
			wantKey:    ptr(""),
		},
		{
			name:       "null key means default",
			body:       `{"message":"","key":null}`,
			wantDigest: "default:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signer := &mockSigner{}
			rec := serve(t, NewServer(":0", "", signer, nil), http.MethodPost, "/sign/json", tt.body)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var resp model.SignResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantDigest, resp.Digest)
			assert.Equal(t, tt.wantKey, signer.lastKey)
		})
	}
}

func TestSignJSONHandler_MalformedBody(t *testing.T) {
	rec := serve(t, NewServer(":0", "", &mockSigner{}, nil), http.MethodPost, "/sign/json", `{"message":`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, customerrors.ErrInvalidBody.Error(), decodeError(t, rec).Details)
}

func TestSignHandler_InvalidUTF8(t *testing.T) {
	srv := NewServer(":0", "", services.NewSignService("k"), nil)
	rec := serve(t, srv, http.MethodPost, "/sign", "caf\xe9")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, http.StatusBadRequest, body.Status)
	assert.Contains(t, body.Details, customerrors.ErrInvalidText.Error())
}

func TestSignJSONHandler_RejectsInvalidText(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"raw invalid byte in message", "{\"message\":\"bad \xff\"}"},
		{"raw invalid byte in key", "{\"message\":\"ok\",\"key\":\"\xc3\x28\"}"},
		{"lone high surrogate", `{"message":"\ud800"}`},
		{"high surrogate followed by text", `{"message":"\ud83dx"}`},
		{"lone low surrogate", `{"message":"a\udc00b"}`},
		{"reversed pair", `{"message":"\ude00\ud83d"}`},
		{"lone surrogate in key", `{"message":"ok","key":"\udfff"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signer := &mockSigner{}
			rec := serve(t, NewServer(":0", "", signer, nil), http.MethodPost, "/sign/json", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeError(t, rec).Details, customerrors.ErrInvalidText.Error())
			assert.Zero(t, signer.calls)
		})
	}
}

func TestSignJSONHandler_KeepsValidEscapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"surrogate pair", `{"message":"\ud83d\ude00"}`, "\U0001F600"},
		{"escaped backslash before u", `{"message":"\\ud800"}`, `\ud800`},
		{"bmp escape", `{"message":"caf\u00e9"}`, "café"},
		{"literal replacement char", `{"message":"\ufffd"}`, "\ufffd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := NewServer(":0", "", services.NewSignService("k"), nil)
			rec := serve(t, srv, http.MethodPost, "/sign/json", tt.body)

			require.Equal(t, http.StatusOK, rec.Code)
			var resp model.SignResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.want, resp.Message)
			assert.Equal(t, crypto.SHA256WithKey(tt.want, "k"), resp.Digest)
		})
	}
}

func TestSignJSONHandler_NonStringMessage(t *testing.T) {
	rec := serve(t, NewServer(":0", "", &mockSigner{}, nil), http.MethodPost, "/sign/json", `{"message":42}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignHandler_TooLarge(t *testing.T) {
	for _, target := range []string{"/sign", "/sign/json"} {
		t.Run(target, func(t *testing.T) {
			srv := NewServer(":0", "", &mockSigner{}, nil)
			rec := serve(t, srv, http.MethodPost, target, strings.Repeat("a", maxBodySize+1))

			require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
			assert.Equal(t, customerrors.ErrBodyTooLarge.Error(), decodeError(t, rec).Details)
		})
	}
}

func TestSignHandler_SignerFailure(t *testing.T) {
	srv := NewServer(":0", "", &mockSigner{err: errors.New("boom")}, nil)
	rec := serve(t, srv, http.MethodPost, "/sign", "hello")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func ptr(s string) *string { return &s }
