// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuchat/docuchat-tui/internal/model"
)

func TestAskSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/ask", r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "Hello", r.PostForm.Get("question"))
		w.Write([]byte(`{"response":"Hi there"}`))
	}))
	defer srv.Close()

	c := NewClient().WithBaseURL(srv.URL)
	resp, err := c.Ask(context.Background(), "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi there", resp)
}

func TestAskStructuredError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"model unavailable"}`))
	}))
	defer srv.Close()

	c := NewClient().WithBaseURL(srv.URL)
	_, err := c.Ask(context.Background(), "Hello")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "model unavailable", apiErr.Message)
}

func TestAskPlainTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	c := NewClient().WithBaseURL(srv.URL)
	_, err := c.Ask(context.Background(), "Hello")
	require.Error(t, err)
	assert.Equal(t, "upstream down", err.Error())
}

func TestAskMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient().WithBaseURL(srv.URL)
	_, err := c.Ask(context.Background(), "Hello")
	require.ErrorIs(t, err, ErrInvalidJSON)
}

func TestUploadFilePDFPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/upload_file", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "report.pdf", header.Filename)
		w.Write([]byte(`{"session_id":"sess-42"}`))
	}))
	defer srv.Close()

	c := NewClient().WithBaseURL(srv.URL)
	result, err := c.UploadFile(context.Background(), "report.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "sess-42", result.SessionID)
	assert.Nil(t, result.Analysis)
}

func TestUploadFileImagePath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"analysis":{"detected_language":"mn","extracted_text":"text"}}`))
	}))
	defer srv.Close()

	c := NewClient().WithBaseURL(srv.URL)
	result, err := c.UploadFile(context.Background(), "chart.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Empty(t, result.SessionID)
	require.NotNil(t, result.Analysis)
	assert.Equal(t, "mn", result.Analysis.DetectedLanguage)
}

func TestCheckProgress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/progress/sess-42", r.URL.Path)
		w.Write([]byte(`{"progress":45.0}`))
	}))
	defer srv.Close()

	c := NewClient().WithBaseURL(srv.URL)
	p, err := c.CheckProgress(context.Background(), "sess-42")
	require.NoError(t, err)
	assert.Equal(t, 45, p.Progress)
	assert.Empty(t, p.Error)
}

func TestFetchChatHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/fetch_chat_history", r.URL.Path)
		w.Write([]byte(`{"chat_history":[{"question":"Q1","answer":"A1"},{"question":"Q2","answer":"A2"}]}`))
	}))
	defer srv.Close()

	c := NewClient().WithBaseURL(srv.URL)
	history, err := c.FetchChatHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Q1", history[0].Question)
	assert.Equal(t, "A2", history[1].Answer)
}

func TestEmbedAnalysis(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/embed_analysis", r.URL.Path)
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		got = string(buf)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient().WithBaseURL(srv.URL)
	draft := &model.AnalysisDraft{DetectedLanguage: "en", Explanation: "a chart"}
	err := c.EmbedAnalysis(context.Background(), "chart.png", draft)
	require.NoError(t, err)
	assert.Contains(t, got, `"filename":"chart.png"`)
	assert.Contains(t, got, `"detected_language":"en"`)
}

func TestLoginCapturesSessionCookie(t *testing.T) {
	sessionFile := filepath.Join(t.TempDir(), "session")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/login2", r.URL.Path)
		http.SetCookie(w, &http.Cookie{Name: SessionCookieName, Value: "opaque-token", Path: "/"})
		w.Write([]byte(`{"usersid":"u7","roleid":"1"}`))
	}))
	defer srv.Close()

	c := NewClient().WithBaseURL(srv.URL).WithSessionFile(sessionFile)
	result, err := c.Login(context.Background(), "user@gmail.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u7", result.UsersID)
	assert.Equal(t, "1", result.RoleID)
	assert.Equal(t, "opaque-token", c.SessionToken())
}

func TestLoginFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid credentials"}`))
	}))
	defer srv.Close()

	c := NewClient().WithBaseURL(srv.URL)
	_, err := c.Login(context.Background(), "user@gmail.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
}

func TestCheckAuthForwardsCookie(t *testing.T) {
	var gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			gotCookie = cookie.Value
		}
		w.Write([]byte(`{"status":"authenticated","roleid":"2"}`))
	}))
	defer srv.Close()

	c := NewClient().WithBaseURL(srv.URL).WithVerifyURL(srv.URL + "/check_auth")
	c.setSessionCookie("tok-123")

	status, err := c.CheckAuth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-123", gotCookie)
	assert.Equal(t, "authenticated", status.Status)
	assert.Equal(t, "2", status.RoleID)
}

func TestSessionPersistenceRoundTrip(t *testing.T) {
	sessionFile := filepath.Join(t.TempDir(), "session")

	c := NewClient().WithBaseURL("http://localhost:9").WithSessionFile(sessionFile)
	c.setSessionCookie("persisted-token")
	require.NoError(t, c.SaveSession())

	c2 := NewClient().WithBaseURL("http://localhost:9").WithSessionFile(sessionFile)
	require.NoError(t, c2.LoadSession())
	assert.Equal(t, "persisted-token", c2.SessionToken())
}
