// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Handlers run against the in-memory store; the page cache test needs
// Valkey and is skipped when it is unavailable.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"newsdesk/internal/middleware"
	"newsdesk/internal/models"
	"newsdesk/internal/repository"
	"newsdesk/internal/session"
	"newsdesk/internal/store/memstore"
)

const (
	testEmail    = "redactie@newsdesk.local"
	testPassword = "correct horse battery"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "page:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

// memCache is an in-process ResponseCache and Invalidator.
type memCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	builds      int
	invalidated int
}

func newMemCache() *memCache { return &memCache{entries: map[string][]byte{}} }

func (c *memCache) Fetch(_ context.Context, key string, build func() ([]byte, error)) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if body, ok := c.entries[key]; ok {
		return body, nil
	}
	c.builds++
	body, err := build()
	if err != nil {
		return nil, err
	}
	c.entries[key] = body
	return body, nil
}

func (c *memCache) InvalidateAll(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string][]byte{}
	c.invalidated++
}

// fakeSessions records sessions instead of storing them in Valkey.
type fakeSessions struct {
	created   []*session.Data
	destroyed int
	err       error
}

func (f *fakeSessions) Create(_ context.Context, w http.ResponseWriter, data *session.Data) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.created = append(f.created, data)
	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "test-session"})
	return "test-session", nil
}

func (f *fakeSessions) Destroy(context.Context, http.ResponseWriter, *http.Request) error {
	f.destroyed++
	return f.err
}

// fakeObjects is an in-memory ObjectStore.
type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	deleted []string
	fail    bool
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

const objectsBase = "https://cdn.newsdesk.test/"

func (f *fakeObjects) Upload(_ context.Context, key, contentType string, body io.Reader, _ int64) (string, error) {
	if f.fail {
		return "", errors.New("bucket unavailable")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	f.types[key] = contentType
	return objectsBase + key, nil
}

func (f *fakeObjects) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeObjects) ExtractKey(rawURL string) (string, bool) {
	if len(rawURL) > len(objectsBase) && rawURL[:len(objectsBase)] == objectsBase {
		return rawURL[len(objectsBase):], true
	}
	return "", false
}

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	DB         *memstore.DB
	Cache      *memCache
	Sessions   *fakeSessions
	Objects    *fakeObjects
	Categories *repository.Categories
	Tags       *repository.Tags
	Articles   *repository.Articles
	Author     *models.User
	Admin      *Admin
	Auth       *Auth
	Public     *Public
}

// newTestEnv creates a complete test environment with one admin account.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := memstore.New()
	author, err := db.Users().Create(context.Background(), testEmail, testPassword, "Ana Redactor", true)
	if err != nil {
		t.Fatalf("create author: %v", err)
	}

	env := &testEnv{
		DB:         db,
		Cache:      newMemCache(),
		Sessions:   &fakeSessions{},
		Objects:    newFakeObjects(),
		Categories: repository.NewCategories(db.Categories()),
		Tags:       repository.NewTags(db.Tags()),
		Articles:   repository.NewArticles(db.Articles(), db.Users()),
		Author:     author,
	}
	env.Admin = NewAdmin(env.Categories, env.Tags, env.Articles, env.Cache, env.Objects)
	env.Auth = NewAuth(env.Sessions, db.Users())
	env.Public = NewPublic(env.Categories, env.Tags, env.Articles, env.Cache)
	return env
}

// session returns the session of the test author.
func (e *testEnv) session() *session.Data {
	return &session.Data{UserID: e.Author.ID, Email: e.Author.Email, FullName: e.Author.FullName, IsAdmin: true}
}

// jsonRequest builds a request with a JSON body (nil for none).
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var r io.Reader = http.NoBody
	if body != nil {
		switch b := body.(type) {
		case string:
			r = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			if err != nil {
				t.Fatal(err)
			}
			r = bytes.NewReader(data)
		}
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withSession attaches session data the way LoadSession does.
func withSession(r *http.Request, sess *session.Data) *http.Request {
	return r.WithContext(middleware.WithSession(r.Context(), sess))
}

// decode unmarshals a recorder body into v.
func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
}

// errorBody returns the "error" field of a JSON error response.
func errorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	decode(t, rr, &body)
	msg, _ := body["error"].(string)
	return msg
}
