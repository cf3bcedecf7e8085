package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"log/slog"

	"github.com/forkful/api/internal/domain"
	"github.com/forkful/api/internal/service/recipe"
	"github.com/forkful/api/internal/service/session"
)

type stubViewer struct {
	doc      *domain.RecipeDocument
	err      error
	gotToken string
}

func (s *stubViewer) View(ctx context.Context, token string) (*domain.RecipeDocument, error) {
	s.gotToken = token
	if s.err != nil {
		return nil, s.err
	}
	return s.doc, nil
}

func testRouter(viewer RecipeViewer) *Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(logger, viewer, NewMemoryRateLimiter(), nil)
}

func recipeRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	}
	return req
}

func TestRecipeViewReturnsDocument(t *testing.T) {
	viewer := &stubViewer{doc: &domain.RecipeDocument{
		ID:          42,
		Name:        "sourdough",
		Tags:        []string{"bread"},
		CreatedAt:   time.Date(2025, time.April, 2, 10, 0, 0, 0, time.UTC),
		Ingredients: []domain.IngredientItem{domain.Ingredient{ID: 1, Position: "1", Name: "flour"}},
		Steps:       []domain.Step{{ID: 2, Position: "1", Text: "mix"}},
		Timeline:    []domain.TimelineEntry{},
	}}
	router := testRouter(viewer)
	defer router.Close()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, recipeRequest("abc"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if viewer.gotToken != "abc" {
		t.Fatalf("expected cookie token to reach the service, got %q", viewer.gotToken)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected a request id header")
	}

	var payload struct {
		ID          int64            `json:"id"`
		Name        string           `json:"name"`
		Ingredients []map[string]any `json:"ingredients"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.ID != 42 || payload.Name != "sourdough" {
		t.Fatalf("unexpected document: %+v", payload)
	}
	if len(payload.Ingredients) != 1 || payload.Ingredients[0]["name"] != "flour" {
		t.Fatalf("unexpected ingredients: %+v", payload.Ingredients)
	}
	if _, ok := payload.Ingredients[0]["recipe_id"]; ok {
		t.Fatalf("internal join key leaked into the response")
	}
}

func TestRecipeViewUnauthenticated(t *testing.T) {
	viewer := &stubViewer{err: session.ErrUnauthenticated}
	router := testRouter(viewer)
	defer router.Close()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, recipeRequest(""))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["error"] != "not authed" {
		t.Fatalf("unexpected error body: %+v", payload)
	}
}

func TestRecipeViewStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"empty scope", recipe.ErrNoRecipeAvailable, http.StatusNotFound},
		{"lost race", recipe.ErrInconsistent, http.StatusInternalServerError},
		{"storage down", errors.New("connection refused"), http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := testRouter(&stubViewer{err: tc.err})
			defer router.Close()

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, recipeRequest("abc"))
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestRecipeViewRejectsNonGet(t *testing.T) {
	router := testRouter(&stubViewer{})
	defer router.Close()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestNewRateLimiterFallsBackToMemory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	rl := NewRateLimiter("", "", 0, logger)
	defer rl.Close()
	if _, ok := rl.(*memoryRateLimiter); !ok {
		t.Fatalf("expected the in-memory limiter without a redis address, got %T", rl)
	}

	rl = NewRateLimiter("127.0.0.1:1", "", 0, logger)
	defer rl.Close()
	if _, ok := rl.(*memoryRateLimiter); !ok {
		t.Fatalf("expected fallback to the in-memory limiter when redis is unreachable, got %T", rl)
	}
}

func TestMemoryRateLimiterWindow(t *testing.T) {
	rl := NewMemoryRateLimiter()
	defer rl.Close()

	for i := 0; i < 3; i++ {
		if decision := rl.Allow("ip:1.2.3.4", 3, time.Minute); !decision.allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if decision := rl.Allow("ip:1.2.3.4", 3, time.Minute); decision.allowed {
		t.Fatalf("fourth request should be limited")
	}
	if decision := rl.Allow("ip:5.6.7.8", 3, time.Minute); !decision.allowed {
		t.Fatalf("other keys must not share the window")
	}
}
