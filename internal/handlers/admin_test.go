package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"newsdesk/internal/models"
	"newsdesk/internal/repository"
	"newsdesk/internal/taxonomy"
)

func TestCreateCategory(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{"valid", `{"name":"Política Nacional","description":"Congreso y gobierno"}`, http.StatusCreated},
		{"duplicate slug", `{"name":"politica nacional"}`, http.StatusConflict},
		{"blank name", `{"name":"   "}`, http.StatusBadRequest},
		{"no letters", `{"name":"!!!"}`, http.StatusBadRequest},
		{"unknown field", `{"name":"Deportes","color":"red"}`, http.StatusBadRequest},
		{"malformed", `{"name":`, http.StatusBadRequest},
		{"empty body", nil, http.StatusBadRequest},
		{"unknown parent", map[string]any{"name": "Fútbol", "parent_id": uuid.New()}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			env.Admin.CreateCategory(rr, jsonRequest(t, http.MethodPost, "/admin/api/categories", tt.body))
			if rr.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d (%s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if rr.Code >= 400 && errorBody(t, rr) == "" {
				t.Error("expected an error message")
			}
		})
	}

	cats, _ := env.Categories.List(context.Background())
	if len(cats) != 1 || cats[0].Slug != "politica-nacional" {
		t.Fatalf("categories = %+v", cats)
	}
	if env.Cache.invalidated != 1 {
		t.Errorf("cache invalidated %d times, want 1", env.Cache.invalidated)
	}
}

func TestUpdateCategoryCycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	world, _ := env.Categories.Create(ctx, repository.CategoryInput{Name: "Mundo"})
	latam, _ := env.Categories.Create(ctx, repository.CategoryInput{Name: "Latinoamérica", ParentID: &world.ID})

	t.Run("parent under own child", func(t *testing.T) {
		req := withChiURLParam(jsonRequest(t, http.MethodPut, "/", map[string]any{"name": "Mundo", "parent_id": latam.ID}), "id", world.ID.String())
		rr := httptest.NewRecorder()
		env.Admin.UpdateCategory(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status: got %d, want 400 (%s)", rr.Code, rr.Body.String())
		}
		if got := errorBody(t, rr); got != taxonomy.MsgCycle {
			t.Errorf("error: got %q, want %q", got, taxonomy.MsgCycle)
		}
	})

	t.Run("rename", func(t *testing.T) {
		req := withChiURLParam(jsonRequest(t, http.MethodPut, "/", map[string]any{"name": "América Latina", "parent_id": world.ID}), "id", latam.ID.String())
		rr := httptest.NewRecorder()
		env.Admin.UpdateCategory(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d (%s)", rr.Code, rr.Body.String())
		}
		var got models.Category
		decode(t, rr, &got)
		if got.Slug != "america-latina" {
			t.Errorf("slug: got %q", got.Slug)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		req := withChiURLParam(jsonRequest(t, http.MethodPut, "/", `{"name":"X"}`), "id", "not-a-uuid")
		rr := httptest.NewRecorder()
		env.Admin.UpdateCategory(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rr.Code)
		}
	})
}

func TestDeleteCategoryWithChildren(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	parent, _ := env.Categories.Create(ctx, repository.CategoryInput{Name: "Economía"})
	child, _ := env.Categories.Create(ctx, repository.CategoryInput{Name: "Mercados", ParentID: &parent.ID})

	rr := httptest.NewRecorder()
	env.Admin.DeleteCategory(rr, withChiURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "id", parent.ID.String()))
	if rr.Code != http.StatusConflict {
		t.Fatalf("delete parent: got %d, want 409", rr.Code)
	}
	if !strings.Contains(errorBody(t, rr), "subcategories") {
		t.Errorf("unexpected message: %q", rr.Body.String())
	}

	for _, id := range []uuid.UUID{child.ID, parent.ID} {
		rr := httptest.NewRecorder()
		env.Admin.DeleteCategory(rr, withChiURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "id", id.String()))
		if rr.Code != http.StatusNoContent {
			t.Fatalf("delete %s: got %d", id, rr.Code)
		}
	}

	rr = httptest.NewRecorder()
	env.Admin.DeleteCategory(rr, withChiURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "id", parent.ID.String()))
	if rr.Code != http.StatusNotFound {
		t.Errorf("delete again: got %d, want 404", rr.Code)
	}
}

func TestCategoryTreeAndParents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	world, _ := env.Categories.Create(ctx, repository.CategoryInput{Name: "Mundo"})
	europe, _ := env.Categories.Create(ctx, repository.CategoryInput{Name: "Europa", ParentID: &world.ID})
	env.Categories.Create(ctx, repository.CategoryInput{Name: "Cultura"})

	rr := httptest.NewRecorder()
	env.Admin.CategoryTree(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	var tree []taxonomy.Node
	decode(t, rr, &tree)
	if len(tree) != 2 {
		t.Fatalf("roots: got %d, want 2", len(tree))
	}

	rr = httptest.NewRecorder()
	env.Admin.CategoryParents(rr, withChiURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", world.ID.String()))
	var opts []taxonomy.Node
	decode(t, rr, &opts)
	for _, o := range opts {
		if o.ID == world.ID || o.ID == europe.ID {
			t.Errorf("parent options must exclude the category and its descendants, got %s", o.Name)
		}
	}
	if len(opts) != 1 {
		t.Errorf("options: got %d, want 1", len(opts))
	}

	rr = httptest.NewRecorder()
	env.Admin.CategoryParents(rr, withChiURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", uuid.NewString()))
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown id: got %d, want 404", rr.Code)
	}
}

func TestTagHandlers(t *testing.T) {
	env := newTestEnv(t)

	rr := httptest.NewRecorder()
	env.Admin.CreateTag(rr, jsonRequest(t, http.MethodPost, "/", `{"name":"Elecciones 2026"}`))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: got %d (%s)", rr.Code, rr.Body.String())
	}
	var tag models.Tag
	decode(t, rr, &tag)
	if tag.Slug != "elecciones-2026" {
		t.Errorf("slug: got %q", tag.Slug)
	}

	rr = httptest.NewRecorder()
	env.Admin.CreateTag(rr, jsonRequest(t, http.MethodPost, "/", `{"name":"ELECCIONES 2026"}`))
	if rr.Code != http.StatusConflict {
		t.Errorf("duplicate: got %d, want 409", rr.Code)
	}

	rr = httptest.NewRecorder()
	env.Admin.CreateTagsBatch(rr, jsonRequest(t, http.MethodPost, "/", `{"names":["Congreso","Elecciones 2026","  "]}`))
	if rr.Code != http.StatusCreated {
		t.Fatalf("batch: got %d (%s)", rr.Code, rr.Body.String())
	}
	var batch repository.BatchResult
	decode(t, rr, &batch)
	if len(batch.Created) != 1 || len(batch.Errors) != 2 {
		t.Errorf("batch: created %d, errors %v", len(batch.Created), batch.Errors)
	}

	rr = httptest.NewRecorder()
	env.Admin.CreateTagsBatch(rr, jsonRequest(t, http.MethodPost, "/", `{"names":[]}`))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("empty batch: got %d, want 400", rr.Code)
	}

	rr = httptest.NewRecorder()
	env.Admin.UpdateTag(rr, withChiURLParam(jsonRequest(t, http.MethodPut, "/", `{"name":"Elecciones"}`), "id", tag.ID.String()))
	if rr.Code != http.StatusOK {
		t.Fatalf("update: got %d (%s)", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	env.Admin.ListTags(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	var tags []models.Tag
	decode(t, rr, &tags)
	if len(tags) != 2 || tags[0].Name != "Congreso" || tags[1].Name != "Elecciones" {
		t.Errorf("tags = %+v", tags)
	}

	rr = httptest.NewRecorder()
	env.Admin.DeleteTag(rr, withChiURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "id", tag.ID.String()))
	if rr.Code != http.StatusNoContent {
		t.Errorf("delete: got %d", rr.Code)
	}

	// create, batch, update, delete
	if env.Cache.invalidated != 4 {
		t.Errorf("cache invalidated %d times, want 4", env.Cache.invalidated)
	}
}

func TestArticleLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cat, _ := env.Categories.Create(ctx, repository.CategoryInput{Name: "Entrevistas"})
	t1, _ := env.Tags.Create(ctx, "Cine")
	t2, _ := env.Tags.Create(ctx, "Teatro")

	body := map[string]any{
		"title":            "Conversación con una directora",
		"content":          "<p>Hola</p><script>alert(1)</script>",
		"category_id":      cat.ID,
		"interviewee_name": "Lucía Méndez",
		"interview_date":   "2026-09-30",
		"tags":             []uuid.UUID{t1.ID, t2.ID, t1.ID},
	}

	t.Run("requires session", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.Admin.CreateArticle(rr, jsonRequest(t, http.MethodPost, "/", body))
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("got %d, want 401", rr.Code)
		}
	})

	rr := httptest.NewRecorder()
	env.Admin.CreateArticle(rr, withSession(jsonRequest(t, http.MethodPost, "/", body), env.session()))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: got %d (%s)", rr.Code, rr.Body.String())
	}
	var art models.Article
	decode(t, rr, &art)
	if art.Slug != "conversacion-con-una-directora" {
		t.Errorf("slug: got %q", art.Slug)
	}
	if strings.Contains(art.Content, "script") {
		t.Errorf("content not sanitized: %q", art.Content)
	}
	if len(art.Tags) != 2 {
		t.Errorf("tags: got %d, want 2", len(art.Tags))
	}
	if art.IsPublished || art.PublishedAt != nil {
		t.Error("new article should be a draft")
	}
	if art.AuthorID == nil || *art.AuthorID != env.Author.ID {
		t.Errorf("author: got %v", art.AuthorID)
	}
	id := art.ID.String()

	t.Run("publish keeps tags when omitted", func(t *testing.T) {
		update := map[string]any{"title": art.Title, "content": "<p>Hola</p>", "category_id": cat.ID, "is_published": true}
		rr := httptest.NewRecorder()
		env.Admin.UpdateArticle(rr, withChiURLParam(jsonRequest(t, http.MethodPut, "/", update), "id", id))
		if rr.Code != http.StatusOK {
			t.Fatalf("update: got %d (%s)", rr.Code, rr.Body.String())
		}
		var got models.Article
		decode(t, rr, &got)
		if got.PublishedAt == nil {
			t.Error("published_at should be stamped")
		}
		if len(got.Tags) != 2 {
			t.Errorf("tags: got %d, want 2", len(got.Tags))
		}
	})

	t.Run("sync tags", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := withChiURLParam(jsonRequest(t, http.MethodPut, "/", map[string]any{"tags": []uuid.UUID{t2.ID, uuid.New()}}), "id", id)
		env.Admin.SyncArticleTags(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("sync: got %d (%s)", rr.Code, rr.Body.String())
		}
		var got models.Article
		decode(t, rr, &got)
		if len(got.Tags) != 1 || got.Tags[0].ID != t2.ID {
			t.Errorf("tags = %+v", got.Tags)
		}
	})

	t.Run("invalid image position", func(t *testing.T) {
		update := map[string]any{"title": art.Title, "featured_image_position": "diagonal"}
		rr := httptest.NewRecorder()
		env.Admin.UpdateArticle(rr, withChiURLParam(jsonRequest(t, http.MethodPut, "/", update), "id", id))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("got %d, want 400", rr.Code)
		}
	})

	t.Run("list includes drafts", func(t *testing.T) {
		draft := map[string]any{"title": "Borrador"}
		rr := httptest.NewRecorder()
		env.Admin.CreateArticle(rr, withSession(jsonRequest(t, http.MethodPost, "/", draft), env.session()))
		if rr.Code != http.StatusCreated {
			t.Fatalf("create draft: got %d", rr.Code)
		}

		rr = httptest.NewRecorder()
		env.Admin.ListArticles(rr, httptest.NewRequest(http.MethodGet, "/admin/api/articles", nil))
		var page repository.Page
		decode(t, rr, &page)
		if page.Total != 2 {
			t.Errorf("all: got %d, want 2", page.Total)
		}

		rr = httptest.NewRecorder()
		env.Admin.ListArticles(rr, httptest.NewRequest(http.MethodGet, "/admin/api/articles?published=true", nil))
		decode(t, rr, &page)
		if page.Total != 1 {
			t.Errorf("published: got %d, want 1", page.Total)
		}
	})

	t.Run("get", func(t *testing.T) {
		rr := httptest.NewRecorder()
		env.Admin.GetArticle(rr, withChiURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", uuid.NewString()))
		if rr.Code != http.StatusNotFound {
			t.Errorf("unknown: got %d, want 404", rr.Code)
		}
	})
}

func TestDeleteArticleRemovesCover(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cover := objectsBase + "covers/2026/10/portada.jpg"
	env.Objects.objects["covers/2026/10/portada.jpg"] = []byte("jpeg")
	art, err := env.Articles.Create(ctx, repository.ArticleInput{Title: "Con portada", CoverImageURL: &cover}, testEmail)
	if err != nil {
		t.Fatal(err)
	}
	external := "https://images.example.org/foto.jpg"
	other, err := env.Articles.Create(ctx, repository.ArticleInput{Title: "Portada externa", CoverImageURL: &external}, testEmail)
	if err != nil {
		t.Fatal(err)
	}

	for _, a := range []*models.Article{art, other} {
		rr := httptest.NewRecorder()
		env.Admin.DeleteArticle(rr, withChiURLParam(httptest.NewRequest(http.MethodDelete, "/", nil), "id", a.ID.String()))
		if rr.Code != http.StatusNoContent {
			t.Fatalf("delete: got %d (%s)", rr.Code, rr.Body.String())
		}
	}

	if len(env.Objects.deleted) != 1 || env.Objects.deleted[0] != "covers/2026/10/portada.jpg" {
		t.Errorf("deleted objects = %v", env.Objects.deleted)
	}
	if _, err := env.Articles.Get(ctx, art.ID); err == nil {
		t.Error("article should be gone")
	}
}
