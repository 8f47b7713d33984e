package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/internal/post"
	"github.com/quillhq/quill/internal/post/repository"
	"github.com/quillhq/quill/internal/post/service"
)

func newTestRouter() (*gin.Engine, service.Service) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	svc := service.New(repository.NewMemoryRepo())
	RegisterPostRoutes(g, svc)
	return g, svc
}

func doJSON(g *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func TestListEmptyStoreReturnsEmptyArray(t *testing.T) {
	g, _ := newTestRouter()
	w := doJSON(g, http.MethodGet, "/posts", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"posts":[]}`, w.Body.String())
}

func TestCreateRoundTripThroughList(t *testing.T) {
	g, _ := newTestRouter()

	w := doJSON(g, http.MethodPost, "/posts",
		`{"title":"T","author":{"firstName":"A","lastName":"B"},"content":"C"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Author  string `json:"author"`
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "A B", created.Author)

	w = doJSON(g, http.MethodGet, "/posts", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Posts []struct {
			ID      string `json:"id"`
			Title   string `json:"title"`
			Author  string `json:"author"`
			Content string `json:"content"`
		} `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Posts, 1)
	assert.Equal(t, created.ID, list.Posts[0].ID)
	assert.Equal(t, "T", list.Posts[0].Title)
	assert.Equal(t, "A B", list.Posts[0].Author)
	assert.Equal(t, "C", list.Posts[0].Content)
}

func TestCreateKeepsStructuredAuthorInStore(t *testing.T) {
	g, svc := newTestRouter()

	w := doJSON(g, http.MethodPost, "/posts",
		`{"title":"T","author":{"firstName":"A","lastName":"B"},"content":"C"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	stored, found, err := svc.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "A", stored.Author.FirstName)
	assert.Equal(t, "B", stored.Author.LastName)
}

func TestCreateMissingFieldReturns400(t *testing.T) {
	g, svc := newTestRouter()

	cases := map[string]string{
		"missing title":     `{"author":{"firstName":"A","lastName":"B"},"content":"C"}`,
		"missing firstName": `{"title":"T","author":{"lastName":"B"},"content":"C"}`,
		"missing lastName":  `{"title":"T","author":{"firstName":"A"},"content":"C"}`,
		"missing content":   `{"title":"T","author":{"firstName":"A","lastName":"B"}}`,
		"missing author":    `{"title":"T","content":"C"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := doJSON(g, http.MethodPost, "/posts", body)
			require.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	all, err := svc.FindAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, all, "rejected creates must not be stored")
}

func TestCreateMalformedJSONReturns400(t *testing.T) {
	g, _ := newTestRouter()
	w := doJSON(g, http.MethodPost, "/posts", `{"title":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetByID(t *testing.T) {
	g, svc := newTestRouter()

	inserted, err := svc.InsertMany(context.Background(), []post.Draft{{
		Title:   "T",
		Author:  post.Author{FirstName: "A", LastName: "B"},
		Content: "C",
	}})
	require.NoError(t, err)
	id := inserted[0].ID

	w := doJSON(g, http.MethodGet, "/posts/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		ID     string `json:"id"`
		Author string `json:"author"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "A B", got.Author)

	w = doJSON(g, http.MethodGet, "/posts/"+post.NewID(), "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdatePartialChangesOnlyGivenFields(t *testing.T) {
	g, svc := newTestRouter()

	inserted, err := svc.InsertMany(context.Background(), []post.Draft{{
		Title:   "Before",
		Author:  post.Author{FirstName: "A", LastName: "B"},
		Content: "old",
	}})
	require.NoError(t, err)
	id := inserted[0].ID

	w := doJSON(g, http.MethodPut, "/posts/"+id, `{"content":"new"}`)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Empty(t, w.Body.String())

	stored, found, err := svc.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "new", stored.Content)
	assert.Equal(t, "Before", stored.Title)
	assert.Equal(t, post.Author{FirstName: "A", LastName: "B"}, stored.Author)
	assert.Equal(t, inserted[0].Created, stored.Created)
}

func TestUpdateAcceptsMatchingPayloadID(t *testing.T) {
	g, svc := newTestRouter()

	inserted, err := svc.InsertMany(context.Background(), []post.Draft{{
		Title:   "T",
		Author:  post.Author{FirstName: "A", LastName: "B"},
		Content: "C",
	}})
	require.NoError(t, err)
	id := inserted[0].ID

	w := doJSON(g, http.MethodPut, "/posts/"+id,
		fmt.Sprintf(`{"id":%q,"title":"T2"}`, id))
	require.Equal(t, http.StatusNoContent, w.Code)

	stored, _, err := svc.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "T2", stored.Title)
}

func TestUpdateIDMismatchReturns400(t *testing.T) {
	g, svc := newTestRouter()

	inserted, err := svc.InsertMany(context.Background(), []post.Draft{{
		Title:   "T",
		Author:  post.Author{FirstName: "A", LastName: "B"},
		Content: "C",
	}})
	require.NoError(t, err)
	id := inserted[0].ID

	w := doJSON(g, http.MethodPut, "/posts/"+id,
		fmt.Sprintf(`{"id":%q,"title":"T2"}`, post.NewID()))
	require.Equal(t, http.StatusBadRequest, w.Code)

	stored, _, err := svc.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "T", stored.Title, "rejected update must not change the post")
}

func TestUpdateUnknownIDReturns404(t *testing.T) {
	g, svc := newTestRouter()

	_, err := svc.InsertMany(context.Background(), []post.Draft{{
		Title:   "T",
		Author:  post.Author{FirstName: "A", LastName: "B"},
		Content: "C",
	}})
	require.NoError(t, err)

	w := doJSON(g, http.MethodPut, "/posts/"+post.NewID(), `{"content":"new"}`)
	require.Equal(t, http.StatusNotFound, w.Code)

	all, err := svc.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1, "failed update must not change the store")
}

func TestUpdateEmptyFieldReturns400(t *testing.T) {
	g, svc := newTestRouter()

	inserted, err := svc.InsertMany(context.Background(), []post.Draft{{
		Title:   "T",
		Author:  post.Author{FirstName: "A", LastName: "B"},
		Content: "C",
	}})
	require.NoError(t, err)

	w := doJSON(g, http.MethodPut, "/posts/"+inserted[0].ID, `{"title":""}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteIsIdempotent(t *testing.T) {
	g, svc := newTestRouter()

	inserted, err := svc.InsertMany(context.Background(), []post.Draft{{
		Title:   "T",
		Author:  post.Author{FirstName: "A", LastName: "B"},
		Content: "C",
	}})
	require.NoError(t, err)
	id := inserted[0].ID

	w := doJSON(g, http.MethodDelete, "/posts/"+id, "")
	require.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(g, http.MethodDelete, "/posts/"+id, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	all, err := svc.FindAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestListEntriesCarryAllWireKeys(t *testing.T) {
	g, svc := newTestRouter()

	drafts := make([]post.Draft, 10)
	for i := range drafts {
		drafts[i] = post.Draft{
			Title:   fmt.Sprintf("post %d", i),
			Author:  post.Author{FirstName: "A", LastName: "B"},
			Content: "C",
		}
	}
	_, err := svc.InsertMany(context.Background(), drafts)
	require.NoError(t, err)

	w := doJSON(g, http.MethodGet, "/posts", "")
	require.Equal(t, http.StatusOK, w.Code)

	var raw struct {
		Posts []map[string]any `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	require.Len(t, raw.Posts, 10)
	for _, entry := range raw.Posts {
		for _, key := range []string{"id", "created", "author", "content", "title"} {
			assert.Contains(t, entry, key)
		}
	}
}

// brokenService fails every operation, standing in for a storage outage.
type brokenService struct{ err error }

func (s brokenService) InsertMany(context.Context, []post.Draft) ([]post.Post, error) {
	return nil, s.err
}
func (s brokenService) FindAll(context.Context) ([]post.Post, error) { return nil, s.err }
func (s brokenService) FindByID(context.Context, string) (post.Post, bool, error) {
	return post.Post{}, false, s.err
}
func (s brokenService) UpdateByID(context.Context, string, post.Patch) (post.Post, error) {
	return post.Post{}, s.err
}
func (s brokenService) DeleteByID(context.Context, string) (bool, error) { return false, s.err }
func (s brokenService) Clear(context.Context) error                      { return s.err }

func TestStorageFailureMapsTo500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	RegisterPostRoutes(g, brokenService{err: errors.New("connection reset")})

	w := doJSON(g, http.MethodGet, "/posts", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")

	w = doJSON(g, http.MethodPost, "/posts",
		`{"title":"T","author":{"firstName":"A","lastName":"B"},"content":"C"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDocsEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	RegisterDocs(g)

	w := doJSON(g, http.MethodGet, "/docs/index.html", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "swagger-ui")

	w = doJSON(g, http.MethodGet, "/docs/openapi.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Contains(t, doc, "paths")
}
