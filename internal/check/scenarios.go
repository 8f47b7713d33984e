package check

import (
	"context"
	"fmt"
	"net/http"

	"github.com/quillhq/quill/internal/post"
	"github.com/quillhq/quill/internal/post/seed"
)

// Scenario is one independently runnable contract check. Scenarios assume a
// live server they do not own: they measure list counts as deltas and delete
// whatever they create, so they hold against non-empty stores too.
type Scenario struct {
	Name string
	Run  func(ctx context.Context, c *Client) error
}

// Suite returns every contract scenario in run order.
func Suite() []Scenario {
	return []Scenario{
		{"create returns the stored post", scenarioCreateReturnsStoredPost},
		{"created post appears in the list", scenarioCreatedPostAppearsInList},
		{"list entries carry all wire keys", scenarioListEntriesCarryAllKeys},
		{"fetch by id round-trips the created post", scenarioFetchByIDRoundTrips},
		{"fetch with unknown id returns 404", scenarioFetchUnknownID},
		{"create with missing field is rejected", scenarioCreateMissingField},
		{"update changes only the given fields", scenarioUpdatePartial},
		{"update with unknown id returns 404", scenarioUpdateUnknownID},
		{"update with mismatched body id is rejected", scenarioUpdateIDMismatch},
		{"delete is idempotent", scenarioDeleteIdempotent},
		{"seeded batch is fully listed", scenarioSeededBatchListed},
	}
}

// RunSuite executes every scenario against the client and reports progress.
func RunSuite(ctx context.Context, client *Client, rep Reporter) Results {
	if rep == nil {
		rep = nullReporter{}
	}
	var results Results
	for _, s := range Suite() {
		rep.ScenarioStarted(s.Name)
		err := s.Run(ctx, client)
		rep.ScenarioFinished(s.Name, err)
		results.record(s.Name, err)
	}
	rep.Summary(results)
	return results
}

func randomCreate() CreateRequest {
	d := seed.RandomDraft()
	return CreateRequest{
		Title:   d.Title,
		Author:  Author{FirstName: d.Author.FirstName, LastName: d.Author.LastName},
		Content: d.Content,
	}
}

func (a Author) full() string {
	return a.FirstName + " " + a.LastName
}

// mustCreate inserts one random post and fails on anything but 201.
func mustCreate(ctx context.Context, c *Client) (Post, CreateRequest, error) {
	req := randomCreate()
	created, status, err := c.Create(ctx, req)
	if err != nil {
		return Post{}, req, err
	}
	if status != http.StatusCreated {
		return Post{}, req, fmt.Errorf("create: expected 201, got %d", status)
	}
	return created, req, nil
}

func countPosts(ctx context.Context, c *Client) (int, error) {
	list, err := c.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

func cleanup(ctx context.Context, c *Client, ids ...string) {
	for _, id := range ids {
		_, _ = c.Delete(ctx, id)
	}
}

func scenarioCreateReturnsStoredPost(ctx context.Context, c *Client) error {
	created, req, err := mustCreate(ctx, c)
	if err != nil {
		return err
	}
	defer cleanup(ctx, c, created.ID)

	if created.ID == "" {
		return fmt.Errorf("created post has no id")
	}
	if created.Created.IsZero() {
		return fmt.Errorf("created post has no created timestamp")
	}
	if created.Title != req.Title {
		return fmt.Errorf("title: sent %q, got back %q", req.Title, created.Title)
	}
	if created.Content != req.Content {
		return fmt.Errorf("content: sent %q, got back %q", req.Content, created.Content)
	}
	if want := req.Author.full(); created.Author != want {
		return fmt.Errorf("author: expected %q, got %q", want, created.Author)
	}
	return nil
}

func scenarioCreatedPostAppearsInList(ctx context.Context, c *Client) error {
	before, err := countPosts(ctx, c)
	if err != nil {
		return err
	}
	created, req, err := mustCreate(ctx, c)
	if err != nil {
		return err
	}
	defer cleanup(ctx, c, created.ID)

	list, err := c.List(ctx)
	if err != nil {
		return err
	}
	if len(list) != before+1 {
		return fmt.Errorf("list count: expected %d, got %d", before+1, len(list))
	}
	for _, p := range list {
		if p.ID != created.ID {
			continue
		}
		if p.Title != req.Title || p.Content != req.Content || p.Author != req.Author.full() {
			return fmt.Errorf("listed post %s does not match what was created: %+v", p.ID, p)
		}
		return nil
	}
	return fmt.Errorf("created post %s missing from list", created.ID)
}

func scenarioListEntriesCarryAllKeys(ctx context.Context, c *Client) error {
	created, _, err := mustCreate(ctx, c)
	if err != nil {
		return err
	}
	defer cleanup(ctx, c, created.ID)

	entries, err := c.ListRaw(ctx)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry["id"] != created.ID {
			continue
		}
		for _, key := range []string{"id", "created", "author", "content", "title"} {
			if _, ok := entry[key]; !ok {
				return fmt.Errorf("list entry %s is missing key %q", created.ID, key)
			}
		}
		if _, ok := entry["author"].(string); !ok {
			return fmt.Errorf("list entry %s: author is not a string: %v", created.ID, entry["author"])
		}
		return nil
	}
	return fmt.Errorf("created post %s missing from raw list", created.ID)
}

func scenarioFetchByIDRoundTrips(ctx context.Context, c *Client) error {
	created, req, err := mustCreate(ctx, c)
	if err != nil {
		return err
	}
	defer cleanup(ctx, c, created.ID)

	got, status, err := c.Get(ctx, created.ID)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("fetch: expected 200, got %d", status)
	}
	if got.Title != req.Title || got.Content != req.Content || got.Author != req.Author.full() {
		return fmt.Errorf("fetched post does not match what was created: %+v", got)
	}
	return nil
}

func scenarioFetchUnknownID(ctx context.Context, c *Client) error {
	_, status, err := c.Get(ctx, post.NewID())
	if err != nil {
		return err
	}
	if status != http.StatusNotFound {
		return fmt.Errorf("expected 404, got %d", status)
	}
	return nil
}

func scenarioCreateMissingField(ctx context.Context, c *Client) error {
	before, err := countPosts(ctx, c)
	if err != nil {
		return err
	}

	author := map[string]string{"firstName": "A", "lastName": "B"}
	payloads := map[string]map[string]any{
		"title":            {"author": author, "content": "C"},
		"content":          {"title": "T", "author": author},
		"author":           {"title": "T", "content": "C"},
		"author.firstName": {"title": "T", "author": map[string]string{"lastName": "B"}, "content": "C"},
		"author.lastName":  {"title": "T", "author": map[string]string{"firstName": "A"}, "content": "C"},
	}
	for missing, payload := range payloads {
		_, status, err := c.CreateRaw(ctx, payload)
		if err != nil {
			return err
		}
		if status != http.StatusBadRequest {
			return fmt.Errorf("payload without %s: expected 400, got %d", missing, status)
		}
	}

	after, err := countPosts(ctx, c)
	if err != nil {
		return err
	}
	if after != before {
		return fmt.Errorf("rejected creates changed the store: %d -> %d posts", before, after)
	}
	return nil
}

func scenarioUpdatePartial(ctx context.Context, c *Client) error {
	created, req, err := mustCreate(ctx, c)
	if err != nil {
		return err
	}
	defer cleanup(ctx, c, created.ID)

	status, err := c.Update(ctx, created.ID, map[string]string{"content": "revised content"})
	if err != nil {
		return err
	}
	if status != http.StatusNoContent {
		return fmt.Errorf("update: expected 204, got %d", status)
	}

	got, status, err := c.Get(ctx, created.ID)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("fetch after update: expected 200, got %d", status)
	}
	if got.Content != "revised content" {
		return fmt.Errorf("content was not updated: %q", got.Content)
	}
	if got.Title != req.Title {
		return fmt.Errorf("update touched title: %q -> %q", req.Title, got.Title)
	}
	if got.Author != req.Author.full() {
		return fmt.Errorf("update touched author: %q -> %q", req.Author.full(), got.Author)
	}
	if !got.Created.Equal(created.Created) {
		return fmt.Errorf("update touched created: %v -> %v", created.Created, got.Created)
	}
	return nil
}

func scenarioUpdateUnknownID(ctx context.Context, c *Client) error {
	before, err := countPosts(ctx, c)
	if err != nil {
		return err
	}

	status, err := c.Update(ctx, post.NewID(), map[string]string{"content": "X"})
	if err != nil {
		return err
	}
	if status != http.StatusNotFound {
		return fmt.Errorf("expected 404, got %d", status)
	}

	after, err := countPosts(ctx, c)
	if err != nil {
		return err
	}
	if after != before {
		return fmt.Errorf("failed update changed the store: %d -> %d posts", before, after)
	}
	return nil
}

func scenarioUpdateIDMismatch(ctx context.Context, c *Client) error {
	created, req, err := mustCreate(ctx, c)
	if err != nil {
		return err
	}
	defer cleanup(ctx, c, created.ID)

	status, err := c.Update(ctx, created.ID, map[string]string{
		"id":    post.NewID(),
		"title": "hijacked",
	})
	if err != nil {
		return err
	}
	if status != http.StatusBadRequest {
		return fmt.Errorf("expected 400, got %d", status)
	}

	got, _, err := c.Get(ctx, created.ID)
	if err != nil {
		return err
	}
	if got.Title != req.Title {
		return fmt.Errorf("rejected update still changed title: %q", got.Title)
	}
	return nil
}

func scenarioDeleteIdempotent(ctx context.Context, c *Client) error {
	created, _, err := mustCreate(ctx, c)
	if err != nil {
		return err
	}

	for attempt := 1; attempt <= 2; attempt++ {
		status, err := c.Delete(ctx, created.ID)
		if err != nil {
			return err
		}
		if status != http.StatusNoContent {
			return fmt.Errorf("delete attempt %d: expected 204, got %d", attempt, status)
		}
	}

	_, status, err := c.Get(ctx, created.ID)
	if err != nil {
		return err
	}
	if status != http.StatusNotFound {
		return fmt.Errorf("fetch after delete: expected 404, got %d", status)
	}
	return nil
}

func scenarioSeededBatchListed(ctx context.Context, c *Client) error {
	const batch = 10

	before, err := countPosts(ctx, c)
	if err != nil {
		return err
	}

	ids := make([]string, 0, batch)
	defer func() { cleanup(ctx, c, ids...) }()
	for i := 0; i < batch; i++ {
		created, _, err := mustCreate(ctx, c)
		if err != nil {
			return err
		}
		ids = append(ids, created.ID)
	}

	list, err := c.List(ctx)
	if err != nil {
		return err
	}
	if len(list) != before+batch {
		return fmt.Errorf("list count: expected %d, got %d", before+batch, len(list))
	}
	listed := make(map[string]bool, len(list))
	for _, p := range list {
		listed[p.ID] = true
	}
	for _, id := range ids {
		if !listed[id] {
			return fmt.Errorf("seeded post %s missing from list", id)
		}
	}
	return nil
}
