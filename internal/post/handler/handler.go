package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quillhq/quill/internal/post"
	"github.com/quillhq/quill/internal/post/service"
)

// postBody is the wire shape of a stored post. The structured author pair is
// flattened to a single "First Last" string on every read path.
type postBody struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Author  string    `json:"author"`
	Content string    `json:"content"`
	Created time.Time `json:"created"`
}

type listResponse struct {
	Posts []postBody `json:"posts"`
}

// updateRequest accepts the partial-update payload. The id is tolerated in
// the body only when it repeats the path id; ids never change.
type updateRequest struct {
	ID *string `json:"id"`
	post.Patch
}

func toBody(p post.Post) postBody {
	return postBody{
		ID:      p.ID,
		Title:   p.Title,
		Author:  p.Author.FullName(),
		Content: p.Content,
		Created: p.Created,
	}
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, post.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, post.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// RegisterPostRoutes mounts the /posts CRUD surface on r, backed by svc.
func RegisterPostRoutes(r *gin.Engine, svc service.Service) {
	r.GET("/posts", func(c *gin.Context) {
		list, err := svc.FindAll(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		out := make([]postBody, 0, len(list))
		for _, p := range list {
			out = append(out, toBody(p))
		}
		c.JSON(http.StatusOK, listResponse{Posts: out})
	})

	r.GET("/posts/:id", func(c *gin.Context) {
		p, found, err := svc.FindByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusOK, toBody(p))
	})

	r.POST("/posts", func(c *gin.Context) {
		var draft post.Draft
		if err := c.ShouldBindJSON(&draft); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		inserted, err := svc.InsertMany(c.Request.Context(), []post.Draft{draft})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, toBody(inserted[0]))
	})

	r.PUT("/posts/:id", func(c *gin.Context) {
		id := c.Param("id")
		var req updateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.ID != nil && *req.ID != id {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payload id does not match path id"})
			return
		}
		if _, err := svc.UpdateByID(c.Request.Context(), id, req.Patch); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.DELETE("/posts/:id", func(c *gin.Context) {
		// Deleting an id that is already gone is still a successful delete.
		if _, err := svc.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}
