package handlers

import (
	"net/http"
	"regexp"

	"deen-companion-api/internal/stories"

	"github.com/gin-gonic/gin"
)

var storyIDRe = regexp.MustCompile(`^[a-z0-9-]+$`)

// StoryHandler serves the curated in-code story table. Stories are static
// data, so there is no cache and no upstream involved.
type StoryHandler struct{}

func NewStoryHandler() *StoryHandler {
	return &StoryHandler{}
}

// List handles GET /api/stories
func (h *StoryHandler) List(c *gin.Context) {
	all := stories.All()
	summaries := make([]gin.H, 0, len(all))
	for _, s := range all {
		summaries = append(summaries, gin.H{
			"id":      s.ID,
			"title":   s.Title,
			"titleAr": s.TitleAr,
			"era":     s.Era,
			"summary": s.Summary,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"code":   200,
		"status": "OK",
		"data":   gin.H{"stories": summaries},
	})
}

// ByID handles GET /api/stories/:id
func (h *StoryHandler) ByID(c *gin.Context) {
	id := c.Param("id")
	if !storyIDRe.MatchString(id) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid story id",
			"details": "id must be a lowercase slug",
		})
		return
	}

	story, ok := stories.ByID(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"code":   404,
			"status": "NOT_FOUND",
			"error":  "Story not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":   200,
		"status": "OK",
		"data":   gin.H{"story": story},
	})
}
