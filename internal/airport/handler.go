package airport

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/fb/v1/airports/search", h.SearchHandler)
}

// SearchHandler godoc
// @Summary      Airport autocomplete
// @Description  Returns up to 6 ranked airport suggestions for a query of at least 2 characters.
// @Tags         airports
// @Produce      json
// @Param        q query string true "Search query"
// @Success      200 {array} Suggestion
// @Router       /fb/v1/airports/search [get]
func (h *Handler) SearchHandler(c *gin.Context) {
	results := Search(c.Query("q"))
	if results == nil {
		results = []Suggestion{}
	}
	c.JSON(http.StatusOK, results)
}
