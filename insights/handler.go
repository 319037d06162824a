package insights

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	extractor *Extractor
}

func NewHandler(extractor *Extractor) *Handler {
	return &Handler{extractor: extractor}
}

// GetMarketAnalysis returns the cached market commentary.
func (h *Handler) GetMarketAnalysis(c *gin.Context) {
	analysis, err := h.extractor.AnalyzeMarket(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, analysis)
}
