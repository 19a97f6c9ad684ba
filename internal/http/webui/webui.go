package webui

import (
	"embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed index.html
var fs embed.FS

// Index serves the demo page.
func Index(ginCtx *gin.Context) {
	page, err := fs.ReadFile("index.html")
	if err != nil {
		ginCtx.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	ginCtx.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
