package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/mylibrary/internal/common"
	"github.com/dmitrijs2005/mylibrary/internal/server/services"
	"github.com/gin-gonic/gin"
)

// writeError maps service errors to HTTP statuses. Internal details are
// logged, never sent.
func (h *Handler) writeError(c *gin.Context, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": common.ErrorValidation.Error(), "fields": ve.Fields})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": common.ErrorNotFound.Error()})
	case errors.Is(err, common.ErrorAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": common.ErrorAlreadyExists.Error()})
	case errors.Is(err, common.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": common.ErrUnauthenticated.Error()})
	case errors.Is(err, common.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": common.ErrForbidden.Error()})
	default:
		h.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": common.ErrorInternal.Error()})
	}
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request"})
}
