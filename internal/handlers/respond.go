package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/courtdesk/internal/models"
	"github.com/joshua-takyi/courtdesk/internal/services"
)

// respondError writes the envelope for err with the status its kind maps to.
func respondError(c *gin.Context, err error) {
	var (
		verr *services.ValidationError
		nerr *services.NotFoundError
		cerr *services.ConflictError
		derr *services.DuplicateKeyError
		uerr *services.InUseError
	)
	resp := models.CodedErrorResponse(services.ErrorCode(err), err.Error())

	switch {
	case errors.As(err, &verr):
		resp.Errors = verr.Fields
		c.JSON(http.StatusBadRequest, resp)
	case errors.As(err, &nerr):
		c.JSON(http.StatusNotFound, resp)
	case errors.As(err, &cerr):
		// conflicts keep 400; clients read the code and the report in data
		resp.Data = cerr.Report
		c.JSON(http.StatusBadRequest, resp)
	case errors.As(err, &derr):
		resp.Fields = derr.Fields
		c.JSON(http.StatusConflict, resp)
	case errors.As(err, &uerr):
		c.JSON(http.StatusConflict, resp)
	default:
		_ = c.Error(err)
		resp.Error = "Internal server error"
		resp.RequestID = c.GetString("request_id")
		c.JSON(http.StatusInternalServerError, resp)
	}
}

// bindError reports a body or query that could not be decoded.
func bindError(c *gin.Context, err error) {
	resp := models.CodedErrorResponse(services.CodeValidation, "invalid request: "+err.Error())
	c.JSON(http.StatusBadRequest, resp)
}
