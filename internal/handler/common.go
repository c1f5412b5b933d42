package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/approval"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/middleware"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/internal/service"
	"github.com/Jignesh1691/Projectsetu.1691-sub001/pkg/response"
)

// respondError translates service-level errors to HTTP statuses: missing
// rows are 404, double decisions 409, access and lock violations 403,
// validation problems 400.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, approval.ErrNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	case errors.Is(err, approval.ErrInvalidState):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	case errors.Is(err, approval.ErrForbidden), errors.Is(err, approval.ErrLocked):
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, err.Error()))
	case errors.Is(err, service.ErrUnknownKind):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	default:
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	}
}

// actor pulls the authenticated approval actor off the gin context; aborts
// with 401 when the route is not behind auth middleware.
func actor(c *gin.Context) (approval.Actor, bool) {
	act, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Unauthorized"))
	}
	return act, ok
}

// pathUUID parses a uuid path parameter, answering 400 on garbage.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid "+name+" format"))
		return uuid.Nil, false
	}
	return id, true
}
