package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jignesh1691/Projectsetu.1691-sub001/pkg/response"
)

// editPayload reads the raw JSON patch for an edit request. The optional
// request_message key rides inside the same body; the gate strips it from
// the overlay before merging.
func editPayload(c *gin.Context) (json.RawMessage, string, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "request body is required"))
		return nil, "", false
	}

	var probe struct {
		RequestMessage string `json:"request_message"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "request body must be a JSON object"))
		return nil, "", false
	}
	return body, probe.RequestMessage, true
}

// deleteMessage reads the optional request_message of a delete request; an
// empty body is fine.
func deleteMessage(c *gin.Context) string {
	var probe struct {
		RequestMessage string `json:"request_message"`
	}
	_ = c.ShouldBindJSON(&probe)
	return probe.RequestMessage
}
