package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the standard API response envelope. Failed actions may still carry data, such as
// the console state after the failure.
type Body struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK sends a 200 JSON response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Data: data})
}

// Fail sends status with an error message and optional data.
func Fail(c *gin.Context, status int, err string, data interface{}) {
	c.JSON(status, Body{Success: false, Error: err, Data: data})
}

// BadRequest sends 400 with error message.
func BadRequest(c *gin.Context, err string) {
	Fail(c, http.StatusBadRequest, err, nil)
}

// Conflict sends 409.
func Conflict(c *gin.Context, err string, data interface{}) {
	Fail(c, http.StatusConflict, err, data)
}

// BadGateway sends 502, used when the streaming service rejected or failed a call.
func BadGateway(c *gin.Context, err string, data interface{}) {
	Fail(c, http.StatusBadGateway, err, data)
}
