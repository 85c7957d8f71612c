package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func List[T any](c *gin.Context, data []T) {
	writeList(c, http.StatusOK, data)
}

func CreatedList[T any](c *gin.Context, data []T) {
	writeList(c, http.StatusCreated, data)
}

func writeList[T any](c *gin.Context, status int, data []T) {
	if data == nil {
		data = []T{}
	}
	c.JSON(status, ListResponse[T]{
		Data:  data,
		Total: len(data),
	})
}
