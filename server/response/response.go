package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/awaz/errors"
)

// JSON writes the standard response envelope. e may be nil, an error or a []error.
func JSON(c *gin.Context, message string, status int, data interface{}, e interface{}) {
	responsedata := gin.H{
		"message":   message,
		"data":      data,
		"errors":    formatErrors(e),
		"status":    http.StatusText(status),
		"timestamp": time.Now().Format(time.RFC850),
	}

	c.JSON(status, responsedata)
}

func formatErrors(v interface{}) interface{} {
	switch e := v.(type) {
	case nil:
		return nil
	case []error:
		if len(e) == 0 {
			return nil
		}
		out := make([]string, 0, len(e))
		for _, err := range e {
			out = append(out, err.Error())
		}
		return out
	case *errs.Error:
		if e == nil {
			return nil
		}
		return e.Message
	case error:
		return e.Error()
	default:
		return e
	}
}

// Page is the shape of a paginated listing payload.
type Page struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// NewPage builds a Page from a result slice and its total count.
func NewPage(items interface{}, total int64, page, pageSize int) Page {
	pages := 0
	if pageSize > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Page{Items: items, Total: total, Page: page, PageSize: pageSize, TotalPages: pages}
}
