package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/techagentng/awaz/errors"
	"github.com/techagentng/awaz/models"
)

// decode binds the request body into v and validates it.
func decode(c *gin.Context, v interface{}) []error {
	var err error
	switch c.ContentType() {
	case binding.MIMEMultipartPOSTForm, binding.MIMEPOSTForm:
		err = c.ShouldBind(v)
	default:
		err = c.ShouldBindJSON(v)
	}
	if err != nil {
		return []error{errors.New("unable to parse request body", http.StatusBadRequest)}
	}
	return models.ValidateStruct(v)
}

// currentUser returns the user that Authorize stored on the context.
func currentUser(c *gin.Context) (*models.User, *errors.Error) {
	userI, exists := c.Get("user")
	if !exists {
		return nil, errors.New("forbidden", http.StatusForbidden)
	}
	user, ok := userI.(*models.User)
	if !ok {
		return nil, errors.ErrInternalServerError
	}
	return user, nil
}

func idParam(c *gin.Context, name string) (uint, *errors.Error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid "+name, http.StatusBadRequest)
	}
	return uint(id), nil
}

// complaintFilter reads the listing filter from the query string.
func complaintFilter(c *gin.Context) (models.ComplaintFilter, *errors.Error) {
	var filter models.ComplaintFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		return filter, errors.New("invalid filter: "+err.Error(), http.StatusBadRequest)
	}
	return filter, nil
}
