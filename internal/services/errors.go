package services

import (
	"errors"

	"garden/internal/models"
	"garden/internal/repositories"
)

const (
	msgUserNotFound     = "This user is not found !"
	msgUserDeleted      = "This user is deleted !"
	msgPasswordMismatch = "Password do not matched"
	msgInvalidToken     = "Invalid token!"
	msgPostNotFound     = "This post is not found !"
	msgCommentNotFound  = "This comment is not found !"
)

// notFound turns a repository miss into a 404 with message; other errors pass through.
func notFound(err error, message string) error {
	if notFoundErr(err) {
		appErr := models.NewNotFoundError(message)
		appErr.Err = err
		return appErr
	}
	return err
}

func notFoundErr(err error) bool {
	return errors.Is(err, repositories.ErrNotFound)
}

func invalidToken(err error) error {
	appErr := models.NewForbiddenError(msgInvalidToken)
	appErr.Err = err
	return appErr
}
