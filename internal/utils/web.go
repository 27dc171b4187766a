package utils

import (
	"errors"
	"net/http"

	apperrors "github.com/itchan-dev/uploads/internal/errors"
)

func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	var e *apperrors.ErrorWithStatusCode
	if errors.As(err, &e) {
		http.Error(w, e.Error(), e.StatusCode)
		return
	}
	// default error is 500
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
