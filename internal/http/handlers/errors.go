package handlers

import "errors"

var errMissingID = errors.New("missing path parameter: id")
