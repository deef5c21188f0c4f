package ioweb

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const emptyQueryMsg = "Query parameter is required"

type speciesRequest struct {
	Query   string `query:"query" json:"query"`
	Kingdom string `query:"kingdom" json:"kingdom"`
}

func (r *speciesRequest) normalize() {
	r.Query = strings.TrimSpace(r.Query)
	r.Kingdom = strings.TrimSpace(r.Kingdom)
}

func (r speciesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Query,
			validation.Required.Error(emptyQueryMsg),
			validation.RuneLength(1, 255),
		),
		validation.Field(&r.Kingdom, validation.RuneLength(0, 64)),
	)
}

// errorMessage returns the message of the first invalid field.
func errorMessage(err error) string {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err.Error()
	}
	for _, field := range []string{"query", "kingdom"} {
		if e, ok := errs[field]; ok {
			if e.Error() == emptyQueryMsg {
				return emptyQueryMsg
			}
			return field + ": " + e.Error()
		}
	}
	return err.Error()
}
