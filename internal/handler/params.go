package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

// pathParam binds a required simple-style path parameter into dest.
func pathParam(r *http.Request, name string, dest any) error {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return badRequest(fmt.Sprintf("invalid format for parameter %s: %v", name, err))
	}
	return nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	var raw string
	if err := pathParam(r, name, &raw); err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, badRequest(fmt.Sprintf("invalid format for parameter %s: %v", name, err))
	}
	return id, nil
}

func pathInt(r *http.Request, name string) (int, error) {
	var n int
	err := pathParam(r, name, &n)
	return n, err
}

// queryParam binds an optional form-style query parameter into dest, which
// is left untouched when the parameter is absent.
func queryParam(r *http.Request, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		return badRequest(fmt.Sprintf("invalid format for parameter %s: %v", name, err))
	}
	return nil
}
