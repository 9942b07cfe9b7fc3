package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/lintang-b-s/wayroute/pkg/engine/routing"
	"github.com/lintang-b-s/wayroute/pkg/util"
	"go.uber.org/zap"
)

type envelope map[string]any

// requestValidator validates request dtos and renders the failures as english messages.
type requestValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func newRequestValidator() *requestValidator {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)
	return &requestValidator{validate: validate, trans: trans}
}

func (v *requestValidator) Struct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		vv := translateError(err, v.trans)
		vvString := []string{}
		for _, e := range vv {
			vvString = append(vvString, e.Error())
		}
		return fmt.Errorf("validation error: %v", vvString)
	}
	return nil
}

func translateError(err error, trans ut.Translator) []error {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	errs := make([]error, 0, len(validatorErrs))
	for _, e := range validatorErrs {
		errs = append(errs, errors.New(e.Translate(trans)))
	}
	return errs
}

// errorEnvelope maps an error to its status code and response body.
func errorEnvelope(err error) (int, envelope) {
	var (
		status int
		body   errorBody
	)
	switch util.ErrorCode(err) {
	case util.ErrBadParamInput:
		status = http.StatusBadRequest
		body.Message = err.Error()
	case util.ErrNotFound:
		status = http.StatusNotFound
		body.Message = err.Error()
		if labels, ok := routing.UnresolvedLabels(err); ok {
			body.Labels = labels
		}
	default:
		status = http.StatusInternalServerError
		body.Message = util.MessageInternalServerError
	}
	body.Code = http.StatusText(status)
	return status, envelope{"error": body}
}

func (api *routingAPI) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func (api *routingAPI) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	env := envelope{"error": errorBody{Code: http.StatusText(status), Message: message}}
	if err := api.writeJSON(w, status, env, nil); err != nil {
		api.log.Error("failed to write error response", zap.Error(err), zap.String("path", r.URL.Path))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (api *routingAPI) BadRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (api *routingAPI) ServerErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.log.Error("server error", zap.Error(err), zap.String("method", r.Method), zap.String("path", r.URL.Path))
	api.errorResponse(w, r, http.StatusInternalServerError, util.MessageInternalServerError)
}

func (api *routingAPI) getStatusCode(w http.ResponseWriter, r *http.Request, err error) {
	status, env := errorEnvelope(err)
	if status == http.StatusInternalServerError {
		api.log.Error("request failed", zap.Error(err), zap.String("path", r.URL.Path))
	}
	if werr := api.writeJSON(w, status, env, nil); werr != nil {
		api.ServerErrorResponse(w, r, werr)
	}
}
