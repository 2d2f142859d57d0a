package jsonapidoc

import (
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/ccbrown/jsonapi-doc/mediatype"
)

// HandlerConfig defines the behavior of a Handler.
type HandlerConfig struct {
	Logger logrus.FieldLogger

	// Negotiator validates the request's Accept and Content-Type headers.
	// If nil, a negotiator with no supported extensions is used.
	Negotiator *mediatype.Negotiator

	// Serve produces the response document for a request. Returning a
	// document with a non-empty errors member produces an error response
	// whose status is taken from the first error object carrying one.
	Serve func(r *http.Request) *Document
}

// A Handler serves documents over HTTP with JSON:API content negotiation.
// It owns no document semantics: documents are validated by their own
// construction and serialization.
type Handler struct {
	config HandlerConfig
}

// NewHandler returns a Handler for the given config.
func NewHandler(config HandlerConfig) *Handler {
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}
	if config.Negotiator == nil {
		config.Negotiator = &mediatype.Negotiator{}
	}
	return &Handler{config: config}
}

func errorForHTTPStatus(status int) ErrorObject {
	return ErrorObject{
		Status: strconv.Itoa(status),
		Title:  http.StatusText(status),
	}
}

func errorDocument(errors ...ErrorObject) *Document {
	return &Document{Errors: errors}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := h.executeRequest(r)
	if resp.JSONAPI == nil {
		resp.JSONAPI = &JSONAPI{Ver: Version}
	}

	w.Header().Set("Content-Type", mediatype.MediaType)
	w.Header().Set("Vary", h.config.Negotiator.VaryHeader())

	status := http.StatusOK
	if len(resp.Errors) > 0 {
		status = http.StatusInternalServerError
		for _, err := range resp.Errors {
			if err.Status != "" {
				if n, parseErr := strconv.ParseInt(err.Status, 10, 0); parseErr == nil && n >= 100 && n < 600 {
					status = int(n)
				}
				break
			}
		}
	}

	body, err := jsoniter.Marshal(resp)
	if err != nil {
		h.config.Logger.WithError(err).Error("unable to serialize response document")
		status = http.StatusInternalServerError
		newErr := errorForHTTPStatus(status)
		newErr.Detail = err.Error()
		body, _ = jsoniter.Marshal(errorDocument(newErr))
	}

	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	w.Write(body)
}

func (h *Handler) executeRequest(r *http.Request) *Document {
	if accept := r.Header.Get("Accept"); accept != "" {
		if _, err := h.config.Negotiator.NegotiateAccept(accept); err != nil {
			return errorDocument(errorForHTTPStatus(http.StatusNotAcceptable))
		}
	}

	if r.Body != nil && r.ContentLength != 0 {
		if err := h.config.Negotiator.ValidateContentType(r.Header.Get("Content-Type")); err != nil {
			return errorDocument(errorForHTTPStatus(http.StatusUnsupportedMediaType))
		}
	}

	if h.config.Serve == nil {
		return errorDocument(errorForHTTPStatus(http.StatusNotFound))
	}
	resp := h.config.Serve(r)
	if resp == nil {
		return errorDocument(errorForHTTPStatus(http.StatusNotFound))
	}
	return resp
}
