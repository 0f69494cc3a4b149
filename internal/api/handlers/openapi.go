// openapi.go — GET /api/openapi.yaml: встроенный OpenAPI-документ.
package handlers

import (
	"net/http"
)

// OpenAPIHandler отдаёт OpenAPI-документ API.
type OpenAPIHandler struct {
	spec []byte
}

// NewOpenAPIHandler создаёт обработчик для документа spec (api.Spec).
func NewOpenAPIHandler(spec []byte) *OpenAPIHandler {
	return &OpenAPIHandler{spec: spec}
}

func (h *OpenAPIHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.spec)
}
