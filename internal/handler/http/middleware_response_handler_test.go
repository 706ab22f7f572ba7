package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rec}

	assert.Equal(t, http.StatusOK, w.statusOrOK())

	w.WriteHeader(http.StatusCreated)
	w.WriteHeader(http.StatusInternalServerError)
	n1, _ := w.Write([]byte("abc"))
	n2, _ := w.Write([]byte("de"))

	assert.Equal(t, http.StatusCreated, w.status)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, n1+n2, w.size)
	assert.Equal(t, "abcde", rec.Body.String())
	assert.Same(t, rec, w.Unwrap())
}

func TestResponseWriter_ImplicitOK(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rec}

	w.Write([]byte("x"))

	assert.True(t, w.wroteHeader)
	assert.Equal(t, http.StatusOK, w.status)
	assert.Equal(t, 1, w.size)
}
