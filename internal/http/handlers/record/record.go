// Package record contains the HTTP handlers shared by every record type.
//
// A Handler is built once per entity at startup and closes over that
// entity's store; its methods are factories returning the actual
// http.HandlerFunc, so routes read like:
//
//	router.HandleFunc("POST /persons/{$}", persons.Create())
package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/aanand-mishra/records-api/internal/storage"
	"github.com/aanand-mishra/records-api/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// Input is a request body that can be turned into a record of type T.
type Input[T any] interface {
	Record() T
}

// Handler serves CRUD for one entity. T is the stored record, I the request
// body accepted by create and replace.
type Handler[T any, I Input[T]] struct {
	name     string
	store    storage.Store[T]
	validate *validator.Validate
}

// New returns a Handler for the entity called name (used in messages such
// as "Person is not available").
func New[T any, I Input[T]](name string, store storage.Store[T]) *Handler[T, I] {
	validate := validator.New()
	// Report fields by their JSON name ("father_name", not "FatherName").
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if tag == "-" {
			return ""
		}
		return tag
	})

	return &Handler[T, I]{
		name:     name,
		store:    store,
		validate: validate,
	}
}

// Register mounts the four CRUD routes:
//
//	POST   /{collection}/
//	GET    /{member}/{id}
//	PUT    /{member}/{id}
//	DELETE /{member}/{id}
func (h *Handler[T, I]) Register(router *http.ServeMux, collection, member string) {
	router.HandleFunc("POST /"+collection+"/{$}", h.Create())
	router.HandleFunc("GET /"+member+"/{id}", h.GetByID())
	router.HandleFunc("PUT /"+member+"/{id}", h.Update())
	router.HandleFunc("DELETE /"+member+"/{id}", h.Delete())
}

// Create handles POST and answers 200 with the stored record, id included.
func (h *Handler[T, I]) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.InfoContext(r.Context(), "creating a record", slog.String("entity", h.name))

		in, ok := h.decode(w, r)
		if !ok {
			return
		}

		created, err := h.store.Create(r.Context(), in.Record())
		if err != nil {
			h.fail(w, r, "create", err)
			return
		}

		response.WriteJSON(w, http.StatusOK, created)
	}
}

// GetByID handles GET /{member}/{id}.
func (h *Handler[T, I]) GetByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}
		slog.InfoContext(r.Context(), "getting a record",
			slog.String("entity", h.name), slog.Int64("id", id))

		rec, err := h.store.GetByID(r.Context(), id)
		if err != nil {
			h.fail(w, r, "get", err)
			return
		}

		response.WriteJSON(w, http.StatusOK, rec)
	}
}

// Update handles PUT /{member}/{id}, replacing every field.
func (h *Handler[T, I]) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}
		slog.InfoContext(r.Context(), "updating a record",
			slog.String("entity", h.name), slog.Int64("id", id))

		in, ok := h.decode(w, r)
		if !ok {
			return
		}

		updated, err := h.store.ReplaceByID(r.Context(), id, in.Record())
		if err != nil {
			h.fail(w, r, "update", err)
			return
		}

		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /{member}/{id}.
func (h *Handler[T, I]) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}
		slog.InfoContext(r.Context(), "deleting a record",
			slog.String("entity", h.name), slog.Int64("id", id))

		if err := h.store.DeleteByID(r.Context(), id); err != nil {
			h.fail(w, r, "delete", err)
			return
		}

		response.WriteJSON(w, http.StatusOK,
			response.Message{Message: fmt.Sprintf("%s deleted successfully", h.name)})
	}
}

// pathID parses {id}. On failure it has already written a 400.
func (h *Handler[T, I]) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("invalid id: must be an integer")))
		return 0, false
	}
	return id, true
}

// decode reads and validates the request body. On failure it has already
// written a 400.
func (h *Handler[T, I]) decode(w http.ResponseWriter, r *http.Request) (I, bool) {
	var in I

	err := json.NewDecoder(r.Body).Decode(&in)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return in, false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return in, false
	}

	if err := h.validate.Struct(in); err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(validateErrs))
		} else {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		}
		return in, false
	}

	return in, true
}

// fail maps a store error onto a response. Missing records become 404 with
// a fixed message; anything else is logged and hidden behind a 500.
func (h *Handler[T, I]) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		response.WriteJSON(w, http.StatusNotFound,
			response.GeneralError(fmt.Errorf("%s is not available", h.name)))
		return
	}

	slog.ErrorContext(r.Context(), "storage error",
		slog.String("entity", h.name),
		slog.String("op", op),
		slog.String("error", err.Error()))
	response.WriteJSON(w, http.StatusInternalServerError,
		response.GeneralError(errors.New("internal server error")))
}
