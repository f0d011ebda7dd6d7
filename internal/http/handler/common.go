package handler

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/service"
	"github.com/bloomhouse/admin-console/internal/upstream"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// validate reports fields by their JSON names so the console can highlight them
var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return cmp.Or(name, f.Name)
	})
	return v
}()

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, domain.APIError{
		Type:   domain.ErrorTypeFor(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: message,
		Toast:  domain.ErrorToast(message),
	})
}

// respondValidationError lists each failed field under its JSON name
func respondValidationError(w http.ResponseWriter, err error) {
	fields := map[string]string{}
	var failed validator.ValidationErrors
	if errors.As(err, &failed) {
		for _, fe := range failed {
			fields[fe.Field()] = domain.FieldMessage(fe.Field(), fe.Tag(), fe.Param())
		}
	}
	respondJSON(w, http.StatusBadRequest, domain.APIError{
		Type:   domain.ErrorTypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: fmt.Sprintf("%d field(s) need attention", len(fields)),
		Errors: fields,
		Toast:  domain.ErrorToast("Please check the highlighted fields"),
	})
}

// respondFailure logs a failed operation and answers with the generic toast for it.
// op is the action in lower case, e.g. "create product".
func respondFailure(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	status := statusFor(err)

	fields := []zap.Field{zap.String("operation", op), zap.Error(err)}
	if us := upstream.StatusOf(err); us != 0 {
		fields = append(fields, zap.Int("upstream_status", us))
	}
	if status >= http.StatusInternalServerError {
		logger.Error("operation failed", fields...)
	} else {
		logger.Warn("operation failed", fields...)
	}

	apiErr := domain.APIError{
		Type:   domain.ErrorTypeFor(status),
		Title:  http.StatusText(status),
		Status: status,
		Toast:  domain.ErrorToast(fmt.Sprintf("Failed to %s, please try again", op)),
	}
	// Only input problems are safe and useful to show verbatim
	if errors.Is(err, service.ErrInvalidInput) {
		apiErr.Detail = err.Error()
	}
	respondJSON(w, status, apiErr)
}

// statusFor maps service and upstream errors to the console's response status
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrUnknownList):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrArchiveDisabled):
		return http.StatusNotFound
	}

	switch us := upstream.StatusOf(err); {
	case us == http.StatusUnauthorized, us == http.StatusForbidden, us == http.StatusConflict, us == http.StatusNotFound:
		return us
	case us >= 400 && us < 500:
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

// respondList writes a list envelope
func respondList[R any](w http.ResponseWriter, items []R) {
	if items == nil {
		items = []R{}
	}
	respondJSON(w, http.StatusOK, domain.Envelope{
		Items: items,
		Meta:  &domain.ListMeta{Count: len(items)},
	})
}

// respondMutation writes the affected record, the refreshed list and a success toast. When
// the list could not be re-fetched the items are left out and the toast says so.
func respondMutation[T, R any](w http.ResponseWriter, status int, result *service.MutationResult[T], toRow func(*T) R, message string) {
	env := domain.Envelope{Toast: domain.SuccessToast(message)}

	if result.Record != nil {
		env.Data = toRow(result.Record)
	}
	if result.Stale {
		env.Toast = &domain.Toast{Level: domain.ToastWarning, Message: message + ", refresh to see the latest list"}
	} else {
		rows := make([]R, 0, len(result.Items))
		for i := range result.Items {
			rows = append(rows, toRow(&result.Items[i]))
		}
		env.Items = rows
		env.Meta = &domain.ListMeta{Count: len(rows)}
	}

	respondJSON(w, status, env)
}

// identity is the row function for records shown as-is
func identity[T any](v *T) T {
	return *v
}

// maxJSONBody bounds plain JSON bodies; image forms use their handler's upload limit
const maxJSONBody = 1 << 20

// decodeJSON decodes and validates a JSON body, writing the error response itself
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decodeJSONLimit(w, r, maxJSONBody, dst)
}

func decodeJSONLimit(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Request body too large: maximum size is %dKB", maxBytes>>10))
			return false
		}
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondValidationError(w, err)
		return false
	}
	return true
}

// imageForm is a form submitted either as JSON or as multipart with a "data" JSON field
// and image file parts.
type imageForm struct {
	uploads []service.ImageUpload
	files   []multipart.File
}

func (f *imageForm) Close() {
	for _, file := range f.files {
		_ = file.Close()
	}
}

// first returns the first uploaded image or nil
func (f *imageForm) first() *service.ImageUpload {
	if len(f.uploads) == 0 {
		return nil
	}
	return &f.uploads[0]
}

// decodeImageForm reads a JSON or multipart form into dst and collects files from the
// named fields. It writes the error response itself.
func decodeImageForm(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any, fileFields ...string) (*imageForm, bool) {
	form := &imageForm{}

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return form, decodeJSONLimit(w, r, maxBytes, dst)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Upload too large: maximum size is %dMB", maxBytes>>20))
		return nil, false
	}

	if err := json.Unmarshal([]byte(r.FormValue("data")), dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid form data")
		return nil, false
	}
	if err := validate.Struct(dst); err != nil {
		respondValidationError(w, err)
		return nil, false
	}

	for _, field := range fileFields {
		for _, header := range r.MultipartForm.File[field] {
			file, err := header.Open()
			if err != nil {
				form.Close()
				respondWithError(w, http.StatusBadRequest, "Could not read uploaded file "+header.Filename)
				return nil, false
			}
			form.files = append(form.files, file)
			form.uploads = append(form.uploads, service.ImageUpload{Filename: header.Filename, Data: file})
		}
	}
	return form, true
}

// idParam returns the {id} path parameter
func idParam(r *http.Request) domain.ID {
	return domain.ID(chi.URLParam(r, "id"))
}

// parseIntQuery reads an integer query value, falling back on a missing or malformed one
func parseIntQuery(r *http.Request, key string, fallback int) int {
	n, err := cast.ToIntE(r.URL.Query().Get(key))
	if err != nil || !r.URL.Query().Has(key) {
		return fallback
	}
	return n
}

// envelopeOf wraps a single value in a response envelope
func envelopeOf(data any) domain.Envelope {
	return domain.Envelope{Data: data}
}
