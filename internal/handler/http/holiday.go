package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hrms-portal/internal/domain/holiday"
	"github.com/cmlabs-hris/hrms-portal/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrms-portal/internal/handler/http/response"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/pagination"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// MaxImportSize bounds a holiday spreadsheet upload.
const MaxImportSize = 5 << 20

type HolidayHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Import(w http.ResponseWriter, r *http.Request)
}

type holidayHandlerImpl struct {
	holidayService holiday.HolidayService
	defaults       pagination.Defaults
}

func NewHolidayHandler(holidayService holiday.HolidayService, defaults pagination.Defaults) HolidayHandler {
	return &holidayHandlerImpl{
		holidayService: holidayService,
		defaults:       defaults,
	}
}

// List implements HolidayHandler.
func (h *holidayHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	query, err := pagination.ParseQuery(r.URL.Query(), h.defaults)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := holiday.HolidayFilter{Query: query}
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			response.HandleError(w, validator.Single("year", "year must be a number"))
			return
		}
		filter.Year = &year
	}

	companyID := middleware.CompanyIDFromContext(r.Context())
	result, err := h.holidayService.ListHolidays(r.Context(), companyID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Holidays, result.Meta)
}

// Create implements HolidayHandler.
func (h *holidayHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req holiday.CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	companyID := middleware.CompanyIDFromContext(r.Context())
	created, err := h.holidayService.CreateHoliday(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Holiday created", created)
}

// Delete implements HolidayHandler.
func (h *holidayHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.HandleError(w, validator.Single("id", "id must be a valid UUID"))
		return
	}

	companyID := middleware.CompanyIDFromContext(r.Context())
	if err := h.holidayService.DeleteHoliday(r.Context(), companyID, id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday deleted", nil)
}

// Import implements HolidayHandler.
func (h *holidayHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxImportSize)
	if err := r.ParseMultipartForm(MaxImportSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			response.HandleError(w, err)
			return
		}
		response.BadRequest(w, "Invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.HandleError(w, validator.Single("file", "file is required"))
		return
	}
	defer file.Close()

	companyID := middleware.CompanyIDFromContext(r.Context())
	result, err := h.holidayService.ImportHolidays(r.Context(), companyID, header.Filename, file)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holidays imported", result)
}
