package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hrms-portal/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-portal/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrms-portal/internal/handler/http/response"
)

type LeaveHandler interface {
	WorkingDays(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

// WorkingDays implements LeaveHandler.
func (l *LeaveHandlerImpl) WorkingDays(w http.ResponseWriter, r *http.Request) {
	var req leave.WorkingDaysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	companyID := middleware.CompanyIDFromContext(r.Context())
	result, err := l.leaveService.CalculateWorkingDays(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
