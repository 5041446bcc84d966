package handler

import (
	"net/http"

	"saarthi_backend/internal/email"
	"saarthi_backend/platform/httpkit"
	"saarthi_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// SendEmailRequest is an operator-composed plain-text mail.
type SendEmailRequest struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Body    string `json:"body" validate:"required,max=20000"`
}

// SendEmailResponse reports the delivery outcome.
type SendEmailResponse struct {
	Status  string `json:"status"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Attempt int    `json:"attempt"`
}

type HTTPHandler struct {
	sender email.Sender
	val    *validator.Validator
}

func NewHTTPHandler(sender email.Sender, val *validator.Validator) *HTTPHandler {
	return &HTTPHandler{sender: sender, val: val}
}

// SendEmail delivers a custom mail with retries.
// POST /api/v1/admin/notifications/email
func (h *HTTPHandler) SendEmail(c *gin.Context) {
	var req SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	attempt, err := h.sender.SendCustomEmail(c.Request.Context(), req.To, req.Subject, req.Body)
	if err != nil {
		httpkit.Error(c, http.StatusBadGateway, "email delivery failed", err.Error())
		return
	}

	status := "sent"
	if attempt == 0 {
		status = "disabled"
	}
	httpkit.OK(c, SendEmailResponse{Status: status, To: req.To, Subject: req.Subject, Attempt: attempt})
}
