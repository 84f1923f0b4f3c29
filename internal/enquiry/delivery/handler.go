package delivery

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"reflect"
	"strings"

	"shorelands-backend/internal/enquiry/domain"
	"shorelands-backend/internal/enquiry/dto"
	"shorelands-backend/internal/enquiry/usecase"
	"shorelands-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// EnquiryHandler handles the contact form submissions
type EnquiryHandler struct {
	enquiryUsecase usecase.EnquiryUsecase
	validate       *validator.Validate
	logger         logger.Logger
}

// NewEnquiryHandler creates a new EnquiryHandler
func NewEnquiryHandler(enquiryUsecase usecase.EnquiryUsecase, log logger.Logger) *EnquiryHandler {
	if log == nil {
		log = logger.NewNop()
	}
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &EnquiryHandler{
		enquiryUsecase: enquiryUsecase,
		validate:       validate,
		logger:         log,
	}
}

// SubmitEnquiry forwards a visitor enquiry by email
// POST /api/enquiry
func (h *EnquiryHandler) SubmitEnquiry(c *gin.Context) {
	var req dto.EnquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	req.Normalize()

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusUnprocessableEntity, dto.ValidationErrorResponse{Errors: fieldErrors(verrs)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	err := h.enquiryUsecase.SubmitEnquiry(c.Request.Context(), req.Email, req.Title, html.EscapeString(req.Message))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.EnquiryResponse{Success: true})
}

func (h *EnquiryHandler) writeError(c *gin.Context, err error) {
	log := logger.FromContext(c.Request.Context(), h.logger)

	var dispatchErr *domain.DispatchError
	switch {
	case errors.Is(err, domain.ErrInvalidAddress):
		c.JSON(http.StatusUnprocessableEntity, dto.ValidationErrorResponse{Errors: []dto.FieldError{
			{Field: "email", Message: "must be a valid email address"},
		}})
	case errors.As(err, &dispatchErr):
		log.Warn("Enquiry was not delivered", logger.Fields{"reason": string(dispatchErr.Reason), "failed_recipients": len(dispatchErr.Failures)})
		c.JSON(http.StatusBadGateway, dto.EnquiryResponse{Success: false, Error: "Your message could not be sent. Please try again later."})
	default:
		log.Error("Failed to submit enquiry", err, nil)
		c.JSON(http.StatusInternalServerError, dto.EnquiryResponse{Success: false, Error: "Your message could not be sent. Please try again later."})
	}
}

func fieldErrors(verrs validator.ValidationErrors) []dto.FieldError {
	out := make([]dto.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, dto.FieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return "is invalid"
	}
}
