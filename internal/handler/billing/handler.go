package billing

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medhq/hospital-api/internal/form"
	"github.com/medhq/hospital-api/internal/handler"
	"github.com/medhq/hospital-api/internal/model"
	"github.com/medhq/hospital-api/internal/service/billing"
	"github.com/medhq/hospital-api/internal/service/patient"
	"github.com/medhq/hospital-api/internal/store"
)

const dueDateOffset = 30 * 24 * time.Hour

type Handler struct {
	billingSvc *billing.Service
	patientSvc *patient.Service
}

func NewHandler(billingSvc *billing.Service, patientSvc *patient.Service) *Handler {
	return &Handler{billingSvc: billingSvc, patientSvc: patientSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	invoices := r.Group("/billing")
	{
		invoices.GET("", h.ListInvoices)
		invoices.GET("/create", h.CreateInvoiceForm)
		invoices.POST("/create", h.CreateInvoice)
		invoices.GET("/:id", h.ViewInvoice)
		invoices.GET("/:id/edit", h.EditInvoiceForm)
		invoices.POST("/:id/edit", h.EditInvoice)
	}
}

// ListInvoices renders the ledger, optionally narrowed by status and
// invoice date range from the query string.
func (h *Handler) ListInvoices(c *gin.Context) {
	var filters model.InvoiceFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("Invalid filters: "+err.Error()))
		return
	}

	invoices, err := h.billingSvc.List(c.Request.Context(), filters)
	if err != nil {
		resp := handler.NewErrorResponse("Error fetching invoices: " + err.Error())
		resp.Data = []model.Invoice{}
		resp.Flash = &model.Flash{Category: model.FlashDanger, Message: "Error fetching invoices: " + err.Error()}
		c.JSON(http.StatusOK, resp)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(invoices))
}

// CreateInvoiceForm pre-dates the invoice to today with payment due in
// thirty days.
func (h *Handler) CreateInvoiceForm(c *gin.Context) {
	f, err := h.newForm(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/billing", model.FlashDanger,
			"Error preparing form: "+err.Error()))
		return
	}

	now := time.Now()
	f.Set("invoice_date", now.Format("2006-01-02"))
	f.Set("due_date", now.Add(dueDateOffset).Format("2006-01-02"))
	f.Set("status", model.InvoicePending)

	c.JSON(http.StatusOK, handler.NewFormResponse(f, nil))
}

func (h *Handler) CreateInvoice(c *gin.Context) {
	f, err := h.newForm(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/billing", model.FlashDanger,
			"Error preparing form: "+err.Error()))
		return
	}

	f.Bind(handler.FormValues(c))
	if f.Get("status") == "" {
		f.Set("status", model.InvoicePending)
	}
	if !f.Validate() {
		c.JSON(http.StatusBadRequest, handler.NewInvalidFormResponse(f))
		return
	}

	input, err := inputFrom(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewInvalidFormResponse(f))
		return
	}

	actor := handler.IdentityFrom(c)
	if _, err := h.billingSvc.Create(c.Request.Context(), actor, input); err != nil {
		resp := handler.NewFormResponse(f, nil).WithFlash(model.FlashDanger, "Error creating invoice: "+err.Error())
		resp.Status = "error"
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	c.JSON(http.StatusOK, handler.NewRedirectResponse("/billing", model.FlashSuccess, "Invoice created successfully!"))
}

func (h *Handler) ViewInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewRedirectResponse("/billing", model.FlashWarning, "Invalid invoice ID."))
		return
	}

	invoice, err := h.billingSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, handler.NewRedirectResponse("/billing", model.FlashWarning, "Invoice not found."))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/billing", model.FlashDanger,
			"Error fetching invoice: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(invoice))
}

func (h *Handler) EditInvoiceForm(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewRedirectResponse("/billing", model.FlashWarning, "Invalid invoice ID."))
		return
	}

	invoice, err := h.billingSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, handler.NewRedirectResponse("/billing", model.FlashWarning, "Invoice not found."))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/billing", model.FlashDanger,
			"Error fetching invoice: "+err.Error()))
		return
	}

	f, err := h.newForm(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/billing", model.FlashDanger,
			"Error preparing form: "+err.Error()))
		return
	}

	f.Set("patient_id", invoice.PatientID.String())
	f.Set("invoice_date", invoice.InvoiceDate)
	f.Set("due_date", invoice.DueDate)
	f.Set("amount", strconv.FormatFloat(invoice.Amount, 'f', 2, 64))
	f.Set("status", invoice.Status)
	f.Set("notes", invoice.Notes)

	c.JSON(http.StatusOK, handler.NewFormResponse(f, invoice))
}

func (h *Handler) EditInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewRedirectResponse("/billing", model.FlashWarning, "Invalid invoice ID."))
		return
	}

	f, err := h.newForm(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/billing", model.FlashDanger,
			"Error preparing form: "+err.Error()))
		return
	}

	f.Bind(handler.FormValues(c))
	if !f.Validate() {
		c.JSON(http.StatusBadRequest, handler.NewInvalidFormResponse(f))
		return
	}

	input, err := inputFrom(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewInvalidFormResponse(f))
		return
	}

	if err := h.billingSvc.Update(c.Request.Context(), id, input); err != nil {
		resp := handler.NewFormResponse(f, nil).WithFlash(model.FlashDanger, "Error updating invoice: "+err.Error())
		resp.Status = "error"
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	c.JSON(http.StatusOK, handler.NewRedirectResponse("/billing/"+id.String(), model.FlashSuccess,
		"Invoice updated successfully!"))
}

func (h *Handler) newForm(c *gin.Context) (*form.Form, error) {
	patients, err := h.patientSvc.Choices(c.Request.Context())
	if err != nil {
		return nil, err
	}
	f := form.InvoiceForm()
	f.SetChoices("patient_id", handler.PatientChoices(patients))
	return f, nil
}

func inputFrom(f *form.Form) (billing.Input, error) {
	patientID, err := uuid.Parse(f.Get("patient_id"))
	if err != nil {
		return billing.Input{}, err
	}
	return billing.Input{
		PatientID:   patientID,
		InvoiceDate: f.Get("invoice_date"),
		DueDate:     f.Get("due_date"),
		Amount:      f.Decimal("amount"),
		Status:      f.Get("status"),
		Notes:       f.Get("notes"),
	}, nil
}
