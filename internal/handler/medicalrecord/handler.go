package medicalrecord

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medhq/hospital-api/internal/authz"
	"github.com/medhq/hospital-api/internal/form"
	"github.com/medhq/hospital-api/internal/handler"
	"github.com/medhq/hospital-api/internal/model"
	"github.com/medhq/hospital-api/internal/service/doctor"
	"github.com/medhq/hospital-api/internal/service/medicalrecord"
	"github.com/medhq/hospital-api/internal/service/patient"
	"github.com/medhq/hospital-api/internal/store"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

type Handler struct {
	recordSvc  *medicalrecord.Service
	patientSvc *patient.Service
	doctorSvc  *doctor.Service
}

func NewHandler(recordSvc *medicalrecord.Service, patientSvc *patient.Service, doctorSvc *doctor.Service) *Handler {
	return &Handler{recordSvc: recordSvc, patientSvc: patientSvc, doctorSvc: doctorSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	records := r.Group("/medical-records")
	{
		records.GET("", h.ListRecords)
		records.GET("/add", h.AddRecordForm)
		records.POST("/add", h.AddRecord)
		records.GET("/patient/:patientID", h.PatientRecords)
		records.GET("/:id", h.ViewRecord)
		records.GET("/:id/edit", h.EditRecordForm)
		records.POST("/:id/edit", h.EditRecord)
		records.POST("/:id/delete", h.DeleteRecord)
	}
}

func (h *Handler) ListRecords(c *gin.Context) {
	records, err := h.recordSvc.List(c.Request.Context())
	if err != nil {
		resp := handler.NewErrorResponse("Error fetching medical records: " + err.Error())
		resp.Data = []model.MedicalRecord{}
		resp.Flash = &model.Flash{Category: model.FlashDanger, Message: "Error fetching medical records: " + err.Error()}
		c.JSON(http.StatusOK, resp)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(records))
}

func (h *Handler) AddRecordForm(c *gin.Context) {
	f, err := h.newForm(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/medical-records", model.FlashDanger,
			"Error preparing form: "+err.Error()))
		return
	}

	var data interface{}
	if raw := c.Query("patient_id"); raw != "" {
		patientID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewRedirectResponse("/patients", model.FlashWarning, "Invalid patient ID."))
			return
		}
		p, err := h.patientSvc.Get(c.Request.Context(), patientID)
		if err != nil {
			c.JSON(http.StatusNotFound, handler.NewRedirectResponse("/patients", model.FlashWarning, "Patient not found."))
			return
		}
		f.Set("patient_id", p.ID.String())
		data = p
	}

	c.JSON(http.StatusOK, handler.NewFormResponse(f, data))
}

func (h *Handler) AddRecord(c *gin.Context) {
	f, err := h.newForm(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/medical-records", model.FlashDanger,
			"Error preparing form: "+err.Error()))
		return
	}

	f.Bind(handler.FormValues(c))
	attachment, attachErr := readAttachment(c)
	if !f.Validate() || attachErr != "" {
		if attachErr != "" {
			f.Errors["attachment"] = attachErr
		}
		c.JSON(http.StatusBadRequest, handler.NewInvalidFormResponse(f))
		return
	}

	input, err := inputFrom(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewInvalidFormResponse(f))
		return
	}

	actor := handler.IdentityFrom(c)
	if _, err := h.recordSvc.Create(c.Request.Context(), actor, input, attachment); err != nil {
		resp := handler.NewFormResponse(f, nil).WithFlash(model.FlashDanger, "Error adding medical record: "+err.Error())
		resp.Status = "error"
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	target := "/medical-records"
	if c.Query("patient_id") != "" {
		target = "/medical-records/patient/" + f.Get("patient_id")
	}
	c.JSON(http.StatusOK, handler.NewRedirectResponse(target, model.FlashSuccess, "Medical record added successfully!"))
}

// PatientRecords lists one patient's records newest first.
func (h *Handler) PatientRecords(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("patientID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewRedirectResponse("/patients", model.FlashWarning, "Invalid patient ID."))
		return
	}

	p, err := h.patientSvc.Get(c.Request.Context(), patientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, handler.NewRedirectResponse("/patients", model.FlashWarning, "Patient not found."))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/patients", model.FlashDanger,
			"Error fetching patient: "+err.Error()))
		return
	}

	records, err := h.recordSvc.ForPatient(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/patients/"+patientID.String(), model.FlashDanger,
			"Error fetching medical records: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"patient": p,
		"records": records,
	}))
}

func (h *Handler) ViewRecord(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewRedirectResponse("/medical-records", model.FlashWarning, "Invalid record ID."))
		return
	}

	record, err := h.recordSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, handler.NewRedirectResponse("/medical-records", model.FlashWarning, "Medical record not found."))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/medical-records", model.FlashDanger,
			"Error fetching medical record: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(record))
}

func (h *Handler) EditRecordForm(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewRedirectResponse("/medical-records", model.FlashWarning, "Invalid record ID."))
		return
	}

	record, err := h.recordSvc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, handler.NewRedirectResponse("/medical-records", model.FlashWarning, "Medical record not found."))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/medical-records", model.FlashDanger,
			"Error fetching medical record: "+err.Error()))
		return
	}

	f, err := h.newForm(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/medical-records", model.FlashDanger,
			"Error preparing form: "+err.Error()))
		return
	}

	f.Set("patient_id", record.PatientID.String())
	f.Set("doctor_id", record.DoctorID.String())
	f.Set("record_type", record.RecordType)
	f.Set("diagnosis", record.Diagnosis)
	f.Set("treatment", record.Treatment)
	f.Set("notes", record.Notes)
	f.Set("record_date", record.RecordDate)

	c.JSON(http.StatusOK, handler.NewFormResponse(f, record))
}

func (h *Handler) EditRecord(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewRedirectResponse("/medical-records", model.FlashWarning, "Invalid record ID."))
		return
	}

	f, err := h.newForm(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse("/medical-records", model.FlashDanger,
			"Error preparing form: "+err.Error()))
		return
	}

	f.Bind(handler.FormValues(c))
	attachment, attachErr := readAttachment(c)
	if !f.Validate() || attachErr != "" {
		if attachErr != "" {
			f.Errors["attachment"] = attachErr
		}
		c.JSON(http.StatusBadRequest, handler.NewInvalidFormResponse(f))
		return
	}

	input, err := inputFrom(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewInvalidFormResponse(f))
		return
	}

	actor := handler.IdentityFrom(c)
	if err := h.recordSvc.Update(c.Request.Context(), actor, id, input, attachment); err != nil {
		resp := handler.NewFormResponse(f, nil).WithFlash(model.FlashDanger, "Error updating medical record: "+err.Error())
		resp.Status = "error"
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	c.JSON(http.StatusOK, handler.NewRedirectResponse("/medical-records/"+id.String(), model.FlashSuccess,
		"Medical record updated successfully!"))
}

// DeleteRecord is restricted to admins and doctors. An optional
// ?patient_id query routes the redirect back to the patient's records.
func (h *Handler) DeleteRecord(c *gin.Context) {
	actor := handler.IdentityFrom(c)
	if !authz.Can(actor.Role, authz.RecordDelete) {
		c.JSON(http.StatusForbidden, handler.NewRedirectResponse("/medical-records", model.FlashWarning,
			"You do not have permission to delete medical records."))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewRedirectResponse("/medical-records", model.FlashWarning, "Invalid record ID."))
		return
	}

	target := "/medical-records"
	if pid := c.Query("patient_id"); pid != "" {
		target = "/medical-records/patient/" + pid
	}

	if err := h.recordSvc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, handler.NewRedirectResponse(target, model.FlashWarning, "Medical record not found."))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewRedirectResponse(target, model.FlashDanger,
			"Error deleting medical record: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewRedirectResponse(target, model.FlashSuccess, "Medical record deleted successfully!"))
}

func (h *Handler) newForm(c *gin.Context) (*form.Form, error) {
	patients, err := h.patientSvc.Choices(c.Request.Context())
	if err != nil {
		return nil, err
	}
	doctors, err := h.doctorSvc.List(c.Request.Context())
	if err != nil {
		return nil, err
	}
	f := form.MedicalRecordForm()
	f.SetChoices("patient_id", handler.PatientChoices(patients))
	f.SetChoices("doctor_id", handler.UserChoices(doctors))
	return f, nil
}

// readAttachment pulls the optional upload out of the multipart body.
// The second return value is a field error message, empty when the file
// is absent or acceptable.
func readAttachment(c *gin.Context) (*medicalrecord.Attachment, string) {
	fileHeader, err := c.FormFile("attachment")
	if err != nil {
		return nil, ""
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		return nil, "Images and documents only!"
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "Could not read the uploaded file."
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "Could not read the uploaded file."
	}

	return &medicalrecord.Attachment{Filename: fileHeader.Filename, Data: data}, ""
}

func inputFrom(f *form.Form) (medicalrecord.Input, error) {
	patientID, err := uuid.Parse(f.Get("patient_id"))
	if err != nil {
		return medicalrecord.Input{}, err
	}
	doctorID, err := uuid.Parse(f.Get("doctor_id"))
	if err != nil {
		return medicalrecord.Input{}, err
	}
	return medicalrecord.Input{
		PatientID:  patientID,
		DoctorID:   doctorID,
		RecordType: f.Get("record_type"),
		Diagnosis:  f.Get("diagnosis"),
		Treatment:  f.Get("treatment"),
		Notes:      f.Get("notes"),
		RecordDate: f.Get("record_date"),
	}, nil
}
