package stub

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/healthrecords/healthrecords/internal/domain/identity"
	"github.com/healthrecords/healthrecords/internal/domain/labreport"
	"github.com/healthrecords/healthrecords/internal/domain/medicalrecord"
	"github.com/healthrecords/healthrecords/internal/domain/prescription"
	"github.com/healthrecords/healthrecords/internal/platform/wire"
)

// --- medical records ---

type medicalRecordRequest struct {
	Diagnosis string `json:"diagnosis"`
	Treatment string `json:"treatment"`
	Notes     string `json:"notes"`
	Patient   struct {
		ID int64 `json:"id"`
	} `json:"patient"`
	Doctor struct {
		ID int64 `json:"id"`
	} `json:"doctor"`
}

func (s *Server) listMedicalRecords(c echo.Context) error {
	user := currentUser(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	records := []*medicalrecord.MedicalRecord{}
	for _, r := range s.medicalRecords {
		if user.Role == identity.RoleAdmin || r.Patient.ID == user.ID || r.Doctor.ID == user.ID {
			records = append(records, r)
		}
	}
	return c.JSON(http.StatusOK, records)
}

func (s *Server) getMedicalRecord(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.medicalRecords[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "medical record not found")
	}
	s.attachChildren(record)
	return c.JSON(http.StatusOK, record)
}

// attachChildren denormalizes the record's prescriptions and lab reports,
// matching the eager fetch the real backend performs. Caller holds s.mu.
func (s *Server) attachChildren(record *medicalrecord.MedicalRecord) {
	record.Prescriptions = nil
	record.LabReports = nil
	for _, p := range s.prescriptions {
		if p.MedicalRecordID == record.ID {
			record.Prescriptions = append(record.Prescriptions, *p)
		}
	}
	for _, r := range s.labReports {
		if r.MedicalRecordID == record.ID {
			record.LabReports = append(record.LabReports, *r)
		}
	}
}

func (s *Server) createMedicalRecord(c echo.Context) error {
	role := currentUser(c).Role
	if role != identity.RoleDoctor && role != identity.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "doctor or admin access required")
	}
	var req medicalRecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	patient, ok := s.users[req.Patient.ID]
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "patient not found")
	}
	doctor, ok := s.users[req.Doctor.ID]
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "doctor not found")
	}
	now := s.now()
	record := &medicalrecord.MedicalRecord{
		ID:        s.newID(),
		Diagnosis: req.Diagnosis,
		Treatment: req.Treatment,
		Notes:     req.Notes,
		Patient:   *patient,
		Doctor:    *doctor,
		CreatedAt: wire.NewDateTime(now),
		UpdatedAt: wire.NewDateTime(now),
	}
	s.medicalRecords[record.ID] = record
	return c.JSON(http.StatusCreated, record)
}

func (s *Server) updateMedicalRecord(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req medicalRecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.medicalRecords[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "medical record not found")
	}
	if req.Diagnosis != "" {
		record.Diagnosis = req.Diagnosis
	}
	if req.Treatment != "" {
		record.Treatment = req.Treatment
	}
	if req.Notes != "" {
		record.Notes = req.Notes
	}
	record.UpdatedAt = wire.NewDateTime(s.now())
	return c.JSON(http.StatusOK, record)
}

func (s *Server) deleteMedicalRecord(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.medicalRecords[id]; !ok {
		return echo.NewHTTPError(http.StatusNotFound, "medical record not found")
	}
	delete(s.medicalRecords, id)
	return c.NoContent(http.StatusNoContent)
}

// --- lab reports ---

// bindMeta decodes the named JSON metadata part of a multipart submission,
// falling back to the request body for plain JSON requests.
func bindMeta(c echo.Context, part string, out interface{}) error {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(ct, echo.MIMEMultipartForm) {
		raw := c.FormValue(part)
		if raw == "" {
			return echo.NewHTTPError(http.StatusBadRequest, part+" part is required")
		}
		if err := json.Unmarshal([]byte(raw), out); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return nil
	}
	if err := c.Bind(out); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// attachedFile reads the optional "file" multipart part.
func attachedFile(c echo.Context) (name, contentType string, data []byte, err error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", "", nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return "", "", nil, err
	}
	defer f.Close()
	data, err = io.ReadAll(f)
	if err != nil {
		return "", "", nil, err
	}
	return fh.Filename, fh.Header.Get(echo.HeaderContentType), data, nil
}

func (s *Server) listLabReports(c echo.Context) error {
	user := currentUser(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	reports := []*labreport.LabReport{}
	for _, r := range s.labReports {
		if user.Role == identity.RoleAdmin || r.Patient.ID == user.ID || r.Doctor.ID == user.ID {
			reports = append(reports, r)
		}
	}
	return c.JSON(http.StatusOK, reports)
}

func (s *Server) labReportsByPatient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	reports := []*labreport.LabReport{}
	for _, r := range s.labReports {
		if r.Patient.ID == id {
			reports = append(reports, r)
		}
	}
	return c.JSON(http.StatusOK, reports)
}

func (s *Server) labReportsByDoctor(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	reports := []*labreport.LabReport{}
	for _, r := range s.labReports {
		if r.Doctor.ID == id {
			reports = append(reports, r)
		}
	}
	return c.JSON(http.StatusOK, reports)
}

func (s *Server) getLabReport(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	report, ok := s.labReports[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "lab report not found")
	}
	return c.JSON(http.StatusOK, report)
}

func (s *Server) downloadLabReport(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	report, ok := s.labReports[id]
	data := s.labFiles[id]
	s.mu.Unlock()
	if !ok || data == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no file attached")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+report.FileName+`"`)
	return c.Blob(http.StatusOK, report.FileType, data)
}

func (s *Server) createLabReport(c echo.Context) error {
	role := currentUser(c).Role
	if role != identity.RoleDoctor && role != identity.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "doctor or admin access required")
	}
	var req labreport.CreateRequest
	if err := bindMeta(c, "labReport", &req); err != nil {
		return err
	}
	fileName, fileType, fileData, err := attachedFile(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	patient, ok := s.users[req.Patient.ID]
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "patient not found")
	}
	doctor, ok := s.users[req.Doctor.ID]
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "doctor not found")
	}
	now := s.now()
	report := &labreport.LabReport{
		ID:              s.newID(),
		Patient:         *patient,
		Doctor:          *doctor,
		MedicalRecordID: req.MedicalRecordID,
		TestName:        req.TestName,
		TestResults:     req.TestResults,
		TestDate:        req.TestDate,
		ReportDate:      req.ReportDate,
		CreatedAt:       wire.NewDateTime(now),
		UpdatedAt:       wire.NewDateTime(now),
	}
	if fileData != nil {
		report.FileName = fileName
		report.FileType = fileType
		report.FileSize = int64(len(fileData))
		report.FileURL = "/lab-reports/" + itoa(report.ID) + "/download"
		s.labFiles[report.ID] = fileData
	}
	s.labReports[report.ID] = report
	return c.JSON(http.StatusCreated, report)
}

func (s *Server) updateLabReport(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req labreport.CreateRequest
	if err := bindMeta(c, "labReport", &req); err != nil {
		return err
	}
	fileName, fileType, fileData, err := attachedFile(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	report, ok := s.labReports[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "lab report not found")
	}
	if req.TestName != "" {
		report.TestName = req.TestName
	}
	if req.TestResults != "" {
		report.TestResults = req.TestResults
	}
	if !req.TestDate.IsZero() {
		report.TestDate = req.TestDate
	}
	if !req.ReportDate.IsZero() {
		report.ReportDate = req.ReportDate
	}
	if fileData != nil {
		report.FileName = fileName
		report.FileType = fileType
		report.FileSize = int64(len(fileData))
		report.FileURL = "/lab-reports/" + itoa(id) + "/download"
		s.labFiles[id] = fileData
	}
	report.UpdatedAt = wire.NewDateTime(s.now())
	return c.JSON(http.StatusOK, report)
}

func (s *Server) deleteLabReport(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.labReports[id]; !ok {
		return echo.NewHTTPError(http.StatusNotFound, "lab report not found")
	}
	delete(s.labReports, id)
	delete(s.labFiles, id)
	return c.NoContent(http.StatusNoContent)
}

// --- prescriptions ---

func (s *Server) listPrescriptions(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prescriptions := []*prescription.Prescription{}
	for _, p := range s.prescriptions {
		prescriptions = append(prescriptions, p)
	}
	return c.JSON(http.StatusOK, prescriptions)
}

func (s *Server) prescriptionsByPatient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prescriptions := []*prescription.Prescription{}
	for _, p := range s.prescriptions {
		record, ok := s.medicalRecords[p.MedicalRecordID]
		if ok && record.Patient.ID == id {
			prescriptions = append(prescriptions, p)
		}
	}
	return c.JSON(http.StatusOK, prescriptions)
}

func (s *Server) prescriptionsByDoctor(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prescriptions := []*prescription.Prescription{}
	for _, p := range s.prescriptions {
		record, ok := s.medicalRecords[p.MedicalRecordID]
		if ok && record.Doctor.ID == id {
			prescriptions = append(prescriptions, p)
		}
	}
	return c.JSON(http.StatusOK, prescriptions)
}

func (s *Server) prescriptionsByMedicalRecord(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prescriptions := []*prescription.Prescription{}
	for _, p := range s.prescriptions {
		if p.MedicalRecordID == id {
			prescriptions = append(prescriptions, p)
		}
	}
	return c.JSON(http.StatusOK, prescriptions)
}

func (s *Server) getPrescription(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prescriptions[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "prescription not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) downloadPrescription(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	p, ok := s.prescriptions[id]
	data := s.rxFiles[id]
	s.mu.Unlock()
	if !ok || data == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no file attached")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+p.FileName+`"`)
	return c.Blob(http.StatusOK, p.FileType, data)
}

func (s *Server) createPrescription(c echo.Context) error {
	role := currentUser(c).Role
	if role != identity.RoleDoctor && role != identity.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "doctor or admin access required")
	}
	var req prescription.CreateRequest
	if err := bindMeta(c, "prescription", &req); err != nil {
		return err
	}
	fileName, fileType, fileData, err := attachedFile(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	p := &prescription.Prescription{
		ID:              s.newID(),
		MedicalRecordID: req.MedicalRecordID,
		MedicationName:  req.MedicationName,
		Dosage:          req.Dosage,
		Instructions:    req.Instructions,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		CreatedAt:       wire.NewDateTime(now),
		UpdatedAt:       wire.NewDateTime(now),
	}
	if record, ok := s.medicalRecords[req.MedicalRecordID]; ok {
		p.PatientName = record.Patient.FullName()
		p.DoctorName = record.Doctor.FullName()
	}
	if fileData != nil {
		p.FileName = fileName
		p.FileType = fileType
		p.FileSize = int64(len(fileData))
		p.FileURL = "/prescriptions/" + itoa(p.ID) + "/download"
		s.rxFiles[p.ID] = fileData
	}
	s.prescriptions[p.ID] = p
	return c.JSON(http.StatusCreated, p)
}

func (s *Server) updatePrescription(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req prescription.CreateRequest
	if err := bindMeta(c, "prescription", &req); err != nil {
		return err
	}
	fileName, fileType, fileData, err := attachedFile(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prescriptions[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "prescription not found")
	}
	if req.MedicationName != "" {
		p.MedicationName = req.MedicationName
	}
	if req.Dosage != "" {
		p.Dosage = req.Dosage
	}
	if req.Instructions != "" {
		p.Instructions = req.Instructions
	}
	if !req.StartDate.IsZero() {
		p.StartDate = req.StartDate
	}
	if !req.EndDate.IsZero() {
		p.EndDate = req.EndDate
	}
	if fileData != nil {
		p.FileName = fileName
		p.FileType = fileType
		p.FileSize = int64(len(fileData))
		p.FileURL = "/prescriptions/" + itoa(id) + "/download"
		s.rxFiles[id] = fileData
	}
	p.UpdatedAt = wire.NewDateTime(s.now())
	return c.JSON(http.StatusOK, p)
}

func (s *Server) deletePrescription(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.prescriptions[id]; !ok {
		return echo.NewHTTPError(http.StatusNotFound, "prescription not found")
	}
	delete(s.prescriptions, id)
	delete(s.rxFiles, id)
	return c.NoContent(http.StatusNoContent)
}
