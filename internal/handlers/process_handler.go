package handlers

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-parser/internal/apperrors"
	"alfredoptarigan/resume-parser/internal/logger"
	"alfredoptarigan/resume-parser/internal/models"
	"alfredoptarigan/resume-parser/internal/services"
)

const (
	formFieldFile           = "pdf_doc"
	formFieldJobDescription = "job_description"
)

type ProcessHandler struct {
	storage                services.StorageService
	pdfParser              services.PDFParserService
	analyzer               services.ResumeAnalyzer
	maxUploadBytes         int64
	maxJobDescriptionChars int
	log                    logger.Logger
}

func NewProcessHandler(
	storage services.StorageService,
	pdfParser services.PDFParserService,
	analyzer services.ResumeAnalyzer,
	maxUploadBytes int64,
	maxJobDescriptionChars int,
	log logger.Logger,
) *ProcessHandler {
	return &ProcessHandler{
		storage:                storage,
		pdfParser:              pdfParser,
		analyzer:               analyzer,
		maxUploadBytes:         maxUploadBytes,
		maxJobDescriptionChars: maxJobDescriptionChars,
		log:                    log,
	}
}

// HandleProcess handles POST /process
func (h *ProcessHandler) HandleProcess(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile(formFieldFile)
	if err != nil {
		return h.fail(c, apperrors.NewValidationError(apperrors.CodeMissingFile, "No file uploaded"))
	}
	if strings.TrimSpace(fileHeader.Filename) == "" {
		return h.fail(c, apperrors.NewValidationError(apperrors.CodeMissingFile, "No file selected"))
	}
	if !services.IsPDFName(fileHeader.Filename) {
		return h.fail(c, apperrors.NewValidationError(apperrors.CodeUnsupportedFileType, "Invalid file type. Please upload a PDF file."))
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		return h.fail(c, apperrors.NewValidationError(apperrors.CodeFileTooLarge,
			fmt.Sprintf("File too large. Max size: %d bytes", h.maxUploadBytes)))
	}

	jobDescription := strings.TrimSpace(c.FormValue(formFieldJobDescription))
	if h.maxJobDescriptionChars > 0 && utf8.RuneCountInString(jobDescription) > h.maxJobDescriptionChars {
		return h.fail(c, apperrors.NewValidationError(apperrors.CodeInputTooLong,
			fmt.Sprintf("Job description is too long. Please limit to %d characters.", h.maxJobDescriptionChars)))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return h.fail(c, fmt.Errorf("failed to open uploaded file: %w", err))
	}
	defer src.Close()

	path, err := h.storage.SaveUpload(fileHeader.Filename, src)
	if err != nil {
		return h.fail(c, err)
	}
	defer func() {
		if err := h.storage.Remove(path); err != nil {
			h.log.WithError(err).Warn("failed to remove upload", map[string]interface{}{"path": path})
		}
	}()

	text, err := h.pdfParser.ExtractText(path)
	if err != nil {
		h.log.WithError(err).Warn("pdf text extraction failed", nil)
		return h.fail(c, apperrors.NewValidationError(apperrors.CodeEmptyInput,
			"Could not read the PDF. Please ensure it's a valid, text-based PDF."))
	}

	result, err := h.analyzer.Analyze(c.UserContext(), text, jobDescription)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(models.ProcessResponse{
		Filename:       services.SecureFilename(fileHeader.Filename),
		AnalysisResult: result,
	})
}

func (h *ProcessHandler) fail(c *fiber.Ctx, err error) error {
	status := apperrors.HTTPStatus(err)
	fields := map[string]interface{}{
		"status":     status,
		"kind":       string(apperrors.KindOf(err)),
		"request_id": c.GetRespHeader(fiber.HeaderXRequestID),
	}

	if status >= fiber.StatusInternalServerError {
		h.log.WithError(err).Error("request failed", fields)
	} else {
		h.log.WithError(err).Info("request rejected", fields)
	}

	return c.Status(status).JSON(fiber.Map{
		"error": apperrors.PublicMessage(err),
		"code":  status,
	})
}
