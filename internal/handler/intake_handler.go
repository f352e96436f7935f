package handler

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"propfolio/internal/middleware"
	"propfolio/internal/service"
)

// maxBatchFiles caps how many documents a single intake request can carry.
const maxBatchFiles = 20

// IntakeHandler handles document intake batch requests.
type IntakeHandler struct {
	intakeService service.IntakeService
}

// NewIntakeHandler creates a new IntakeHandler.
func NewIntakeHandler(intakeService service.IntakeService) *IntakeHandler {
	return &IntakeHandler{intakeService: intakeService}
}

// ProcessBatch accepts a multipart batch of property documents, runs the
// extraction pipeline on each, and returns the consolidated output.
func (h *IntakeHandler) ProcessBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_MULTIPART", "could not parse multipart form")
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) > maxBatchFiles {
		RespondError(c, http.StatusBadRequest, "BATCH_TOO_LARGE", "too many files in batch")
		return
	}

	input := &service.IntakeBatchInput{
		SubmittedBy: middleware.GetSubject(c),
		Files:       make([]service.BatchFile, 0, len(fileHeaders)),
	}
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_FILE", "could not open uploaded file: "+fh.Filename)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_FILE", "could not read uploaded file: "+fh.Filename)
			return
		}
		input.Files = append(input.Files, service.BatchFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	output, err := h.intakeService.ProcessBatch(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	log.Printf("IntakeHandler: batch processed, %d documents consolidated, %d failures",
		len(output.Metadata.DocumentsProcessed), len(output.Errors))
	RespondOK(c, output)
}
