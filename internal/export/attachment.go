package export

import (
	"context"
	"mime"
	"net/http"
	"strconv"

	"github.com/GoSim-25-26J-441/soapgen/internal/submission"
)

// AttachmentSaver answers an HTTP request with the artifact as a download.
type AttachmentSaver struct {
	w http.ResponseWriter
}

func NewAttachmentSaver(w http.ResponseWriter) *AttachmentSaver {
	return &AttachmentSaver{w: w}
}

func (s *AttachmentSaver) Save(_ context.Context, a submission.Artifact) error {
	h := s.w.Header()
	h.Set("Content-Type", a.MediaType)
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.Name}))
	h.Set("Content-Length", strconv.Itoa(len(a.Data)))
	h.Set("Cache-Control", "no-store")
	s.w.WriteHeader(http.StatusOK)
	_, err := s.w.Write(a.Data)
	return err
}
