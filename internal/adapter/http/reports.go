package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/couchcryptid/climate-projection-service/internal/domain"
	"github.com/couchcryptid/climate-projection-service/internal/report"
)

type exportBody struct {
	Year   *int   `json:"year"`
	Region string `json:"region"`
	Format string `json:"format"`
}

type shareBody struct {
	exportBody
	Email   string `json:"email"`
	Message string `json:"message"`
}

// decodeSelection validates the year, region, and format of a report body.
// Missing fields fall back to the target year, Global, and PDF.
func decodeSelection(b exportBody) (int, domain.Region, report.ExportFormat, string, error) {
	year := domain.TargetYear
	if b.Year != nil {
		year = *b.Year
	}
	if err := domain.ValidateYear(year); err != nil {
		return 0, "", "", "year_out_of_range", err
	}
	region, err := domain.ParseRegion(b.Region)
	if err != nil {
		return 0, "", "", "unknown_region", err
	}
	format, err := report.ParseFormat(b.Format)
	if err != nil {
		return 0, "", "", "unsupported_format", err
	}
	return year, region, format, "", nil
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var body exportBody
	if err := decodeBody(w, r, &body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_body", err)
		return
	}
	year, region, format, reason, err := decodeSelection(body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, reason, err)
		return
	}

	job := s.deps.Reports.StartExport(report.ExportRequest{Year: year, Region: region, Format: format})
	writeJSON(w, http.StatusAccepted, job.Snapshot())
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	var body shareBody
	if err := decodeBody(w, r, &body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if !strings.Contains(body.Email, "@") {
		s.writeError(w, http.StatusBadRequest, "invalid_email", report.ErrInvalidEmail)
		return
	}
	year, region, format, reason, err := decodeSelection(body.exportBody)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, reason, err)
		return
	}

	job := s.deps.Reports.StartShare(report.ShareRequest{
		Email:   body.Email,
		Message: body.Message,
		Format:  format,
		Year:    year,
		Region:  region,
	})
	writeJSON(w, http.StatusAccepted, job.Snapshot())
}

func (s *Server) handleRefresh(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusAccepted, s.deps.Reports.StartRefresh().Snapshot())
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.deps.Reports.Job(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, report.ErrJobNotFound) {
			s.writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		s.writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func (s *Server) handleReportFile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	path, ok := s.deps.Reports.FilePath(name)
	if !ok {
		s.writeError(w, http.StatusNotFound, "not_found", fmt.Errorf("report %q not found", name))
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, r, path)
}

// decodeBody reads a JSON request body. An empty body leaves v unchanged.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}
