package http

import (
	"io"
	"mime/multipart"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"

	"driver-license-portal/internal/domain/errs"
	"driver-license-portal/internal/usecase/intake"
)

var errInvalidBody = errs.Validation("Invalid request body")

// bindValid binds the JSON body into req and runs the validator over it.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errInvalidBody
	}
	if err := c.Validate(req); err != nil {
		fields := ToFieldErrors(err)
		if missing := missingFields(fields); len(missing) > 0 {
			return errs.Validation("Missing required fields: %s", strings.Join(missing, ", ")).With("fields", fields)
		}
		return errs.Validation("Validation failed").With("fields", fields)
	}
	return nil
}

// uploadForm is a parsed multipart request: the identifying form values
// plus one open file per file field. Close must be called.
type uploadForm struct {
	NationalID  string
	LicenseType string
	Files       []intake.Upload
	closers     []io.Closer
}

func (f *uploadForm) Close() {
	for _, c := range f.closers {
		_ = c.Close()
	}
}

func readUploadForm(c echo.Context) (*uploadForm, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, errs.Validation("Expected a multipart form")
	}
	out := &uploadForm{
		NationalID:  strings.TrimSpace(first(form.Value["nationalId"])),
		LicenseType: strings.TrimSpace(first(form.Value["licenseType"])),
	}
	var missing []string
	if out.NationalID == "" {
		missing = append(missing, "nationalId")
	}
	if out.LicenseType == "" {
		missing = append(missing, "licenseType")
	}
	if len(missing) > 0 {
		return nil, errs.Validation("Missing required fields: %s", strings.Join(missing, ", ")).With("missing", missing)
	}

	kinds := make([]string, 0, len(form.File))
	for k := range form.File {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		if !intake.ValidKind(kind) {
			out.Close()
			return nil, errs.Validation("Invalid file field %q", kind).With("field", kind)
		}
		hs := form.File[kind]
		if len(hs) == 0 {
			continue
		}
		if err := out.add(kind, hs[0]); err != nil {
			out.Close()
			return nil, err
		}
	}
	return out, nil
}

func (f *uploadForm) add(kind string, h *multipart.FileHeader) error {
	src, err := h.Open()
	if err != nil {
		return errs.Internal("Failed to upload %s", kind).With("field", kind)
	}
	f.closers = append(f.closers, src)
	f.Files = append(f.Files, intake.Upload{Kind: kind, FileName: h.Filename, Size: h.Size, Body: src})
	return nil
}

func first(v []string) string {
	if len(v) == 0 {
		return ""
	}
	return v[0]
}
