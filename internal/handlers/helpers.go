package handlers

import (
	"github.com/labstack/echo/v4"

	"vidhub/internal/service"
)

// uploadFromForm reads an optional multipart file field. A missing field is
// not an error here: required-ness is the service's call.
func uploadFromForm(c echo.Context, field string) (*service.Upload, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil, nil
	}

	file, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}

	upload := &service.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Body:        file,
	}
	return upload, func() { _ = file.Close() }, nil
}
