package handlers

import (
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"vidhub/internal/apperr"
	"vidhub/internal/httpx"
	"vidhub/internal/service/search"
	"vidhub/internal/util"
)

type SearchHandler struct {
	ES    *elasticsearch.Client
	Index string
}

func (h *SearchHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return apperr.Validation("query parameter q is required")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, size := util.Calculate(page, size)

	total, channels, err := search.Channels(c.Request().Context(), h.ES, h.Index, q, from, size)
	if err != nil {
		return err
	}

	return httpx.OK(c, http.StatusOK, "channel search results", echo.Map{
		"total":    total,
		"channels": channels,
	})
}
