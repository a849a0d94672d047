package handlers

import (
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"vidhub/internal/apperr"
	"vidhub/internal/httpx"
	"vidhub/internal/logging"
	middlewareauth "vidhub/internal/middleware/auth"
	"vidhub/internal/models"
	"vidhub/internal/service"
	"vidhub/internal/service/search"
	"vidhub/internal/util"
)

type UserHandler struct {
	Users *service.UserService
	ES    *elasticsearch.Client
	Index string
}

func (h *UserHandler) Me(c echo.Context) error {
	user, ok := middlewareauth.CurrentUser(c)
	if !ok {
		return apperr.ErrUnauthorized
	}
	return httpx.OK(c, http.StatusOK, "current user", user)
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	user, ok := middlewareauth.CurrentUser(c)
	if !ok {
		return apperr.ErrUnauthorized
	}

	var req struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("malformed request body")
	}

	updated, err := h.Users.UpdateProfile(c.Request().Context(), user.ID, req.FullName, req.Email)
	if err != nil {
		return err
	}

	h.indexChannel(c, updated)
	return httpx.OK(c, http.StatusOK, "account details updated", updated)
}

func (h *UserHandler) UpdateAvatar(c echo.Context) error {
	user, ok := middlewareauth.CurrentUser(c)
	if !ok {
		return apperr.ErrUnauthorized
	}

	upload, closeFile, err := uploadFromForm(c, "avatar")
	if err != nil {
		return err
	}
	if closeFile != nil {
		defer closeFile()
	}

	updated, err := h.Users.UpdateAvatar(c.Request().Context(), user.ID, upload)
	if err != nil {
		return err
	}

	h.indexChannel(c, updated)
	return httpx.OK(c, http.StatusOK, "avatar updated", updated)
}

func (h *UserHandler) UpdateCoverImage(c echo.Context) error {
	user, ok := middlewareauth.CurrentUser(c)
	if !ok {
		return apperr.ErrUnauthorized
	}

	upload, closeFile, err := uploadFromForm(c, "coverImage")
	if err != nil {
		return err
	}
	if closeFile != nil {
		defer closeFile()
	}

	updated, err := h.Users.UpdateCoverImage(c.Request().Context(), user.ID, upload)
	if err != nil {
		return err
	}

	return httpx.OK(c, http.StatusOK, "cover image updated", updated)
}

func (h *UserHandler) ChannelProfile(c echo.Context) error {
	viewer, ok := middlewareauth.CurrentUser(c)
	if !ok {
		return apperr.ErrUnauthorized
	}

	profile, err := h.Users.Profile(c.Request().Context(), c.Param("username"), viewer.ID)
	if err != nil {
		return err
	}

	return httpx.OK(c, http.StatusOK, "channel profile", profile)
}

func (h *UserHandler) ToggleSubscription(c echo.Context) error {
	user, ok := middlewareauth.CurrentUser(c)
	if !ok {
		return apperr.ErrUnauthorized
	}

	subscribed, err := h.Users.ToggleSubscription(c.Request().Context(), user.ID, c.Param("username"))
	if err != nil {
		return err
	}

	return httpx.OK(c, http.StatusOK, "subscription updated", echo.Map{"subscribed": subscribed})
}

func (h *UserHandler) WatchHistory(c echo.Context) error {
	user, ok := middlewareauth.CurrentUser(c)
	if !ok {
		return apperr.ErrUnauthorized
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, size := util.Calculate(page, size)

	videos, err := h.Users.WatchHistory(c.Request().Context(), user.ID, from, size)
	if err != nil {
		return err
	}

	return httpx.OK(c, http.StatusOK, "watch history", videos)
}

func (h *UserHandler) RecordWatch(c echo.Context) error {
	user, ok := middlewareauth.CurrentUser(c)
	if !ok {
		return apperr.ErrUnauthorized
	}

	videoID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return apperr.Validation("invalid video id")
	}

	if err := h.Users.RecordWatch(c.Request().Context(), user.ID, uint(videoID)); err != nil {
		return err
	}

	return httpx.OK(c, http.StatusOK, "watch recorded", nil)
}

func (h *UserHandler) indexChannel(c echo.Context, user *models.User) {
	if h.ES == nil {
		return
	}

	doc := search.ChannelDoc{
		ID:        user.ID,
		Username:  user.Username,
		FullName:  user.FullName,
		AvatarURL: user.AvatarURL,
	}
	if err := search.IndexChannel(c.Request().Context(), h.ES, h.Index, doc); err != nil {
		logging.FromContext(c.Request().Context()).Warn("channel index failed", "user_id", user.ID, "error", err)
	}
}
