package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"vidhub/internal/apperr"
	"vidhub/internal/httpx"
	"vidhub/internal/logging"
	middlewareauth "vidhub/internal/middleware/auth"
	"vidhub/internal/models"
	"vidhub/internal/mykafka"
	"vidhub/internal/service"
	"vidhub/internal/service/search"
)

type AuthHandler struct {
	Auth     *service.AuthService
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	Index    string
}

func (h *AuthHandler) Register(c echo.Context) error {
	in := service.RegisterInput{
		FullName: c.FormValue("fullName"),
		Username: c.FormValue("username"),
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	}

	avatar, closeAvatar, err := uploadFromForm(c, "avatar")
	if err != nil {
		return err
	}
	if closeAvatar != nil {
		defer closeAvatar()
	}
	in.Avatar = avatar

	cover, closeCover, err := uploadFromForm(c, "coverImage")
	if err != nil {
		return err
	}
	if closeCover != nil {
		defer closeCover()
	}
	in.CoverImage = cover

	user, err := h.Auth.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}

	h.publishUserEvent(c, "user_registered", user)
	h.indexChannel(c, user)

	return httpx.OK(c, http.StatusCreated, "user registered successfully", user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Identifier string `json:"identifier"`
		Username   string `json:"username"`
		Email      string `json:"email"`
		Password   string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("malformed request body")
	}

	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Username
	}
	if identifier == "" {
		identifier = req.Email
	}

	result, err := h.Auth.Login(c.Request().Context(), identifier, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(httpx.CreateCookie("accessToken", result.AccessToken, "/", result.AccessExp))
	c.SetCookie(httpx.CreateCookie("refreshToken", result.RefreshToken, "/", result.RefreshExp))

	h.publishUserEvent(c, "user_logged_in", result.User)

	return httpx.OK(c, http.StatusOK, "user logged in successfully", echo.Map{
		"user":         result.User,
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	user, ok := middlewareauth.CurrentUser(c)
	if !ok {
		return apperr.ErrUnauthorized
	}

	if err := h.Auth.Logout(c.Request().Context(), user.ID); err != nil {
		return err
	}

	c.SetCookie(httpx.DeleteCookie("accessToken", "/"))
	c.SetCookie(httpx.DeleteCookie("refreshToken", "/"))

	h.publishUserEvent(c, "user_logged_out", user)

	return httpx.OK(c, http.StatusOK, "user logged out", nil)
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	presented := ""
	if cookie, err := c.Cookie("refreshToken"); err == nil {
		presented = cookie.Value
	}
	if presented == "" {
		var req struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.Bind(&req); err == nil {
			presented = req.RefreshToken
		}
	}

	result, err := h.Auth.Refresh(c.Request().Context(), presented)
	if err != nil {
		return err
	}

	c.SetCookie(httpx.CreateCookie("accessToken", result.AccessToken, "/", result.AccessExp))
	c.SetCookie(httpx.CreateCookie("refreshToken", result.RefreshToken, "/", result.RefreshExp))

	return httpx.OK(c, http.StatusOK, "access token refreshed", echo.Map{
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
	})
}

func (h *AuthHandler) ChangePassword(c echo.Context) error {
	user, ok := middlewareauth.CurrentUser(c)
	if !ok {
		return apperr.ErrUnauthorized
	}

	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("malformed request body")
	}

	if err := h.Auth.ChangePassword(c.Request().Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}

	return httpx.OK(c, http.StatusOK, "password changed successfully", nil)
}

func (h *AuthHandler) publishUserEvent(c echo.Context, eventType string, user *models.User) {
	if h.Producer == nil {
		return
	}

	event := map[string]interface{}{
		"type":     eventType,
		"userId":   user.ID,
		"username": user.Username,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(user.ID), event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("kafka publish failed", "type", eventType, "error", err)
	}
}

func (h *AuthHandler) indexChannel(c echo.Context, user *models.User) {
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
