package handlers

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "lumen/internal/errors"
	"lumen/internal/models"
	"lumen/internal/services"
	"lumen/internal/session"
)

// maxAvatarBytes bounds the avatar accepted with a registration form.
const maxAvatarBytes = 5 << 20

// AuthHandler handles sign in, sign up and sign out.
type AuthHandler struct {
	auth     *services.AuthService
	sessions *session.Store
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *services.AuthService, sessions *session.Store) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions}
}

// authResponse is returned after a successful sign in or sign up.
type authResponse struct {
	Session  models.Session `json:"session"`
	Redirect string         `json:"redirect"`
}

// Page reports the current session. Browsers that are already signed in are
// sent on to their destination.
func (h *AuthHandler) Page(c *gin.Context) {
	snap := h.sessions.Snapshot()
	if snap.IsAuthenticated && prefersHTML(c) {
		c.Redirect(http.StatusFound, safeNext(c.Query("next")))
		return
	}
	respond(c, http.StatusOK, snap, nil)
}

// Login handles the sign in form.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}
	if req.UserType == "" {
		req.UserType = h.sessions.UserType()
	}

	snap, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respond(c, http.StatusOK, authResponse{Session: snap, Redirect: safeNext(c.Query("next"))}, nil)
}

// Register handles the sign up form, sent as JSON or as multipart with an
// optional "avatar" file.
func (h *AuthHandler) Register(c *gin.Context) {
	var (
		req    models.RegisterRequest
		avatar *services.Avatar
		err    error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		req, avatar, err = registerForm(c)
	} else {
		err = bindJSON(c, &req)
	}
	if err != nil {
		respondWithError(c, err)
		return
	}

	snap, err := h.auth.Register(c.Request.Context(), req, avatar)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respond(c, http.StatusCreated, authResponse{Session: snap, Redirect: "/dashboard"}, nil)
}

// Logout ends the session locally even when the backend cannot be reached.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context()); err != nil {
		respondWithError(c, err)
		return
	}
	if prefersHTML(c) {
		c.Redirect(http.StatusFound, "/auth")
		return
	}
	respond(c, http.StatusOK, h.sessions.Snapshot(), nil)
}

func registerForm(c *gin.Context) (models.RegisterRequest, *services.Avatar, error) {
	req := models.RegisterRequest{
		Email:         c.PostForm("email"),
		Password:      c.PostForm("password"),
		Name:          c.PostForm("name"),
		UserType:      models.UserType(c.PostForm("user_type")),
		Phone:         c.PostForm("phone"),
		BusinessName:  c.PostForm("business_name"),
		ContactPerson: c.PostForm("contact_person"),
		GSTIN:         c.PostForm("gstin"),
	}

	fh, err := c.FormFile("avatar")
	if err != nil {
		// No avatar attached.
		return req, nil, nil
	}
	if fh.Size > maxAvatarBytes {
		return req, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Avatar must be 5 MB or smaller")
	}
	f, err := fh.Open()
	if err != nil {
		return req, nil, apperrors.Wrap(apperrors.ErrInvalidInput, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return req, nil, apperrors.Wrap(apperrors.ErrInvalidInput, err)
	}
	return req, &services.Avatar{Filename: fh.Filename, Content: bytes.NewReader(data)}, nil
}
