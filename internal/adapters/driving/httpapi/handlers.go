package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	router "github.com/gorilla/mux"

	"github.com/custodia-labs/signin/internal/core/domain"
	"github.com/custodia-labs/signin/internal/core/ports/driving"
	"github.com/custodia-labs/signin/internal/logger"
)

// Route paths.
const (
	PathIndex      = "/"
	PathLogin      = "/login"
	PathLogout     = "/logout"
	PathAuthorized = "/login/authorized"
	PathToken      = "/token"
)

// Options tune how the handler builds URLs and cookies.
type Options struct {
	// PublicURL is the externally visible base URL. Empty derives the
	// callback URL from the request's scheme and host.
	PublicURL string
	// SecureCookie always marks the session cookie Secure.
	SecureCookie bool
}

// Handler serves the login routes.
type Handler struct {
	auth driving.AuthService
	opts Options
}

// NewHandler creates a Handler backed by auth.
func NewHandler(auth driving.AuthService, opts Options) *Handler {
	opts.PublicURL = strings.TrimRight(opts.PublicURL, "/")
	return &Handler{auth: auth, opts: opts}
}

// NewRouter returns the HTTP handler for all routes.
func NewRouter(h *Handler) http.Handler {
	r := router.NewRouter()
	r.Use(loggingMiddleware)

	r.HandleFunc(PathIndex, h.index).Methods(http.MethodGet)
	r.HandleFunc(PathLogin, h.login).Methods(http.MethodGet)
	r.HandleFunc(PathLogout, h.logout).Methods(http.MethodGet)
	r.HandleFunc(PathAuthorized, h.authorized).Methods(http.MethodGet)
	r.HandleFunc(PathToken, h.token).Methods(http.MethodGet)

	return r
}

// session returns the caller's session ID, issuing a new one and setting
// the cookie when the request carries none.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) string {
	if id, ok := readSessionCookie(r); ok {
		return id
	}
	id := uuid.NewString()
	writeSessionCookie(w, r, id, h.opts.SecureCookie)
	return id
}

// callbackURL is the absolute URL of the authorized route.
func (h *Handler) callbackURL(r *http.Request) string {
	if h.opts.PublicURL != "" {
		return h.opts.PublicURL + PathAuthorized
	}
	scheme := "http"
	if isHTTPS(r) {
		scheme = "https"
	}
	return scheme + "://" + r.Host + PathAuthorized
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	result, err := h.auth.Index(r.Context(), h.session(w, r))
	if errors.Is(err, domain.ErrAuthRequired) {
		http.Redirect(w, r, PathLogin, http.StatusFound)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"info was received": map[string]any{
			"data":    result.UserInfo,
			"session": result.Session,
		},
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	authURL, err := h.auth.Login(r.Context(), h.session(w, r), h.callbackURL(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), h.session(w, r)); err != nil {
		writeError(w, r, err)
		return
	}
	http.Redirect(w, r, PathIndex, http.StatusFound)
}

func (h *Handler) authorized(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := driving.CallbackParams{
		Code:             q.Get("code"),
		State:            q.Get("state"),
		Error:            q.Get("error"),
		ErrorReason:      q.Get("error_reason"),
		ErrorDescription: q.Get("error_description"),
	}

	info, err := h.auth.Authorized(r.Context(), h.session(w, r), h.callbackURL(r), params)
	var denied *domain.AccessDeniedError
	switch {
	case errors.As(err, &denied):
		writeText(w, http.StatusOK, denied.Error())
		return
	case errors.Is(err, domain.ErrStateMismatch):
		writeText(w, http.StatusBadRequest, domain.ErrStateMismatch.Error())
		return
	case err != nil:
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": info})
}

func (h *Handler) token(w http.ResponseWriter, r *http.Request) {
	token, err := h.auth.Token(r.Context(), h.session(w, r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	// A nil token encodes as null.
	writeJSON(w, http.StatusOK, token)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encoding response: %v", err)
	}
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

// writeError logs err and answers 500 without exposing details to the browser.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger.Error("%s %s: %v", r.Method, r.URL.Path, err)
	writeText(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
