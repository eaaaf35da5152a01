// Package httpapi is the browser-facing driving adapter.
//
// It exposes the login routes on a gorilla/mux router, binds each browser
// to a server-side session through the signin_session cookie and
// translates AuthService results into redirects, JSON and plain text.
package httpapi
