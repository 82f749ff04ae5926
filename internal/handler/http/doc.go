// Package http serves the local pages auth redirect links lead to.
//
// E-mail confirmation, magic-link and password-recovery links point the
// browser at the site URL. When that URL is the local callback server, the
// handlers here hand the redirect to the backend client, which adopts the
// session it carries and notifies every session listener.
package http
