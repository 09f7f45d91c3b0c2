package middleware

import "net/http"

// Vary adds Accept to the Vary header. Error responses are negotiated between
// JSON and CBOR problem documents, so caches must key on Accept.
func Vary() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Accept")
			next.ServeHTTP(w, r)
		})
	}
}
