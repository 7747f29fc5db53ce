package common

import (
	"log"
	"net/http"

	"github.com/matst80/part-finder/pkg/common/jsoncompat"
	"github.com/matst80/part-finder/pkg/tracking"
)

// JsonHandler wraps a handler with OPTIONS/CORS handling, session cookie
// management and a JSON response writer.
func JsonHandler(trk tracking.Tracking, fn func(w http.ResponseWriter, r *http.Request, sessionId string) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			RespondToOptions(w, r)
			return
		}
		sessionId := HandleSessionCookie(trk, w, r)

		result, err := fn(w, r, sessionId)
		if err != nil {
			log.Printf("Error handling request: %v", err)
			WriteJson(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if result != nil {
			WriteJson(w, http.StatusOK, result)
		}
	}
}

func WriteJson(w http.ResponseWriter, status int, data any) {
	body, err := jsoncompat.Marshal(data)
	if err != nil {
		log.Printf("Error encoding response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Age", "0")
	w.WriteHeader(http.StatusAccepted)
}
