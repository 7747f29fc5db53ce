package server

import (
	"io"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/matst80/part-finder/pkg/common/jsoncompat"
)

type SetFilterRequest struct {
	Key   string `json:"key" schema:"key"`
	Value string `json:"value" schema:"value"`
}

type SearchDraftRequest struct {
	Text string `json:"text" schema:"text"`
}

type VehicleRequest struct {
	Year  string `json:"year" schema:"year"`
	Make  string `json:"make" schema:"make"`
	Model string `json:"model" schema:"model"`
	Trim  string `json:"trim" schema:"trim"`
}

// decodeRequest fills dst from the query string on GET and from the JSON
// body otherwise.
func decodeRequest(r *http.Request, dst any) error {
	if r.Method == http.MethodGet || r.Body == nil || r.ContentLength == 0 {
		decoder := schema.NewDecoder()
		decoder.IgnoreUnknownKeys(true)
		return decoder.Decode(dst, r.URL.Query())
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	return jsoncompat.Unmarshal(body, dst)
}
