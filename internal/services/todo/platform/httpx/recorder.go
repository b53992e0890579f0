package httpx

import "net/http"

// StatusRecorder remembers the status and body size a handler wrote.
type StatusRecorder struct {
	http.ResponseWriter
	Status int
	Bytes  int

	wroteHeader bool
}

// NewStatusRecorder wraps w. Status reads 200 until a header is written.
func NewStatusRecorder(w http.ResponseWriter) *StatusRecorder {
	return &StatusRecorder{ResponseWriter: w, Status: http.StatusOK}
}

// WriteHeader records the first status code written.
func (r *StatusRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.Status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *StatusRecorder) Write(p []byte) (int, error) {
	r.wroteHeader = true
	n, err := r.ResponseWriter.Write(p)
	r.Bytes += n
	return n, err
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (r *StatusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
