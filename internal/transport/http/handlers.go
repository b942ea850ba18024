package http

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
)

const maxPhotoSize = 20 << 20

// isWebP reports whether data is a RIFF container holding a WebP image.
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// heifBrands maps ISO-BMFF major brands of still images to their MIME type.
var heifBrands = map[string]string{
	"heic": "image/heic",
	"heix": "image/heic",
	"hevc": "image/heic-sequence",
	"hevx": "image/heic-sequence",
	"mif1": "image/heif",
	"msf1": "image/heif-sequence",
	"avif": "image/avif",
	"avis": "image/avif",
}

func heifMIME(data []byte) (string, bool) {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return "", false
	}
	mime, ok := heifBrands[string(data[8:12])]
	return mime, ok
}

// uploadMIME picks the type forwarded to the vision model. Sniffed image
// signatures win; otherwise the part's declared image/* type is trusted as
// long as the bytes do not sniff as something else.
func uploadMIME(data []byte, declared string) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	if mime, ok := heifMIME(data); ok {
		return mime, true
	}
	sniffed := http.DetectContentType(data)
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed, true
	}
	declared = strings.ToLower(strings.TrimSpace(strings.Split(declared, ";")[0]))
	if sniffed == "application/octet-stream" && strings.HasPrefix(declared, "image/") {
		return declared, true
	}
	return "", false
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize)
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		writeError(w, http.StatusBadRequest, "No se proporcionó ninguna imagen.", err)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No se proporcionó ninguna imagen.", err)
		return
	}
	defer closeWithLog(file, "upload file", s.logger)

	image, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "No se pudo leer la imagen.", err)
		return
	}
	if len(image) == 0 {
		writeError(w, http.StatusBadRequest, "No se proporcionó ninguna imagen.", nil)
		return
	}
	mimeType, ok := uploadMIME(image, header.Header.Get("Content-Type"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Formato de imagen no soportado.", nil)
		return
	}

	result, err := s.classifier.Classify(r.Context(), image, mimeType)
	if err != nil {
		s.logger.Error("classification failed", "error", err)
		writeError(w, statusFor(err), "Error al procesar la imagen.", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	question, err := s.questions.NextQuestion(r.Context())
	if err != nil {
		s.logger.Error("question generation failed", "error", err)
		writeError(w, statusFor(err), "Error generando quiz", err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (s *Server) handleTip(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tips.NextTip(r.Context()))
}

func (s *Server) handleSessionSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.quiz.Snapshot(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), "No se pudo leer la sesión.", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
