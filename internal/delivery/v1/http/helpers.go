package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/vismatch/go-backend/internal/usecase"
	"github.com/vismatch/go-backend/pkg/e"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// ToHTTPResponse переводит ошибку слоёв ниже в HTTP-код и сообщение.
// Прикладная ошибка апстрима отдаёт его текст дословно как 502.
func ToHTTPResponse(err error) (int, string) {
	var upstream *e.UpstreamError
	if errors.As(err, &upstream) {
		return http.StatusBadGateway, upstream.Text
	}

	switch {
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrExpectedMultipart):
		return http.StatusBadRequest, e.ErrExpectedMultipart.Error()
	case errors.Is(err, e.ErrMissingImage):
		return http.StatusBadRequest, e.ErrMissingImage.Error()
	case errors.Is(err, e.ErrMissingImageURL):
		return http.StatusBadRequest, e.ErrMissingImageURL.Error()
	case errors.Is(err, e.ErrFileTooLarge):
		return http.StatusBadRequest, e.ErrFileTooLarge.Error()
	case errors.Is(err, e.ErrMissingPath):
		return http.StatusBadRequest, e.ErrMissingPath.Error()
	case errors.Is(err, e.ErrUnknownPath):
		return http.StatusBadRequest, e.ErrUnknownPath.Error()
	case errors.Is(err, e.ErrSearchInFlight):
		return http.StatusConflict, e.ErrSearchInFlight.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.ErrExpectedMultipart
	}
	return r.ParseMultipartForm(maxMemory)
}

// parseMinSimilarity читает необязательный порог похожести из query-параметра.
// Отсутствие параметра означает порог 0: вернуть все результаты.
func parseMinSimilarity(r *http.Request) (float64, error) {
	raw := r.URL.Query().Get("min_similarity")
	if raw == "" {
		return 0, nil
	}

	minSimilarity, err := strconv.ParseFloat(raw, 64)
	if err != nil || minSimilarity < 0 || minSimilarity > 1 {
		return 0, e.ErrStatusBadRequest
	}

	return minSimilarity, nil
}

// readImageFile читает файл из multipart-формы и определяет его media type по содержимому.
func readImageFile(fh *multipart.FileHeader, maxSize int64) (*usecase.SearchByFileReq, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return usecase.NewSearchByFileReq(data, mimeType, fh.Filename), nil
}
