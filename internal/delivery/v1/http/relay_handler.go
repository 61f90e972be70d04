package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/vismatch/go-backend/internal/usecase"
	"github.com/vismatch/go-backend/pkg/e"
	"github.com/vismatch/go-backend/pkg/logger"
)

// RelayHandler — прослойка между браузером и внешним API: подставляет учётные
// данные на стороне сервера и возвращает ответ апстрима без изменений.
// Учётные данные не попадают ни в ответы, ни в логи.
type RelayHandler struct {
	recognition usecase.RecognitionInfra
	logger      logger.Logger
}

func NewRelayHandler(recognition usecase.RecognitionInfra, logger logger.Logger) *RelayHandler {
	return &RelayHandler{
		recognition: recognition,
		logger:      logger,
	}
}

// relayRequest — канонический контракт relay: JSON-тело с путём операции
// апстрима и полями, зависящими от операции.
type relayRequest struct {
	Path          string `json:"path"`
	ImageURL      string `json:"image_url,omitempty"`
	ImageBase64   string `json:"image_base64,omitempty"`
	ImageUploadID string `json:"image_upload_id,omitempty"`
	Limit         int    `json:"limit,omitempty"`
}

// relay
//
//	@Summary		Проброс запроса к внешнему API
//	@Description	Подставляет учётные данные и возвращает код и JSON-тело апстрима как есть
//	@Tags			relay
//	@Accept			json
//	@Produce		json
//	@Param			request	body		relayRequest	true	"Запрос к апстриму"
//	@Failure		400		{object}	ErrorResponse	"Отсутствующий или неизвестный path"
//	@Failure		500		{object}	ErrorResponse	"Транспортная ошибка до апстрима"
//	@Router			/imagga [post]
func (h *RelayHandler) relay(w http.ResponseWriter, r *http.Request) {
	var body relayRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	// Пустой path отклоняется до какого-либо обращения к апстриму
	if strings.TrimSpace(body.Path) == "" {
		WriteError(w, e.ErrMissingPath)
		return
	}

	res, err := h.recognition.Forward(r.Context(), &usecase.ForwardReq{
		Path:          body.Path,
		ImageURL:      body.ImageURL,
		ImageBase64:   body.ImageBase64,
		ImageUploadID: body.ImageUploadID,
		Limit:         body.Limit,
	})
	if err != nil {
		if errors.Is(err, e.ErrUnknownPath) {
			WriteError(w, err)
			return
		}

		// Транспортная ошибка до апстрима: сообщение отдаётся клиенту,
		// это внутренний инструмент
		h.logger.Warnf("relay transport failure: %v", err)
		WriteSuccess(w, http.StatusInternalServerError,
			NewErrorResponse(http.StatusInternalServerError, err.Error()))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)
	w.Write(res.Body)
}
