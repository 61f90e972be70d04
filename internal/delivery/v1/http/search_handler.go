package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vismatch/go-backend/internal/domain"
	"github.com/vismatch/go-backend/internal/usecase"
	"github.com/vismatch/go-backend/pkg/e"
	"github.com/vismatch/go-backend/pkg/logger"
)

type SearchHandler struct {
	searchUC    usecase.SearchUC
	catalogRepo usecase.CatalogRepository
	logger      logger.Logger
}

func NewSearchHandler(searchUC usecase.SearchUC, catalogRepo usecase.CatalogRepository, logger logger.Logger) *SearchHandler {
	return &SearchHandler{
		searchUC:    searchUC,
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

type searchByURLRequest struct {
	ImageURL string `json:"image_url"`
}

type SearchResponse struct {
	Results []domain.RankedProduct `json:"results"`
}

type SessionResponse struct {
	State   string                 `json:"state"`
	Message string                 `json:"message,omitempty"`
	Results []domain.RankedProduct `json:"results,omitempty"`
}

// searchByFile
//
//	@Summary		Поиск похожих товаров по файлу изображения
//	@Description	Загружает изображение во внешнее API и возвращает ранжированный список похожих товаров каталога
//	@Tags			search
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			image			formData	file	true	"Файл изображения"
//	@Param			min_similarity	query		number	false	"Порог похожести [0,1]"
//	@Success		200				{object}	SearchResponse
//	@Success		204				"Файл не является изображением"
//	@Failure		400				{object}	ErrorResponse
//	@Failure		409				{object}	ErrorResponse	"Поиск уже выполняется"
//	@Failure		502				{object}	ErrorResponse	"Прикладная ошибка внешнего API"
//	@Router			/search [post]
func (h *SearchHandler) searchByFile(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 20 << 20
		maxMemory           = 8 << 20
		maxFileSize         = 15 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		WriteError(w, e.ErrMissingImage)
		return
	}

	req, err := readImageFile(files[0], maxFileSize)
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	h.respondSearch(w, r, func() (*usecase.SearchRes, error) {
		return h.searchUC.SearchByFile(r.Context(), req)
	})
}

// searchByURL
//
//	@Summary	Поиск похожих товаров по URL изображения
//	@Tags		search
//	@Accept		json
//	@Produce	json
//	@Param		request			body	searchByURLRequest	true	"URL изображения"
//	@Param		min_similarity	query	number				false	"Порог похожести [0,1]"
//	@Success	200				{object}	SearchResponse
//	@Success	204				"Пустой URL"
//	@Failure	400				{object}	ErrorResponse
//	@Failure	409				{object}	ErrorResponse
//	@Failure	502				{object}	ErrorResponse
//	@Router		/search/url [post]
func (h *SearchHandler) searchByURL(w http.ResponseWriter, r *http.Request) {
	var body searchByURLRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	h.respondSearch(w, r, func() (*usecase.SearchRes, error) {
		return h.searchUC.SearchByURL(r.Context(), usecase.NewSearchByURLReq(body.ImageURL))
	})
}

// respondSearch выполняет поиск и пишет ответ с применённым порогом похожести.
// Ошибки валидации ввода по контракту игнорируются молча: 204 без тела и без
// изменения состояния сессии.
func (h *SearchHandler) respondSearch(w http.ResponseWriter, r *http.Request, search func() (*usecase.SearchRes, error)) {
	minSimilarity, err := parseMinSimilarity(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	res, err := search()
	if err != nil {
		if errors.Is(err, e.ErrNotAnImage) || errors.Is(err, e.ErrEmptyImageURL) {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, SearchResponse{
		Results: usecase.Filter(res.Products, minSimilarity),
	})
}

// session
//
//	@Summary	Текущее состояние поисковой сессии
//	@Tags		search
//	@Produce	json
//	@Success	200	{object}	SessionResponse
//	@Router		/search/session [get]
func (h *SearchHandler) session(w http.ResponseWriter, _ *http.Request) {
	s := h.searchUC.Session()

	WriteSuccess(w, http.StatusOK, SessionResponse{
		State:   s.State.String(),
		Message: s.Message,
		Results: s.Results,
	})
}

// listCatalog
//
//	@Summary	Записи каталога товаров
//	@Tags		catalog
//	@Produce	json
//	@Success	200	{array}	domain.CatalogEntry
//	@Router		/catalog [get]
func (h *SearchHandler) listCatalog(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, http.StatusOK, h.catalogRepo.All())
}
