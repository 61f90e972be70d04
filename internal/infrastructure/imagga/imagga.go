package imagga

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vismatch/go-backend/internal/cfg"
	"github.com/vismatch/go-backend/internal/domain"
	"github.com/vismatch/go-backend/internal/usecase"
	"github.com/vismatch/go-backend/pkg/e"
	"github.com/vismatch/go-backend/pkg/logger"
)

// Пути апстрима, которые разрешено пробрасывать через relay.
const (
	pathUploads      = "uploads"
	pathFingerprints = "images-similarity/fingerprints"
	pathTags         = "tags"
)

// Запасные сообщения, когда апстрим сообщил о неудаче без текста.
const (
	fallbackUploadFailed     = "Upload failed"
	fallbackSimilarityFailed = "Similarity search failed"
)

const maxResponseBody = 4 << 20

// ImaggaService — клиент внешнего API распознавания и similarity-поиска.
// Учётные данные подставляются в Basic-заголовок и никогда не логируются.
// Повторных попыток нет: любая ошибка возвращается вызывающему как есть.
type ImaggaService struct {
	httpClient *http.Client
	baseURL    string
	authHeader string
	logger     logger.Logger
}

func NewImaggaService(cfg *cfg.ImaggaCfg, logger logger.Logger) *ImaggaService {
	auth := base64.StdEncoding.EncodeToString([]byte(cfg.APIKey + ":" + cfg.APISecret))

	return &ImaggaService{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		authHeader: "Basic " + auth,
		logger:     logger,
	}
}

// UploadImage регистрирует изображение в апстриме через multipart-загрузку файла.
func (i *ImaggaService) UploadImage(ctx context.Context, req *usecase.UploadImageReq) (*usecase.UploadImageRes, error) {
	const op = "ImaggaService.UploadImage"

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("image", req.Name)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if _, err := part.Write(req.Data); err != nil {
		return nil, e.Wrap(op, err)
	}
	if err := form.Close(); err != nil {
		return nil, e.Wrap(op, err)
	}

	return i.doUpload(ctx, form.FormDataContentType(), &body)
}

// UploadImageURL регистрирует изображение в апстриме по его URL.
func (i *ImaggaService) UploadImageURL(ctx context.Context, req *usecase.UploadImageURLReq) (*usecase.UploadImageRes, error) {
	return i.doUpload(ctx, "application/x-www-form-urlencoded",
		strings.NewReader(url.Values{"image_url": {req.ImageURL}}.Encode()))
}

// FindSimilar возвращает ранжированный список ранее загруженных изображений,
// близких к заданному upload_id. Порядок ответа апстрима сохраняется.
func (i *ImaggaService) FindSimilar(ctx context.Context, req *usecase.FindSimilarReq) (*usecase.FindSimilarRes, error) {
	const op = "ImaggaService.FindSimilar"

	query := url.Values{
		"image_upload_id": {req.UploadID},
		"limit":           {strconv.Itoa(req.Limit)},
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		i.baseURL+"/"+pathFingerprints+"?"+query.Encode(), nil)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	envelope, err := i.send(httpReq)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if err := checkStatus(envelope, fallbackSimilarityFailed); err != nil {
		return nil, err
	}

	var result distancesResult
	if err := json.Unmarshal(envelope.Result, &result); err != nil {
		return nil, e.Wrap(op, err)
	}

	matches := make([]domain.SimilarityMatch, 0, len(result.Distances))
	for _, item := range result.Distances {
		matches = append(matches, *domain.NewSimilarityMatch(item.ImageID, item.Distance))
	}

	return usecase.NewFindSimilarRes(matches), nil
}

// Forward пробрасывает запрос клиента к апстриму, подставляя учётные данные,
// и возвращает код и тело ответа апстрима без изменений.
// Неизвестный путь отклоняется до какого-либо обращения к сети.
func (i *ImaggaService) Forward(ctx context.Context, req *usecase.ForwardReq) (*usecase.ForwardRes, error) {
	const op = "ImaggaService.Forward"

	httpReq, err := i.buildForwardRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", i.authHeader)

	resp, err := i.httpClient.Do(httpReq)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return usecase.NewForwardRes(resp.StatusCode, data), nil
}

// buildForwardRequest собирает запрос к апстриму по пути relay-запроса.
func (i *ImaggaService) buildForwardRequest(ctx context.Context, req *usecase.ForwardReq) (*http.Request, error) {
	const defaultLimit = 50

	switch req.Path {
	case pathUploads:
		form := url.Values{}
		if req.ImageURL != "" {
			form.Set("image_url", req.ImageURL)
		} else if req.ImageBase64 != "" {
			form.Set("image_base64", req.ImageBase64)
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
			i.baseURL+"/"+pathUploads, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return httpReq, nil

	case pathFingerprints:
		limit := req.Limit
		if limit <= 0 {
			limit = defaultLimit
		}
		query := url.Values{
			"image_upload_id": {req.ImageUploadID},
			"limit":           {strconv.Itoa(limit)},
		}
		return http.NewRequestWithContext(ctx, http.MethodGet,
			i.baseURL+"/"+pathFingerprints+"?"+query.Encode(), nil)

	case pathTags:
		query := url.Values{"image_url": {req.ImageURL}}
		return http.NewRequestWithContext(ctx, http.MethodGet,
			i.baseURL+"/"+pathTags+"?"+query.Encode(), nil)

	default:
		return nil, e.ErrUnknownPath
	}
}

// doUpload выполняет POST /uploads с готовым телом и извлекает upload_id.
func (i *ImaggaService) doUpload(ctx context.Context, contentType string, body io.Reader) (*usecase.UploadImageRes, error) {
	const op = "ImaggaService.doUpload"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, i.baseURL+"/"+pathUploads, body)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	httpReq.Header.Set("Content-Type", contentType)

	envelope, err := i.send(httpReq)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if err := checkStatus(envelope, fallbackUploadFailed); err != nil {
		return nil, err
	}

	var result uploadResult
	if err := json.Unmarshal(envelope.Result, &result); err != nil {
		return nil, e.Wrap(op, err)
	}
	if result.UploadID == "" {
		return nil, e.Wrap(op, fmt.Errorf("upstream returned empty upload_id"))
	}

	return usecase.NewUploadImageRes(result.UploadID), nil
}

// send выполняет запрос с авторизацией и декодирует конверт ответа.
func (i *ImaggaService) send(httpReq *http.Request) (*apiEnvelope, error) {
	httpReq.Header.Set("Authorization", i.authHeader)

	resp, err := i.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, err
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("malformed upstream response (status %d): %w", resp.StatusCode, err)
	}

	return &envelope, nil
}

// checkStatus применяет прикладной дискриминатор успеха.
// Текст апстрима сохраняется дословно, при его отсутствии берётся fallback.
func checkStatus(envelope *apiEnvelope, fallback string) error {
	if envelope.Status.Type == statusSuccess {
		return nil
	}

	text := envelope.Status.Text
	if text == "" {
		text = fallback
	}

	return e.NewUpstreamError(text)
}
