package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/vismatch/go-backend/internal/domain"
	"github.com/vismatch/go-backend/pkg/e"
	"github.com/vismatch/go-backend/pkg/logger"
)

// SearchUseCase оркестрирует поиск похожих товаров: регистрация изображения
// во внешнем API, similarity-запрос по полученному upload_id и обогащение
// результатов данными каталога. Два сетевых шага строго последовательны.
// Состояние сессии одно на процесс: одновременные поиски не поддерживаются.
type SearchUseCase struct {
	recognition     RecognitionInfra
	catalogRepo     CatalogRepository
	similarityLimit int
	logger          logger.Logger

	mu      sync.Mutex
	session domain.Session
}

func NewSearchUC(
	recognition RecognitionInfra,
	catalogRepo CatalogRepository,
	similarityLimit int,
	logger logger.Logger,
) *SearchUseCase {
	return &SearchUseCase{
		recognition:     recognition,
		catalogRepo:     catalogRepo,
		similarityLimit: similarityLimit,
		logger:          logger,
		session:         domain.NewSession(),
	}
}

// SearchByFile выполняет поиск по байтам изображения.
// Не-изображение отклоняется до любых сетевых вызовов и не меняет состояние сессии.
func (s *SearchUseCase) SearchByFile(ctx context.Context, req *SearchByFileReq) (*SearchRes, error) {
	const op = "SearchUseCase.SearchByFile"

	if !strings.HasPrefix(req.MimeType, "image/") {
		return nil, e.ErrNotAnImage
	}

	if err := s.beginSearch(); err != nil {
		return nil, e.Wrap(op, err)
	}

	res, err := s.runSearch(ctx, func(ctx context.Context) (*UploadImageRes, error) {
		return s.recognition.UploadImage(ctx, NewUploadImageReq(req.Data, req.Name))
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return res, nil
}

// SearchByURL выполняет поиск по URL изображения.
// Пустой или пробельный URL игнорируется без изменения состояния сессии.
func (s *SearchUseCase) SearchByURL(ctx context.Context, req *SearchByURLReq) (*SearchRes, error) {
	const op = "SearchUseCase.SearchByURL"

	imageURL := strings.TrimSpace(req.ImageURL)
	if imageURL == "" {
		return nil, e.ErrEmptyImageURL
	}

	if err := s.beginSearch(); err != nil {
		return nil, e.Wrap(op, err)
	}

	res, err := s.runSearch(ctx, func(ctx context.Context) (*UploadImageRes, error) {
		return s.recognition.UploadImageURL(ctx, NewUploadImageURLReq(imageURL))
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return res, nil
}

// Session возвращает снимок текущего состояния поисковой сессии.
func (s *SearchUseCase) Session() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.session
}

// runSearch выполняет два последовательных шага (upload, similarity) и маппинг
// результата. Любая ошибка шага переводит сессию в Error с сообщением для пользователя.
// Повторных попыток нет.
func (s *SearchUseCase) runSearch(ctx context.Context, upload func(context.Context) (*UploadImageRes, error)) (*SearchRes, error) {
	uploadRes, err := upload(ctx)
	if err != nil {
		s.failSearch(err)
		return nil, err
	}

	similarRes, err := s.recognition.FindSimilar(ctx, NewFindSimilarReq(uploadRes.UploadID, s.similarityLimit))
	if err != nil {
		s.failSearch(err)
		return nil, err
	}

	products := s.mapMatches(similarRes.Matches)
	s.completeSearch(products)

	return NewSearchRes(products), nil
}

// mapMatches обогащает совпадения данными каталога в порядке ответа апстрима.
// Совпадение без записи в каталоге не выбрасывается: для него синтезируется
// карточка-заглушка с порядковым именем и индексом вместо идентификатора.
func (s *SearchUseCase) mapMatches(matches []domain.SimilarityMatch) []domain.RankedProduct {
	products := make([]domain.RankedProduct, 0, len(matches))
	for i, match := range matches {
		similarity := domain.SimilarityFromDistance(match.Distance)

		entry, ok := s.catalogRepo.GetByUploadID(match.ImageID)
		if !ok {
			products = append(products, domain.RankedProduct{
				ID:         int64(i),
				Name:       fmt.Sprintf("Unknown Product %d", i+1),
				Category:   domain.UnknownCategory,
				Price:      domain.NotAvailableMark,
				Rating:     domain.NotAvailableMark,
				Similarity: similarity,
			})
			continue
		}

		products = append(products, domain.RankedProduct{
			ID:         entry.ID,
			Name:       entry.Name,
			Image:      entry.Image,
			Category:   entry.Category,
			Price:      entry.Price,
			Rating:     entry.Rating,
			Similarity: similarity,
		})
	}

	return products
}

// beginSearch переводит сессию в Loading.
// Возвращает ErrSearchInFlight, если поиск уже идёт.
func (s *SearchUseCase) beginSearch() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.session.Start()
	if err != nil {
		return err
	}

	s.session = next
	return nil
}

func (s *SearchUseCase) completeSearch(products []domain.RankedProduct) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.session.Ok(products)
	if err != nil {
		s.logger.Warnf("unexpected session transition: %v", err)
		return
	}

	s.session = next
}

func (s *SearchUseCase) failSearch(cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.session.Fail(failureMessage(cause))
	if err != nil {
		s.logger.Warnf("unexpected session transition: %v", err)
		return
	}

	s.session = next
}

// failureMessage извлекает пользовательское сообщение из ошибки шага:
// для прикладной ошибки апстрима — его собственный текст, для транспортной — текст ошибки.
func failureMessage(err error) string {
	var upstream *e.UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Text
	}

	return err.Error()
}
