package e

import "fmt"

var (
	// Ошибки валидации локального ввода: молча игнорируются, до сети не доходят
	ErrNotAnImage    = fmt.Errorf("file is not an image")
	ErrEmptyImageURL = fmt.Errorf("image url is empty")

	// 400 Bad Request
	ErrStatusBadRequest  = fmt.Errorf("bad request")
	ErrExpectedMultipart = fmt.Errorf("expected multipart/form-data")
	ErrMissingImage      = fmt.Errorf("image file is required")
	ErrMissingImageURL   = fmt.Errorf("image_url is required")
	ErrFileTooLarge      = fmt.Errorf("image file is too large")
	ErrMissingPath       = fmt.Errorf("missing path")
	ErrUnknownPath       = fmt.Errorf("unknown upstream path")

	// 409 Conflict
	ErrSearchInFlight = fmt.Errorf("search already in progress")

	// Внутренние ошибки машины состояний сессии поиска
	ErrInvalidTransition = fmt.Errorf("invalid session transition")

	// Ошибки конфигурации
	ErrMissingCredentials   = fmt.Errorf("IMAGGA_API_KEY and IMAGGA_API_SECRET are required")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect env variable")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// UpstreamError — прикладная ошибка внешнего API: апстрим ответил,
// но его собственный статус в теле сигнализирует о неудаче.
// Text содержит сообщение апстрима (или запасной текст, если апстрим его не прислал).
type UpstreamError struct {
	Text string
}

func (u *UpstreamError) Error() string {
	return u.Text
}

func NewUpstreamError(text string) *UpstreamError {
	return &UpstreamError{Text: text}
}

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
