package usecase

import "context"

// RecognitionInfra — клиент внешнего API распознавания изображений.
// Upload-операции возвращают upload_id, которым ключуется similarity-запрос.
// Forward прокидывает запрос клиента к апстриму как есть, подставляя учётные данные.
type RecognitionInfra interface {
	UploadImage(ctx context.Context, req *UploadImageReq) (*UploadImageRes, error)
	UploadImageURL(ctx context.Context, req *UploadImageURLReq) (*UploadImageRes, error)
	FindSimilar(ctx context.Context, req *FindSimilarReq) (*FindSimilarRes, error)
	Forward(ctx context.Context, req *ForwardReq) (*ForwardRes, error)
}
