package imagga

import "encoding/json"

// Ответ апстрима декодируется один раз на границе: вложенный статус
// превращается либо в результат, либо в e.UpstreamError с текстом апстрима.

const statusSuccess = "success"

type apiStatus struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// apiEnvelope — общий конверт всех ответов внешнего API.
// Успех определяется полем status.type, а не HTTP-кодом:
// апстрим может ответить 200 с прикладной ошибкой в теле.
type apiEnvelope struct {
	Status apiStatus       `json:"status"`
	Result json.RawMessage `json:"result"`
}

type uploadResult struct {
	UploadID string `json:"upload_id"`
}

type distancesResult struct {
	Distances []distanceItem `json:"distances"`
}

type distanceItem struct {
	ImageID  string  `json:"image_id"`
	Distance float64 `json:"distance"`
}
