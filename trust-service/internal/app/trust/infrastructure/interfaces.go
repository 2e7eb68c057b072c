package infrastructure

import "context"

// MessagePublisher интерфейс для отправки сообщений в очередь (Kafka)
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// TextAnalyzer внешняя модель оценки достоверности.
// Возвращает сырой ответ модели, разбор и нормализация на стороне сервиса.
type TextAnalyzer interface {
	AnalyzeCredibility(ctx context.Context, text string) (string, error)
}

// Summarizer внешняя модель сводок. corpus уже обрезан до допустимого размера,
// totalReviews общее число отзывов ресторана.
type Summarizer interface {
	Summarize(ctx context.Context, totalReviews int, corpus string) (string, error)
}
