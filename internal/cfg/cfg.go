package cfg

import (
	"os"
	"strconv"
	"time"

	"github.com/jimlawless/whereami"
	"github.com/vismatch/go-backend/pkg/e"
	"github.com/vismatch/go-backend/pkg/logger"
)

type Config struct {
	Http    *HTTPConfig
	Imagga  *ImaggaCfg
	Catalog *CatalogCfg
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// ImaggaCfg описывает доступ к внешнему API распознавания.
// Ключи держим только на стороне сервера: в браузер и в логи они не попадают.
type ImaggaCfg struct {
	BaseURL         string
	APIKey          string
	APISecret       string
	RequestTimeout  time.Duration
	SimilarityLimit int // лимит совпадений в запросе similarity
}

type CatalogCfg struct {
	CatalogPath string        // путь к JSON-файлу каталога (читает сервер, пишет сборщик)
	DatasetDir  string        // директория с исходными изображениями датасета
	MetaPath    string        // необязательный YAML с ручными правками метаданных
	UploadPause time.Duration // пауза между последовательными загрузками датасета
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	imagga, err := loadImaggaCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Http:    http,
		Imagga:  imagga,
		Catalog: loadCatalogCfg(),
	}, nil
}

// LoadForCatalogBuilder загружает конфигурацию для офлайн-сборщика каталога:
// HTTP-сервер ему не нужен, а ключи API обязательны так же, как серверу.
func LoadForCatalogBuilder(log logger.Logger) (*Config, error) {
	imagga, err := loadImaggaCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Imagga:  imagga,
		Catalog: loadCatalogCfg(),
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 60 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	port := getEnvOrDefault("HTTP_PORT", defaultPort)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	// Write timeout держим большим: внутри одного запроса сервер ждёт
	// две последовательные поездки к внешнему API.
	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         port,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

func loadImaggaCfg(log logger.Logger) (*ImaggaCfg, error) {
	const (
		defaultBaseURL         = "https://api.imagga.com/v2"
		defaultRequestTimeout  = 30 * time.Second
		defaultSimilarityLimit = 50
	)

	apiKey := getEnv("IMAGGA_API_KEY")
	apiSecret := getEnv("IMAGGA_API_SECRET")
	if apiKey == "" || apiSecret == "" {
		log.Errorf(e.ErrMissingCredentials, "missing imagga credentials")
		return nil, e.ErrMissingCredentials
	}

	requestTimeout, err := parseDurationEnv("IMAGGA_REQUEST_TIMEOUT", defaultRequestTimeout)
	if err != nil {
		log.Errorf(err, "invalid IMAGGA_REQUEST_TIMEOUT")
		return nil, err
	}

	similarityLimit, err := parseIntEnv("SIMILARITY_LIMIT", defaultSimilarityLimit)
	if err != nil {
		log.Errorf(err, "invalid SIMILARITY_LIMIT")
		return nil, err
	}

	return &ImaggaCfg{
		BaseURL:         getEnvOrDefault("IMAGGA_BASE_URL", defaultBaseURL),
		APIKey:          apiKey,
		APISecret:       apiSecret,
		RequestTimeout:  requestTimeout,
		SimilarityLimit: similarityLimit,
	}, nil
}

func loadCatalogCfg() *CatalogCfg {
	const (
		defaultCatalogPath = "./data/products.json"
		defaultDatasetDir  = "./dataset"
	)

	// Пауза между загрузками по умолчанию выключена
	pause, err := parseDurationEnv("UPLOAD_PAUSE", 0)
	if err != nil {
		pause = 0
	}

	return &CatalogCfg{
		CatalogPath: getEnvOrDefault("CATALOG_PATH", defaultCatalogPath),
		DatasetDir:  getEnvOrDefault("DATASET_DIR", defaultDatasetDir),
		MetaPath:    getEnv("CATALOG_META_PATH"),
		UploadPause: pause,
	}
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}
