package config

// Environment Variable Keys
const (
	// EnvAppEnv 定義應用程式執行環境 (local, dev, prod)
	EnvAppEnv = "APP_ENV"

	// EnvHTTPPort 定義 Ops HTTP 服務 Port (Worker 用)
	EnvHTTPPort = "HTTP_PORT"

	// EnvGrpcPort 定義 gRPC 服務 Port (Intake 用)
	EnvGrpcPort = "GRPC_PORT"

	// EnvIntakeAddr 定義 Intake 服務地址 (host:port)，jobctl 使用
	EnvIntakeAddr = "INTAKE_ADDR"

	// EnvRedisAddr 定義 Redis 服務地址 (host:port)
	EnvRedisAddr = "REDIS_ADDR"

	// EnvRedisPassword 定義 Redis 密碼
	EnvRedisPassword = "REDIS_PASSWORD"

	// EnvDBDriver 定義紀錄資料庫驅動 (mysql, postgres, sqlite)
	EnvDBDriver = "DB_DRIVER"

	// EnvDBDSN 定義完整 DSN，有值時忽略其他 DB 欄位
	EnvDBDSN = "DB_DSN"

	// EnvDBHost 定義資料庫主機
	EnvDBHost = "DB_HOST"

	// EnvDBPort 定義資料庫 Port
	EnvDBPort = "DB_PORT"

	// EnvDBUser 定義資料庫使用者
	EnvDBUser = "DB_USER"

	// EnvDBPassword 定義資料庫密碼
	EnvDBPassword = "DB_PASSWORD"

	// EnvDBName 定義資料庫名稱
	EnvDBName = "DB_NAME"

	// EnvRabbitMQURL 定義 RabbitMQ 連線字串 (amqp://...)
	EnvRabbitMQURL = "RABBITMQ_URL"

	// EnvWorkerCount 定義 Worker 數量
	EnvWorkerCount = "WORKER_COUNT"

	// EnvChromePath 定義 Chrome 執行檔路徑
	EnvChromePath = "CHROME_PATH"

	// EnvCaptchaAPIKey 定義 2Captcha API Key
	EnvCaptchaAPIKey = "CAPTCHA_API_KEY"
)

type platformKeys struct {
	headless string
	username string
	password string
	baseURL  string
}

// platformEnvKeys 各平台獨立的 Headless 開關與帳號
var platformEnvKeys = map[string]platformKeys{
	"gamevault": {
		headless: "GV_HEADLESS",
		username: "GV_USERNAME",
		password: "GV_PASSWORD",
		baseURL:  "GV_BASE_URL",
	},
	"milkyway": {
		headless: "MW_HEADLESS",
		username: "MW_USERNAME",
		password: "MW_PASSWORD",
		baseURL:  "MW_BASE_URL",
	},
	"orionstars": {
		headless: "OS_HEADLESS",
		username: "OS_USERNAME",
		password: "OS_PASSWORD",
		baseURL:  "OS_BASE_URL",
	},
}
