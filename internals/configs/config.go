// file: internals/configs/config.go

package configs

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var (
	AppOrigin      string
	AppTimezone    string
	JWTSecret      string
	GoogleClientID string

	DocstoreDriver string
	BlobDriver     string

	MidtransServerKey string
	MidtransUseProd   bool
	// whole rupiah charged per real of list price
	MidtransRupiahPerReal int64

	PaymentRequired       bool
	PaymentTestCoupon     string
	PaymentSimulatedDelay time.Duration
	PaymentAttemptTTL     time.Duration

	DraftTTL time.Duration
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ .env not found, using system ENV")
		} else {
			log.Println("✅ .env loaded")
		}
	} else {
		log.Println("🚀 Running in Railway, using system ENV")
	}

	AppOrigin = strings.TrimRight(GetEnv("APP_ORIGIN", "http://localhost:3000"), "/")
	AppTimezone = GetEnv("APP_TIMEZONE", "America/Sao_Paulo")
	JWTSecret = GetEnv("JWT_SECRET")
	GoogleClientID = GetEnv("GOOGLE_CLIENT_ID")

	DocstoreDriver = strings.ToLower(GetEnv("DOCSTORE_DRIVER", "postgres"))
	BlobDriver = strings.ToLower(GetEnv("BLOB_DRIVER", "oss"))

	MidtransServerKey = GetEnv("MIDTRANS_SERVER_KEY")
	MidtransUseProd = GetEnvBool("MIDTRANS_USE_PROD", false)

	MidtransRupiahPerReal = GetEnvInt64("MIDTRANS_IDR_PER_BRL", 1)

	PaymentRequired = GetEnvBool("PAYMENT_REQUIRED", true)
	PaymentTestCoupon = strings.ToUpper(GetEnv("PAYMENT_TEST_COUPON", "DEVTEST"))
	PaymentSimulatedDelay = GetEnvDuration("PAYMENT_SIMULATED_DELAY", 5*time.Second)
	PaymentAttemptTTL = GetEnvDuration("PAYMENT_ATTEMPT_TTL", 30*time.Minute)
	DraftTTL = GetEnvDuration("DRAFT_TTL", 7*24*time.Hour)

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET is not set!")
	} else {
		log.Println("✅ JWT_SECRET loaded.")
	}

	if MidtransServerKey == "" {
		log.Println("⚠️ MIDTRANS_SERVER_KEY is not set, only simulated payments will work")
	}

	if GoogleClientID == "" {
		log.Println("⚠️ GOOGLE_CLIENT_ID is not set, Google edit sessions disabled")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(GetEnv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("⚠️ %s=%q is not a bool, using %v", key, v, def)
		return def
	}
	return b
}

func GetEnvInt64(key string, def int64) int64 {
	v := strings.TrimSpace(GetEnv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		log.Printf("⚠️ %s=%q is not a positive integer, using %d", key, v, def)
		return def
	}
	return n
}

// GetEnvDuration accepts Go durations ("90s") or plain seconds ("90").
func GetEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(GetEnv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	log.Printf("⚠️ %s=%q is not a duration, using %s", key, v, def)
	return def
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLogger.Warn,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	l.LogLevel = level
	return l
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && l.LogLevel >= gormLogger.Error:
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
