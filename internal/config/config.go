package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath   string
	OutputPath string
	LogDir     string

	// Workbook is the default case-list workbook, Sheet its worksheet name.
	Workbook string
	Sheet    string
	Supplier string

	// ReferenceDate anchors dead-stock age computation. Zero means "today";
	// it can be overridden to replay any historical date.
	ReferenceDate time.Time

	Thresholds      []int
	UrgentThreshold int
}

// Load reads configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// Binary-relative .env wins, working-directory .env is the dev fallback.
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	outputPath := getEnv("OUTPUT_PATH", filepath.Join(dataPath, "outputs"))
	logDir := filepath.Join(dataPath, "logs")
	for _, dir := range []string{outputPath, logDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Warn().Err(err).Str("path", dir).Msg("Failed to create directory")
		}
	}

	refDate, err := parseReferenceDate(getEnv("REFERENCE_DATE", ""))
	if err != nil {
		return nil, err
	}

	thresholds, err := parseThresholds(getEnv("DEADSTOCK_THRESHOLDS", "90,180,365"))
	if err != nil {
		return nil, err
	}

	urgent, err := strconv.Atoi(getEnv("URGENT_THRESHOLD", "365"))
	if err != nil {
		return nil, fmt.Errorf("invalid URGENT_THRESHOLD: %w", err)
	}

	cfg := &AppConfig{
		DataPath:        dataPath,
		OutputPath:      outputPath,
		LogDir:          logDir,
		Workbook:        getEnv("CASE_WORKBOOK", ""),
		Sheet:           getEnv("CASE_SHEET", "CASE LIST"),
		Supplier:        getEnv("SUPPLIER", ""),
		ReferenceDate:   refDate,
		Thresholds:      thresholds,
		UrgentThreshold: urgent,
	}
	return cfg, nil
}

func parseReferenceDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid REFERENCE_DATE %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

func parseThresholds(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	thresholds := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid DEADSTOCK_THRESHOLDS entry %q", p)
		}
		thresholds = append(thresholds, n)
	}
	return thresholds, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
