package startup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"photovault/internal/ingest"
	"photovault/internal/logging"
	"photovault/internal/media"
	"photovault/internal/workers"

	"github.com/gorilla/mux"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Config holds all application configuration
type Config struct {
	SourceDir  string
	DestPrefix string

	Port           string
	MetricsPort    string
	MetricsEnabled bool

	// Object store
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool

	// Remote services
	CatalogURL    string
	VectorURL     string
	EmbedderURL   string
	EmbeddingDims int

	// Pipeline tuning
	BatchSize        int
	WalkWorkers      int
	ThumbnailMaxSize int
	ThumbnailQuality int
	VideoSeekOffset  time.Duration
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	sourceDir := getEnv("SOURCE_DIR", "/photos")
	destPrefix := getEnv("DEST_PREFIX", "photos")
	port := getEnv("PORT", "8080")
	metricsPort := getEnv("METRICS_PORT", "9090")
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)

	bucket := getEnv("S3_BUCKET", "")
	region := getEnv("S3_REGION", "us-east-1")
	endpoint := getEnv("S3_ENDPOINT", "")
	accessKey := getEnv("S3_ACCESS_KEY_ID", "")
	secretKey := getEnv("S3_SECRET_ACCESS_KEY", "")
	pathStyle := getEnvBool("S3_PATH_STYLE", endpoint != "")

	catalogURL := getEnv("CATALOG_URL", "http://localhost:3001")
	vectorURL := getEnv("VECTOR_URL", "http://localhost:3002")
	embedderURL := getEnv("EMBEDDER_URL", "http://localhost:5000")
	embeddingDims := getEnvInt("EMBEDDING_DIMENSIONS", 512)

	batchSize := getEnvInt("BATCH_SIZE", ingest.DefaultBatchSize)
	walkWorkers := getEnvInt("WALK_WORKERS", workers.ForIO(8))
	thumbMaxSize := getEnvInt("THUMBNAIL_MAX_SIZE", media.DefaultMaxSize)
	thumbQuality := getEnvInt("THUMBNAIL_QUALITY", media.DefaultQuality)
	seekOffsetStr := getEnv("VIDEO_SEEK_OFFSET", "0s")

	logging.Info("  SOURCE_DIR:           %s", sourceDir)
	logging.Info("  DEST_PREFIX:          %s", destPrefix)
	logging.Info("  PORT:                 %s", port)
	logging.Info("  METRICS_PORT:         %s", metricsPort)
	logging.Info("  METRICS_ENABLED:      %v", metricsEnabled)
	logging.Info("  S3_BUCKET:            %s", bucket)
	logging.Info("  S3_REGION:            %s", region)
	logging.Info("  S3_ENDPOINT:          %s", valueOrDash(endpoint))
	logging.Info("  S3_PATH_STYLE:        %v", pathStyle)
	logging.Info("  CATALOG_URL:          %s", catalogURL)
	logging.Info("  VECTOR_URL:           %s", vectorURL)
	logging.Info("  EMBEDDER_URL:         %s", embedderURL)
	logging.Info("  EMBEDDING_DIMENSIONS: %d", embeddingDims)
	logging.Info("  BATCH_SIZE:           %d", batchSize)
	logging.Info("  WALK_WORKERS:         %d", walkWorkers)
	logging.Info("  THUMBNAIL_MAX_SIZE:   %d", thumbMaxSize)
	logging.Info("  THUMBNAIL_QUALITY:    %d", thumbQuality)
	logging.Info("  VIDEO_SEEK_OFFSET:    %s", seekOffsetStr)
	logging.Info("  LOG_LEVEL:            %s", logging.GetLevel())

	if bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required")
	}
	if batchSize <= 0 {
		logging.Warn("  Invalid BATCH_SIZE, using default: %d", ingest.DefaultBatchSize)
		batchSize = ingest.DefaultBatchSize
	}

	seekOffset, err := time.ParseDuration(seekOffsetStr)
	if err != nil || seekOffset < 0 {
		logging.Warn("  Invalid VIDEO_SEEK_OFFSET, using default: 0s")
		seekOffset = 0
	}

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SOURCE DIRECTORY")
	logging.Info("------------------------------------------------------------")

	sourceDir, err = filepath.Abs(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source directory path: %w", err)
	}
	logging.Info("  Source directory (absolute): %s", sourceDir)

	if err := checkDirectory(sourceDir); err != nil {
		logging.Warn("  Source directory issue: %v", err)
	}

	return &Config{
		SourceDir:        sourceDir,
		DestPrefix:       strings.Trim(destPrefix, "/"),
		Port:             port,
		MetricsPort:      metricsPort,
		MetricsEnabled:   metricsEnabled,
		Bucket:           bucket,
		Region:           region,
		Endpoint:         endpoint,
		AccessKeyID:      accessKey,
		SecretAccessKey:  secretKey,
		PathStyle:        pathStyle,
		CatalogURL:       catalogURL,
		VectorURL:        vectorURL,
		EmbedderURL:      embedderURL,
		EmbeddingDims:    embeddingDims,
		BatchSize:        batchSize,
		WalkWorkers:      walkWorkers,
		ThumbnailMaxSize: thumbMaxSize,
		ThumbnailQuality: thumbQuality,
		VideoSeekOffset:  seekOffset,
	}, nil
}

// LogMediaInit logs media tooling initialization and checks FFmpeg
func LogMediaInit() {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("MEDIA TOOLING")
	logging.Info("------------------------------------------------------------")

	if err := checkFFmpeg(); err != nil {
		logging.Warn("  FFmpeg check failed: %v", err)
		logging.Warn("  Video thumbnails will fail; video files will be skipped")
	} else {
		logging.Info("  [OK] FFmpeg is available")
	}
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			// Route might not have methods specified
			methods = []string{"*"}
		}

		name := route.GetName()

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   name,
			})
		}

		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes dynamically
func LogHTTPRoutes(router *mux.Router) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		sort.Slice(routes, func(i, j int) bool {
			if routes[i].Path != routes[j].Path {
				return routes[i].Path < routes[j].Path
			}
			return routes[i].Method < routes[j].Method
		})

		logging.Debug("  Registered routes (%d total):", len(routes))
		for _, route := range routes {
			logging.Debug("    %-6s %s", route.Method, route.Path)
		}
	}

	logging.Info("  HTTP logging enabled")
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Application:   http://0.0.0.0:%s", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", config.MetricsPort)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
    ____  __          __       _    __            ____
   / __ \/ /_  ____  / /_____ | |  / /___ ___  __/ / /_
  / /_/ / __ \/ __ \/ __/ __ \| | / / __ '/ / / / / __/
 / ____/ / / / /_/ / /_/ /_/ /| |/ / /_/ / /_/ / / /_
/_/   /_/ /_/\____/\__/\____/ |___/\__,_/\__,_/_/\__/

------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		logging.Debug("  Goroutines:      %d", runtime.NumGoroutine())

		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}

		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func checkDirectory(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("directory does not exist")
	}
	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	if logging.IsDebugEnabled() {
		entries, err := os.ReadDir(path)
		if err == nil {
			fileCount := 0
			dirCount := 0
			for _, e := range entries {
				if e.IsDir() {
					dirCount++
				} else {
					fileCount++
				}
			}
			logging.Debug("    Contents: %d files, %d directories (top level)", fileCount, dirCount)
		}
	}

	return nil
}

func checkFFmpeg() error {
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return fmt.Errorf("ffmpeg not found in PATH")
	}
	logging.Debug("  FFmpeg path: %s", path)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffmpeg", "-version")
	output, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("failed to get ffmpeg version: %w", err)
	}

	lines := strings.Split(string(output), "\n")
	if len(lines) > 0 {
		logging.Debug("  FFmpeg version: %s", strings.TrimSpace(lines[0]))
	}

	return nil
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
