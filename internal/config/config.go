package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

const MiB = 1 << 20

type Config struct {
	Public Public
}

type Public struct {
	Port        int    `yaml:"port" validate:"required,gt=0,lte=65535"`
	UploadsDir  string `yaml:"uploads_dir" validate:"required"`
	MaxFileSize int64  `yaml:"max_file_size" validate:"required,gt=0"` // bytes per file

	AllowedExtensions []string `yaml:"allowed_extensions" validate:"required,min=1,dive,startswith=."`
	AllowedMimeTypes  []string `yaml:"allowed_mime_types" validate:"required,min=1,dive,contains=/"`
	GalleryExtensions []string `yaml:"gallery_extensions" validate:"required,min=1,dive,startswith=."`

	AllowedOrigins  []string `yaml:"allowed_origins"`
	HTTPS           bool     `yaml:"https"`
	UploadRateLimit float64  `yaml:"upload_rate_limit" validate:"gte=0"` // requests per second per IP, 0 disables
	UploadRateBurst int      `yaml:"upload_rate_burst" validate:"gte=0"`

	ReadTimeout  time.Duration `yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"gte=0"`

	// Leftover temp files from interrupted uploads older than TempMaxAge are
	// removed every TempSweepInterval. A zero interval disables sweeping.
	TempSweepInterval time.Duration `yaml:"temp_sweep_interval" validate:"gte=0"`
	TempMaxAge        time.Duration `yaml:"temp_max_age" validate:"required_with=TempSweepInterval,gte=0"`

	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	LogJSON  bool   `yaml:"log_json"`

	Notice string `yaml:"notice"` // markdown shown above the gallery
}

// Default returns the built-in configuration: jpeg/jpg/png/pdf up to 5 MiB
// stored under ./uploads, served on port 3000.
func Default() Public {
	return Public{
		Port:              3000,
		UploadsDir:        "uploads",
		MaxFileSize:       5 * MiB,
		AllowedExtensions: []string{".jpeg", ".jpg", ".png", ".pdf"},
		AllowedMimeTypes:  []string{"image/jpeg", "image/jpg", "image/png", "application/pdf"},
		GalleryExtensions: []string{".jpg", ".jpeg", ".png"},
		UploadRateLimit:   10,
		UploadRateBurst:   20,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		TempSweepInterval: 10 * time.Minute,
		TempMaxAge:        time.Hour,
		LogLevel:          "info",
	}
}

func (p Public) Addr() string {
	return fmt.Sprintf(":%d", p.Port)
}

// Validate checks struct constraints.
func (p Public) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	if err = yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file: " + err.Error())
	}
}

// MustLoad reads public.yaml from configFolder on top of Default and panics
// if the file is missing or the result is invalid.
func MustLoad(configFolder string) *Config {
	public := Default()
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	if err := public.Validate(); err != nil {
		panic(err.Error())
	}

	return &Config{Public: public}
}
