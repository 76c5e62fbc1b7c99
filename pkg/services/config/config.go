package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/ledgercheck/finhealth/pkg/events"
	"github.com/ledgercheck/finhealth/pkg/services/policy"
	"github.com/ledgercheck/finhealth/pkg/services/presentation"
	"github.com/ledgercheck/finhealth/pkg/store/backend"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const EnvPrefix = "FINHEALTH"

type ServerSettings struct {
	// Listen host (default: 0.0.0.0)
	Host string `mapstructure:"host"`
	// Listen port (default: 8000)
	Port int `mapstructure:"port" validate:"min=1,max=65535"`
	// Grace period for in-flight requests on shutdown (default: 10s)
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=0"`
	// Largest accepted statement upload in bytes (default: 10 MiB)
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes" validate:"min=1"`
}

func (s ServerSettings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type Config struct {
	Policy       policy.Policy         `mapstructure:"policy"`
	Server       ServerSettings        `mapstructure:"server"`
	History      backend.Settings      `mapstructure:"history"`
	Events       events.Settings       `mapstructure:"events"`
	Presentation presentation.Settings `mapstructure:"presentation"`
}

func Default() Config {
	return Config{
		Policy: policy.Default(),
		Server: ServerSettings{
			Host:            "0.0.0.0",
			Port:            8000,
			ShutdownTimeout: 10 * time.Second,
			MaxUploadBytes:  10 << 20,
		},
		History:      backend.DefaultSettings(),
		Events:       events.DefaultSettings(),
		Presentation: presentation.DefaultSettings(),
	}
}

// Load reads the optional config file and FINHEALTH_* environment overrides on top of the defaults,
// e.g. FINHEALTH_POLICY_TAX_OUTPUT_RATE=0.12.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	hook := mapstructure.ComposeDecodeHookFunc(
		decimalHook(),
		mapstructure.StringToTimeDurationHookFunc(),
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(hook)); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if cfg.History.Backend == backend.S3 && cfg.History.S3.Bucket == "" {
		return fmt.Errorf("invalid config: history.s3.bucket is required for the s3 backend")
	}
	if err := cfg.Policy.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

// decimalHook decodes strings and numbers into decimal.Decimal.
func decimalHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != decimalType {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return decimal.NewFromString(strings.TrimSpace(v))
		case float64:
			return decimal.NewFromFloat(v), nil
		case float32:
			return decimal.NewFromFloat32(v), nil
		case int:
			return decimal.NewFromInt(int64(v)), nil
		case int64:
			return decimal.NewFromInt(v), nil
		case decimal.Decimal:
			return v, nil
		default:
			return nil, fmt.Errorf("cannot decode %s into a decimal", from)
		}
	}
}

// setDefaults registers every leaf of the default config so that environment overrides
// resolve for keys absent from the config file.
func setDefaults(v *viper.Viper, cfg Config) {
	registerDefaults(v, "", reflect.ValueOf(cfg))
}

func registerDefaults(v *viper.Viper, prefix string, rv reflect.Value) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		key := field.Tag.Get("mapstructure")
		if key == "" || key == "-" {
			key = strings.ToLower(field.Name)
		}
		if prefix != "" {
			key = prefix + "." + key
		}

		value := rv.Field(i)
		switch {
		case field.Type == decimalType:
			v.SetDefault(key, value.Interface().(decimal.Decimal).String())
		case field.Type.Kind() == reflect.Struct:
			registerDefaults(v, key, value)
		default:
			v.SetDefault(key, value.Interface())
		}
	}
}
