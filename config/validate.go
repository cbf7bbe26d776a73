package config

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their config key rather than the Go field name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the configuration for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return err
	}

	u, err := url.Parse(cfg.RPC.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("rpc.url must be an http or https URL")
	}
	if cfg.Network == Mainnet && u.Scheme == "http" && !isLoopback(u.Hostname()) {
		return fmt.Errorf("rpc.url must use https on mainnet")
	}
	return nil
}

func isLoopback(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

func fieldError(fe validator.FieldError) error {
	key := fe.Namespace()
	if i := strings.IndexByte(key, '.'); i >= 0 {
		key = key[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", key)
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", key, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return fmt.Errorf("%s must be a URL", key)
	case "gt":
		return fmt.Errorf("%s must be greater than %s", key, fe.Param())
	case "gte":
		return fmt.Errorf("%s must not be negative", key)
	default:
		return fmt.Errorf("%s failed %q check", key, fe.Tag())
	}
}
