// Package validator checks user supplied identity and URL fields.
package validator

import (
	"net/url"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Struct validates s against its `validate` tags
func Struct(s interface{}) error {
	return instance().Struct(s)
}

// IsValidEmail 验证邮箱格式
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	return email != "" && instance().Var(email, "email") == nil
}

// NormalizePhone 规范化电话号码
// Keeps a leading '+' and the digits, dropping spaces, dashes, dots and brackets.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	var b strings.Builder
	for i, r := range phone {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidPhone 验证电话号码：7 到 15 位数字，可选 '+' 前缀
func IsValidPhone(phone string) bool {
	n := NormalizePhone(phone)
	digits := strings.TrimPrefix(n, "+")
	return len(digits) >= 7 && len(digits) <= 15
}

// IsHTTPURL reports whether raw is an absolute http or https URL with a host
func IsHTTPURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if instance().Var(raw, "url") != nil {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
