package util

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// maxValue 单笔金额上限
var maxValue = decimal.NewFromInt(10_000_000)

// ParseValue 解析金额字符串（必须为正数、最多两位小数且不超过上限）
func ParseValue(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("value is empty")
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid value %q: %w", s, err)
	}
	if !v.IsPositive() {
		return decimal.Zero, fmt.Errorf("value must be positive, got %s", v)
	}
	if v.GreaterThanOrEqual(maxValue) {
		return decimal.Zero, fmt.Errorf("value too large, got %s", v)
	}
	if !v.Equal(v.Round(2)) {
		return decimal.Zero, fmt.Errorf("value has more than two decimals, got %s", v)
	}
	return v, nil
}

// ValidateCategory 验证分类（不能为空且长度合理）
func ValidateCategory(category string) error {
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("category is empty")
	}
	if utf8.RuneCountInString(category) > 64 {
		return fmt.Errorf("category too long, max 64 characters")
	}
	return nil
}

// ValidateTitle 验证标题长度
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is empty")
	}
	if utf8.RuneCountInString(title) > 255 {
		return fmt.Errorf("title too long, max 255 characters")
	}
	return nil
}
