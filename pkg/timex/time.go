// Package timex provides a time type with a fixed wire format
// Package timex 提供固定序列化格式的时间类型
package timex

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Layout is the wire format of Time
// Layout 是 Time 的序列化格式
const Layout = "2006-01-02 15:04:05"

// Time wraps time.Time for JSON and database round trips
// Time 包装 time.Time，用于 JSON 与数据库读写
type Time time.Time

// Now returns the current time
// Now 返回当前时间
func Now() Time {
	return Time(time.Now())
}

// Std returns the underlying time.Time
func (t Time) Std() time.Time {
	return time.Time(t)
}

func (t Time) Unix() int64      { return time.Time(t).Unix() }
func (t Time) UnixMilli() int64 { return time.Time(t).UnixMilli() }
func (t Time) UnixMicro() int64 { return time.Time(t).UnixMicro() }
func (t Time) UnixNano() int64  { return time.Time(t).UnixNano() }

// IsZero reports whether t is the zero instant
func (t Time) IsZero() bool {
	return time.Time(t).IsZero()
}

// String formats t with Layout
func (t Time) String() string {
	return time.Time(t).Format(Layout)
}

// MarshalJSON 序列化为 Layout 格式，零值输出空字符串
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON 解析 Layout 格式，兼容 RFC3339
func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*t = Time{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("timex: invalid time %s", s)
	}
	s = s[1 : len(s)-1]
	parsed, err := time.ParseInLocation(Layout, s, time.Local)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return err
		}
	}
	*t = Time(parsed)
	return nil
}

// Value implements driver.Valuer
func (t Time) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return time.Time(t), nil
}

// Scan implements sql.Scanner
func (t *Time) Scan(v any) error {
	switch value := v.(type) {
	case nil:
		*t = Time{}
	case time.Time:
		*t = Time(value)
	case string:
		return t.scanString(value)
	case []byte:
		return t.scanString(string(value))
	default:
		return fmt.Errorf("timex: cannot scan %T", v)
	}
	return nil
}

func (t *Time) scanString(s string) error {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", Layout} {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = Time(parsed)
			return nil
		}
	}
	return fmt.Errorf("timex: cannot parse %q", s)
}
