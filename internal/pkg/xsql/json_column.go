package xsql

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JsonColumn 以 JSON 形式落库的泛型字段
//
// Valid 为 false 时落库 NULL，扫描到 NULL 时保持零值。
type JsonColumn[T any] struct {
	Val   T
	Valid bool
}

func (j JsonColumn[T]) Value() (driver.Value, error) {
	if !j.Valid {
		return nil, nil
	}
	jsonBytes, err := json.Marshal(j.Val)
	if err != nil {
		return nil, err
	}
	return string(jsonBytes), nil
}

func (j *JsonColumn[T]) Scan(src any) error {
	if src == nil {
		return nil
	}

	var jsonBytes []byte
	switch val := src.(type) {
	case []byte:
		jsonBytes = val
	case string:
		jsonBytes = []byte(val)
	default:
		return fmt.Errorf("[hookify] unsupported json column type %T", src)
	}

	if len(jsonBytes) == 0 {
		return nil
	}

	if err := json.Unmarshal(jsonBytes, &j.Val); err != nil {
		return err
	}
	j.Valid = true
	return nil
}
