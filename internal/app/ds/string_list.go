package ds

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList хранит список строк в одной колонке как JSON-массив.
// В отличие от склейки через запятую элементы с любыми символами
// проходят запись/чтение без потерь.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}

	if len(data) == 0 {
		*l = nil
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// Contains проверяет вхождение элемента (точное совпадение)
func (l StringList) Contains(item string) bool {
	for _, s := range l {
		if s == item {
			return true
		}
	}
	return false
}
