package orders

import (
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Order is one restaurant order as shown in the console.
type Order struct {
	ID        string
	Customer  string
	Status    string
	Items     int
	Total     float64
	CreatedAt time.Time
}

// Decode reads the orders out of the backend data, which is either a list or
// an object with an "orders" list. Ids and amounts may be numbers or strings.
func Decode(data any) []Order {
	var list []any

	switch v := data.(type) {
	case []any:
		list = v
	case map[string]any:
		list = cast.ToSlice(v["orders"])
	}

	out := make([]Order, 0, len(list))

	for _, raw := range list {
		m := cast.ToStringMap(raw)
		if len(m) == 0 {
			continue
		}

		o := Order{
			ID:        cast.ToString(first(m, "id", "_id", "orderId")),
			Customer:  customer(m),
			Status:    strings.ToLower(cast.ToString(m["status"])),
			Total:     cast.ToFloat64(first(m, "total", "totalAmount", "amount")),
			CreatedAt: cast.ToTime(first(m, "createdAt", "created_at")),
		}

		switch items := m["items"].(type) {
		case []any:
			o.Items = len(items)
		default:
			o.Items = cast.ToInt(items)
		}

		out = append(out, o)
	}

	return out
}

func customer(m map[string]any) string {
	switch c := m["customer"].(type) {
	case map[string]any:
		return cast.ToString(first(c, "name", "email"))
	case string:
		return c
	}

	return cast.ToString(m["customerName"])
}

func first(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}

	return nil
}
