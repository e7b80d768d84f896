package localdb

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"inventory-sync/internal/domain/model"

	"github.com/shopspring/decimal"
)

// row holds one result row keyed by lower-cased column name, so "Sku",
// "SKU" and "sku" resolve to the same field.
type row map[string]value

// value is the tagged variant of a driver value.
type value struct {
	kind valueKind
	s    string
	i    int64
	f    float64
}

type valueKind int

const (
	kindNull valueKind = iota
	kindString
	kindInt
	kindFloat
)

func newValue(v any) value {
	switch t := v.(type) {
	case nil:
		return value{kind: kindNull}
	case int64:
		return value{kind: kindInt, i: t}
	case int32:
		return value{kind: kindInt, i: int64(t)}
	case int:
		return value{kind: kindInt, i: int64(t)}
	case float64:
		return value{kind: kindFloat, f: t}
	case float32:
		return value{kind: kindFloat, f: float64(t)}
	case bool:
		if t {
			return value{kind: kindInt, i: 1}
		}
		return value{kind: kindInt, i: 0}
	case []byte:
		return value{kind: kindString, s: string(t)}
	case string:
		return value{kind: kindString, s: t}
	case time.Time:
		return value{kind: kindString, s: t.Format(time.RFC3339)}
	default:
		return value{kind: kindString, s: fmt.Sprint(t)}
	}
}

func (v value) String() string {
	switch v.kind {
	case kindString:
		return strings.TrimSpace(v.s)
	case kindInt:
		return strconv.FormatInt(v.i, 10)
	case kindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	}
	return ""
}

func (v value) Decimal() decimal.Decimal {
	switch v.kind {
	case kindInt:
		return decimal.NewFromInt(v.i)
	case kindFloat:
		return decimal.NewFromFloat(v.f)
	case kindString:
		d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(v.s), ",", "."))
		if err == nil {
			return d
		}
	}
	return decimal.Zero
}

func (v value) Int() int {
	switch v.kind {
	case kindInt:
		return int(v.i)
	case kindFloat:
		return int(v.f)
	case kindString:
		return int(v.Decimal().IntPart())
	}
	return 0
}

func (v value) Bool() bool {
	switch v.kind {
	case kindInt:
		return v.i != 0
	case kindFloat:
		return v.f != 0
	case kindString:
		switch strings.ToLower(strings.TrimSpace(v.s)) {
		case "1", "t", "true", "s", "si", "y", "yes":
			return true
		}
	}
	return false
}

func (r row) get(keys ...string) (value, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v.kind != kindNull {
			return v, true
		}
	}
	return value{}, false
}

func (r row) str(keys ...string) string {
	v, _ := r.get(keys...)
	return v.String()
}

func (r row) product() model.CanonicalProduct {
	p := model.CanonicalProduct{
		Sku:    r.str("sku", "codigo"),
		Name:   r.str("name", "nombre", "descripcion"),
		Status: model.StatusPublished,
	}
	if v, ok := r.get("finalprice", "precio", "price"); ok {
		p.Price = v.Decimal()
	}
	if v, ok := r.get("stock"); ok {
		p.Stock = max(v.Int(), 0)
	}
	p.ImageURL = r.str("image", "imagen", "image_url")
	p.ImageName = model.ImageNameFromURL(p.ImageURL)
	if name := r.str("imagename"); name != "" {
		p.ImageName = name
	}
	p.CategoryPath = model.SplitCategoryPath(r.str("familysirett", "categoria", "category", "familia"))
	if v, ok := r.get("idfamwp"); ok {
		p.RemoteCategoryID = int64(v.Int())
	}
	if v, ok := r.get("hidden", "oculto", "syncflag", "privacidad"); ok && v.Bool() {
		p.Status = model.StatusHidden
	}
	return p
}

func scanRows(rows *sql.Rows, fn func(row)) error {
	columns, err := rows.Columns()
	if err != nil {
		return err
	}
	keys := make([]string, len(columns))
	for i, c := range columns {
		keys[i] = strings.ToLower(strings.TrimSpace(c))
	}

	for rows.Next() {
		raw := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}
		r := make(row, len(columns))
		for i, k := range keys {
			r[k] = newValue(raw[i])
		}
		fn(r)
	}
	return rows.Err()
}
