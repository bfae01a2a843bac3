package catalog

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidInput = errors.New("invalid input")

// ValidationError lists every draft field that failed. It matches
// ErrInvalidInput under errors.Is.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return ErrInvalidInput.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// DraftPrice is the raw price as typed by the editor. JSON numbers and
// strings are both accepted.
type DraftPrice string

func (p *DraftPrice) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = DraftPrice(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*p = DraftPrice(n.String())
	return nil
}

func PriceOf(v float64) DraftPrice {
	return DraftPrice(strconv.FormatFloat(v, 'f', -1, 64))
}

type Draft struct {
	Name  string     `json:"name"`
	Price DraftPrice `json:"price"`
}

type normalized struct {
	Name  string  `json:"name" validate:"required"`
	Price float64 `json:"price" validate:"gt=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Normalize trims the name and coerces the price. It returns a
// *ValidationError when the name is blank or the price is missing,
// non-numeric, non-finite or not greater than zero.
func (d Draft) Normalize() (name string, price float64, err error) {
	n := normalized{
		Name:  strings.TrimSpace(d.Name),
		Price: parsePrice(strings.TrimSpace(string(d.Price))),
	}

	if err := validate.Struct(n); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return "", 0, err
		}
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return "", 0, &ValidationError{Fields: fields}
	}

	return n.Name, n.Price, nil
}

// parsePrice maps anything that is not a finite number to NaN so the gt=0
// rule rejects it.
func parsePrice(raw string) float64 {
	if raw == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}
