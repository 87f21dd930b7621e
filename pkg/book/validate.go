package book

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	errs "github.com/matzehuels/bookstack/pkg/errors"
)

var (
	colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	// idNamespace seeds derived identifiers for books without an explicit id.
	idNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("bookstack"))
)

// record is the wire shape of one book before validation. Pointer fields
// distinguish "missing" from the zero value.
type record struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	FirstName   string           `json:"firstName"`
	Surname     string           `json:"surname"`
	Size        string           `json:"size"`
	Color       string           `json:"color"`
	Price       *decimal.Decimal `json:"price"`
	Description string           `json:"description"`
	PublishDate string           `json:"publishDate"`
	Genre       string           `json:"genre"`
	IsFeatured  *bool            `json:"isFeatured"`
}

func (r *record) validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.FirstName, validation.Required),
		validation.Field(&r.Surname, validation.Required),
		validation.Field(&r.Size,
			validation.Required,
			validation.In(sizeValues()...).Error("must be one of thin, medium, thick, veryThick, extraThick"),
		),
		validation.Field(&r.Color,
			validation.Required,
			validation.Match(colorPattern).Error("must be a valid hex color"),
		),
		validation.Field(&r.Price, validation.NotNil, validation.By(positive)),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.PublishDate,
			validation.Required,
			validation.Match(datePattern).Error("must be in YYYY-MM-DD format"),
		),
		validation.Field(&r.Genre, validation.Required),
		validation.Field(&r.IsFeatured, validation.NotNil),
	)
}

func (r *record) book() Book {
	b := Book{
		ID:          r.ID,
		Title:       r.Title,
		FirstName:   r.FirstName,
		Surname:     r.Surname,
		Size:        Size(r.Size),
		Color:       r.Color,
		Price:       *r.Price,
		Description: r.Description,
		PublishDate: r.PublishDate,
		Genre:       r.Genre,
		IsFeatured:  *r.IsFeatured,
	}
	if b.ID == "" {
		b.ID = DeriveID(b.Title, b.FirstName, b.Surname)
	}
	return b
}

func sizeValues() []any {
	vals := make([]any, len(Sizes))
	for i, s := range Sizes {
		vals[i] = string(s)
	}
	return vals
}

func positive(value any) error {
	d, ok := value.(*decimal.Decimal)
	if !ok || d == nil {
		return nil
	}
	if !d.IsPositive() {
		return errors.New("must be positive")
	}
	return nil
}

// DeriveID returns the stable identifier used for a book without an explicit id.
func DeriveID(title, firstName, surname string) string {
	return uuid.NewSHA1(idNamespace, []byte(title+"|"+firstName+"|"+surname)).String()
}

// Parse validates data as a JSON array of books.
//
// On success it returns the typed books in input order. On failure it returns
// nil and a [errs.ValidationError] describing every violation found.
func Parse(data []byte) ([]Book, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errs.NewValidationError([]errs.FieldError{{Index: -1, Message: "expected a JSON array of books"}})
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, errs.NewValidationError([]errs.FieldError{{Index: -1, Message: fmt.Sprintf("malformed JSON: %v", err)}})
	}

	var violations []errs.FieldError
	books := make([]Book, 0, len(elems))
	seen := make(map[string]int, len(elems))

	for i, elem := range elems {
		r, fieldErrs := decodeRecord(i, elem)
		violations = append(violations, fieldErrs...)
		if r == nil {
			continue
		}
		if ok := collectRuleErrors(i, r.validate(), fieldErrs, &violations); !ok {
			continue
		}

		b := r.book()
		if first, dup := seen[b.ID]; dup {
			violations = append(violations, errs.FieldError{
				Index: i, Field: "id", Message: fmt.Sprintf("duplicates the id of book %d", first),
			})
			continue
		}
		seen[b.ID] = i
		books = append(books, b)
	}

	if len(violations) > 0 {
		return nil, errs.NewValidationError(violations)
	}
	return books, nil
}

// ReadJSON reads all of r and validates it with [Parse]. ReadJSON does not close r.
func ReadJSON(r io.Reader) ([]Book, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return Parse(data)
}

// ImportJSON reads and validates the book file at path.
func ImportJSON(path string) ([]Book, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "book file %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	books, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return books, nil
}

// decodeRecord decodes one array element field by field so that a type
// mismatch in one field does not hide violations in the others.
func decodeRecord(i int, elem json.RawMessage) (*record, []errs.FieldError) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(elem, &fields); err != nil || fields == nil {
		return nil, []errs.FieldError{{Index: i, Message: "must be an object"}}
	}

	var (
		r   record
		bad []errs.FieldError
	)
	str := func(name string, dst *string) {
		raw, ok := fields[name]
		if !ok || isNull(raw) {
			return
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			bad = append(bad, errs.FieldError{Index: i, Field: name, Message: "must be a string"})
		}
	}

	str("id", &r.ID)
	str("title", &r.Title)
	str("firstName", &r.FirstName)
	str("surname", &r.Surname)
	str("size", &r.Size)
	str("color", &r.Color)
	str("description", &r.Description)
	str("publishDate", &r.PublishDate)
	str("genre", &r.Genre)

	if raw, ok := fields["price"]; ok && !isNull(raw) {
		if d, err := parseNumber(raw); err != nil {
			bad = append(bad, errs.FieldError{Index: i, Field: "price", Message: "must be a number"})
		} else {
			r.Price = &d
		}
	}
	if raw, ok := fields["isFeatured"]; ok && !isNull(raw) {
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			bad = append(bad, errs.FieldError{Index: i, Field: "isFeatured", Message: "must be a boolean"})
		} else {
			r.IsFeatured = &v
		}
	}
	if _, ok := fields["id"]; ok && r.ID == "" && !hasField(bad, "id") {
		bad = append(bad, errs.FieldError{Index: i, Field: "id", Message: "cannot be blank"})
	}
	return &r, bad
}

// collectRuleErrors appends schema rule violations for fields that decoded
// cleanly. It reports whether the record is free of violations.
func collectRuleErrors(i int, err error, decodeErrs []errs.FieldError, out *[]errs.FieldError) bool {
	if err == nil {
		return len(decodeErrs) == 0
	}
	var ve validation.Errors
	if !errors.As(err, &ve) {
		*out = append(*out, errs.FieldError{Index: i, Message: err.Error()})
		return false
	}
	for field, fe := range ve {
		if hasField(decodeErrs, field) {
			continue
		}
		*out = append(*out, errs.FieldError{Index: i, Field: field, Message: fe.Error()})
	}
	return false
}

func parseNumber(raw json.RawMessage) (decimal.Decimal, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || (s[0] != '-' && (s[0] < '0' || s[0] > '9')) {
		return decimal.Decimal{}, fmt.Errorf("not a number: %s", s)
	}
	return decimal.NewFromString(s)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func hasField(list []errs.FieldError, field string) bool {
	for _, f := range list {
		if f.Field == field {
			return true
		}
	}
	return false
}
