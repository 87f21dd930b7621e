package book

import (
	"errors"
	"strings"
	"testing"

	errs "github.com/matzehuels/bookstack/pkg/errors"
)

const validBook = `{
	"id": "a",
	"title": "Zeta",
	"firstName": "Ann",
	"surname": "Lee",
	"size": "thin",
	"color": "#A1b2C3",
	"price": 10.5,
	"description": "d",
	"publishDate": "2020-01-02",
	"genre": "g",
	"isFeatured": false
}`

func TestParseValid(t *testing.T) {
	second := strings.Replace(strings.Replace(validBook, `"a"`, `"b"`, 1), `"thin"`, `"thick"`, 1)
	books, err := Parse([]byte("[" + validBook + "," + second + "]"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("len = %d, want 2", len(books))
	}
	if books[0].ID != "a" || books[1].ID != "b" {
		t.Errorf("order not preserved: %v", IDs(books))
	}
	if books[1].Size != SizeThick {
		t.Errorf("Size = %q, want thick", books[1].Size)
	}
	if books[0].Price.String() != "10.5" {
		t.Errorf("Price = %s, want 10.5", books[0].Price)
	}
	if books[0].Author() != "Ann Lee" {
		t.Errorf("Author = %q", books[0].Author())
	}
}

func TestParseEmptyArray(t *testing.T) {
	books, err := Parse([]byte(" [] "))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(books) != 0 {
		t.Errorf("len = %d, want 0", len(books))
	}
}

func TestParseDerivesID(t *testing.T) {
	noID := strings.Replace(validBook, `"id": "a",`, "", 1)
	first, err := Parse([]byte("[" + noID + "]"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	again, _ := Parse([]byte("[" + noID + "]"))
	if first[0].ID == "" {
		t.Fatal("derived id is empty")
	}
	if first[0].ID != again[0].ID {
		t.Errorf("derived id not stable: %s != %s", first[0].ID, again[0].ID)
	}
	if first[0].ID != DeriveID("Zeta", "Ann", "Lee") {
		t.Errorf("derived id = %s, want DeriveID result", first[0].ID)
	}
}

func TestParseViolations(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"not an array", `{"title": "x"}`, ""},
		{"null", `null`, ""},
		{"element not object", `[1]`, ""},
		{"missing title", "[" + strings.Replace(validBook, `"title": "Zeta",`, "", 1) + "]", "title"},
		{"blank genre", "[" + strings.Replace(validBook, `"genre": "g"`, `"genre": ""`, 1) + "]", "genre"},
		{"bad size", "[" + strings.Replace(validBook, `"thin"`, `"huge"`, 1) + "]", "size"},
		{"bad color", "[" + strings.Replace(validBook, `"#A1b2C3"`, `"red"`, 1) + "]", "color"},
		{"short color", "[" + strings.Replace(validBook, `"#A1b2C3"`, `"#FFF"`, 1) + "]", "color"},
		{"zero price", "[" + strings.Replace(validBook, `10.5`, `0`, 1) + "]", "price"},
		{"negative price", "[" + strings.Replace(validBook, `10.5`, `-3`, 1) + "]", "price"},
		{"string price", "[" + strings.Replace(validBook, `10.5`, `"10.5"`, 1) + "]", "price"},
		{"bad date", "[" + strings.Replace(validBook, `"2020-01-02"`, `"02/01/2020"`, 1) + "]", "publishDate"},
		{"missing featured", "[" + strings.Replace(validBook, `"isFeatured": false`, `"featured": false`, 1) + "]", "isFeatured"},
		{"featured not bool", "[" + strings.Replace(validBook, `"isFeatured": false`, `"isFeatured": "no"`, 1) + "]", "isFeatured"},
		{"title not string", "[" + strings.Replace(validBook, `"Zeta"`, `42`, 1) + "]", "title"},
		{"duplicate id", "[" + validBook + "," + validBook + "]", "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("Parse succeeded, want error")
			}
			if books != nil {
				t.Errorf("books = %v, want nil (all-or-nothing)", books)
			}
			if !errs.Is(err, errs.ErrCodeInvalidBookData) {
				t.Errorf("code = %q, want %q", errs.GetCode(err), errs.ErrCodeInvalidBookData)
			}
			var ve *errs.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error %T is not a ValidationError", err)
			}
			if !hasField(ve.Fields, tt.field) {
				t.Errorf("violations %v do not mention field %q", ve.Fields, tt.field)
			}
		})
	}
}

func TestParseReportsEveryViolation(t *testing.T) {
	bad := `{
		"title": "",
		"firstName": "A",
		"surname": "B",
		"size": "huge",
		"color": "blue",
		"price": -1,
		"description": "d",
		"publishDate": "2020",
		"genre": "g",
		"isFeatured": true
	}`
	_, err := Parse([]byte("[" + validBook + "," + bad + "]"))

	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	want := []string{"color", "price", "publishDate", "size", "title"}
	if len(ve.Fields) != len(want) {
		t.Fatalf("got %d violations %v, want %d", len(ve.Fields), ve.Fields, len(want))
	}
	for i, f := range ve.Fields {
		if f.Index != 1 || f.Field != want[i] {
			t.Errorf("violation %d = %+v, want index 1 field %s", i, f, want[i])
		}
	}
}

func TestImportJSONMissingFile(t *testing.T) {
	_, err := ImportJSON(t.TempDir() + "/missing.json")
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("code = %q, want %q", errs.GetCode(err), errs.ErrCodeFileNotFound)
	}
}

func TestImportJSONExample(t *testing.T) {
	books, err := ImportJSON("../../examples/books.json")
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if len(books) != 5 {
		t.Fatalf("len = %d, want 5", len(books))
	}
	_, featured := Split(books)
	if len(featured) != 1 || featured[0].Title != "Painted Dogs" {
		t.Errorf("featured = %v, want [Painted Dogs]", featured)
	}
}
