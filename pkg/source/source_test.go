package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/matzehuels/bookstack/pkg/book"
	errs "github.com/matzehuels/bookstack/pkg/errors"
)

const oneBook = `[{"title":"T","firstName":"F","surname":"S","size":"thin","color":"#112233","price":3,"description":"d","publishDate":"2020-01-01","genre":"g","isFeatured":false}]`

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	if err := os.WriteFile(path, []byte(oneBook), 0o644); err != nil {
		t.Fatal(err)
	}
	books, err := Load(context.Background(), File{Path: path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(books) != 1 || books[0].Title != "T" {
		t.Errorf("books = %+v", books)
	}

	_, err = Load(context.Background(), File{Path: path + ".missing"})
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("missing file code = %q", errs.GetCode(err))
	}
}

func TestHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/books.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(oneBook))
		case "/bad.json":
			_, _ = w.Write([]byte(`{"not": "an array"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tests := []struct {
		name string
		path string
		code errs.Code
	}{
		{"ok", "/books.json", ""},
		{"not found", "/missing.json", errs.ErrCodeNetwork},
		{"invalid shape", "/bad.json", errs.ErrCodeInvalidBookData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, err := Load(context.Background(), NewHTTP(srv.URL+tt.path, srv.Client()))
			if tt.code == "" {
				if err != nil || len(books) != 1 {
					t.Fatalf("Load = %v, %v", books, err)
				}
				return
			}
			if !errs.Is(err, tt.code) {
				t.Errorf("code = %q, want %q (err %v)", errs.GetCode(err), tt.code, err)
			}
			if books != nil {
				t.Errorf("books = %v, want none", books)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantName string
		wantErr  bool
	}{
		{"file", Options{Path: "books.json"}, "file:books.json", false},
		{"url in path", Options{Path: "https://example.com/b.json"}, "https://example.com/b.json", false},
		{"url", Options{URL: "http://example.com/b.json"}, "http://example.com/b.json", false},
		{"bad url", Options{URL: "ftp://example.com"}, "", true},
		{"mongo", Options{Mongo: MongoOptions{URI: "mongodb://localhost"}}, "mongo:bookstack.books", false},
		{"nothing", Options{}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Resolve(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && src.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", src.Name(), tt.wantName)
			}
		})
	}
}

func TestDocumentsJSON(t *testing.T) {
	price, _ := primitive.ParseDecimal128("12.50")
	docs := []bson.M{{
		"_id":         primitive.NewObjectID(),
		"id":          "b1",
		"title":       "T",
		"firstName":   "F",
		"surname":     "S",
		"size":        "medium",
		"color":       "#abcdef",
		"price":       price,
		"description": "d",
		"publishDate": "2021-02-03",
		"genre":       "g",
		"isFeatured":  true,
	}}

	data, err := documentsJSON(docs)
	if err != nil {
		t.Fatalf("documentsJSON: %v", err)
	}
	books, err := book.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if books[0].ID != "b1" || books[0].Price.String() != "12.5" || !books[0].IsFeatured {
		t.Errorf("book = %+v", books[0])
	}
}
