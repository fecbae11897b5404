package csv_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shapestone/shape-dsv/pkg/csv"
)

func TestHeader(t *testing.T) {
	names := []string{"id", "name", "id"}
	h := csv.NewHeader(names)
	names[0] = "changed"

	if h.Len() != 3 {
		t.Errorf("Len() = %d, want 3", h.Len())
	}
	if name, ok := h.Name(1); !ok || name != "name" {
		t.Errorf("Name(1) = %q, %v", name, ok)
	}
	if _, ok := h.Name(3); ok {
		t.Error("Name(3) should be out of range")
	}
	if i, ok := h.Index("id"); !ok || i != 0 {
		t.Errorf("Index(id) = %d, %v, want first column", i, ok)
	}
	if _, ok := h.Index("missing"); ok {
		t.Error("Index(missing) should fail")
	}

	var got []string
	for i, name := range h.All() {
		got = append(got, name)
		if i == 1 {
			break
		}
	}
	if diff := cmp.Diff([]string{"id", "name"}, got); diff != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", diff)
	}
}

func TestRow_Get(t *testing.T) {
	row := csv.NewRow([]string{"1", "Ada"}, csv.NewHeader([]string{"id", "name", "email"}))

	tests := []struct {
		name    string
		column  string
		want    string
		wantErr error
	}{
		{name: "first column", column: "id", want: "1"},
		{name: "second column", column: "name", want: "Ada"},
		{name: "column beyond row", column: "email", wantErr: csv.ErrUnknownColumn},
		{name: "unknown column", column: "phone", wantErr: csv.ErrUnknownColumn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := row.GetByName(tt.column)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("GetByName(%q) error = %v, want %v", tt.column, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("GetByName(%q) = %q, want %q", tt.column, got, tt.want)
			}
		})
	}

	if v, ok := row.Get(1); !ok || v != "Ada" {
		t.Errorf("Get(1) = %q, %v", v, ok)
	}
	if _, ok := row.Get(2); ok {
		t.Error("Get(2) should be out of range")
	}
	if _, ok := row.Get(-1); ok {
		t.Error("Get(-1) should be out of range")
	}
}

func TestRow_NoHeader(t *testing.T) {
	row := csv.NewRow([]string{"a"}, nil)
	if _, err := row.GetByName("a"); !errors.Is(err, csv.ErrNoHeader) {
		t.Errorf("GetByName() error = %v, want ErrNoHeader", err)
	}
	if row.Map() != nil {
		t.Error("Map() without header should be nil")
	}
	if row.Header() != nil {
		t.Error("Header() should be nil")
	}
}

func TestRow_Immutable(t *testing.T) {
	cells := []string{"a", "b"}
	row := csv.NewRow(cells, nil)
	cells[0] = "x"
	got := row.Cells()
	got[1] = "y"

	if diff := cmp.Diff([]string{"a", "b"}, row.Cells()); diff != "" {
		t.Errorf("row changed (-want +got):\n%s", diff)
	}
}

func TestRow_Map(t *testing.T) {
	row := csv.NewRow([]string{"1", "Ada", "extra"}, csv.NewHeader([]string{"id", "name"}))
	want := map[string]string{"id": "1", "name": "Ada"}
	if diff := cmp.Diff(want, row.Map()); diff != "" {
		t.Errorf("Map() mismatch (-want +got):\n%s", diff)
	}
	if row.Len() != 3 {
		t.Errorf("Len() = %d, want 3", row.Len())
	}
}
