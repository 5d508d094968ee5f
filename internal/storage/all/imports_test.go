package all

import (
	"reflect"
	"testing"

	"phonotactics/internal/storage"
)

func TestAllKindsRegistered(t *testing.T) {
	want := []string{"cldf", "mssql", "postgres", "s3", "sqlite"}
	if got := storage.ListKinds(); !reflect.DeepEqual(got, want) {
		t.Fatalf("ListKinds() = %v, want %v", got, want)
	}
}
