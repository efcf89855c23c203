package utils

import (
	"math/big"
	"reflect"
	"strings"
	"testing"
)

func TestChunk_EvenLength(t *testing.T) {
	got := Chunk([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 2)
	want := [][]int{{1, 2}, {3, 4}, {5, 6}, {7, 8}, {9, 10}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Chunk = %v, want %v", got, want)
	}
}

func TestChunk_OddLength(t *testing.T) {
	got := Chunk([]int{1, 2, 3, 4, 5, 6, 7, 8, 9}, 2)
	want := [][]int{{1, 2}, {3, 4}, {5, 6}, {7, 8}, {9}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Chunk = %v, want %v", got, want)
	}
}

func TestChunk_Degenerate(t *testing.T) {
	if got := Chunk([]string{}, 3); len(got) != 0 {
		t.Fatalf("empty input: got %d chunks", len(got))
	}
	in := []string{"a", "b", "c"}
	got := Chunk(in, 500)
	if len(got) != 1 || !reflect.DeepEqual(got[0], in) {
		t.Fatalf("size >= len: got %v", got)
	}
}

func TestChunk_FlattenRestoresInput(t *testing.T) {
	in := make([]int, 1234)
	for i := range in {
		in[i] = i
	}
	for _, size := range []int{1, 7, 500, 1234, 5000} {
		chunks := Chunk(in, size)
		var flat []int
		short := 0
		for i, c := range chunks {
			if len(c) > size {
				t.Fatalf("size=%d chunk %d has %d elements", size, i, len(c))
			}
			if len(c) < size {
				short++
				if i != len(chunks)-1 {
					t.Fatalf("size=%d short chunk at %d is not last", size, i)
				}
			}
			flat = append(flat, c...)
		}
		if short > 1 {
			t.Fatalf("size=%d: %d short chunks", size, short)
		}
		if !reflect.DeepEqual(flat, in) {
			t.Fatalf("size=%d: flatten does not restore input", size)
		}
	}
}

func TestChunk_AppendDoesNotClobberNextChunk(t *testing.T) {
	chunks := Chunk([]int{1, 2, 3, 4}, 2)
	_ = append(chunks[0], 99)
	if chunks[1][0] != 3 {
		t.Fatalf("next chunk overwritten: %v", chunks[1])
	}
}

func TestFormatUnits(t *testing.T) {
	raw, _ := new(big.Int).SetString("b50ae81b7c121a29", 16)
	if got := FormatUnits(raw, 18); got != "13.045494475375385129" {
		t.Fatalf("FormatUnits = %s", got)
	}
	if got := FormatUnits(big.NewInt(18), 18); got != "0.000000000000000018" {
		t.Fatalf("FormatUnits(18) = %s", got)
	}
	if got := FormatUnits(big.NewInt(12345678), 6); got != "12.345678" {
		t.Fatalf("FormatUnits(usdt) = %s", got)
	}
	if got := FormatUnits(big.NewInt(1_000_000), 6); got != "1" {
		t.Fatalf("FormatUnits(whole) = %s", got)
	}
	if got := FormatUnits(big.NewInt(42), 0); got != "42" {
		t.Fatalf("FormatUnits(0 decimals) = %s", got)
	}
}

func TestParseUnits(t *testing.T) {
	got, err := ParseUnits("13.045494475375385129", 18)
	if err != nil {
		t.Fatalf("ParseUnits: %v", err)
	}
	want, _ := new(big.Int).SetString("b50ae81b7c121a29", 16)
	if got.Cmp(want) != 0 {
		t.Fatalf("ParseUnits = %s, want %s", got, want)
	}
	if _, err := ParseUnits("abc", 6); err == nil {
		t.Fatal("expected error for non-numeric amount")
	}
}

func TestShortenAddress(t *testing.T) {
	if got := ShortenAddress("0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984"); got != "0x1f98...F984" {
		t.Fatalf("ShortenAddress = %s", got)
	}
	if got := ShortenAddress("0x1234"); got != "0x1234" {
		t.Fatalf("short input changed: %s", got)
	}
}

func TestEncodeURLParams(t *testing.T) {
	type params struct {
		ChainID int    `url:"chainId,omitempty"`
		Tag     string `url:"tag,omitempty"`
	}
	got, err := EncodeURLParams(params{ChainID: 137})
	if err != nil {
		t.Fatalf("EncodeURLParams: %v", err)
	}
	if got != "chainId=137" {
		t.Fatalf("EncodeURLParams = %q", got)
	}
}

type formatted struct {
	Name    string
	Count   int
	OnDone  func()
	private string
}

func TestFormatObject_Struct(t *testing.T) {
	out, err := FormatObject(&formatted{Name: "UNI", Count: 2, OnDone: func() {}, private: "hidden"})
	if err != nil {
		t.Fatalf("FormatObject: %v", err)
	}
	for _, want := range []string{`"Name": "UNI"`, `"Count": 2`, `"OnDone": "<func>"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %s:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("unexported field leaked:\n%s", out)
	}
}

func TestFormatObject_NonStruct(t *testing.T) {
	out, err := FormatObject([]int{1, 2})
	if err != nil {
		t.Fatalf("FormatObject: %v", err)
	}
	if out != "[\n  1,\n  2\n]" {
		t.Fatalf("out=%q", out)
	}
	if out, err := FormatObject((*formatted)(nil)); err != nil || out != "null" {
		t.Fatalf("nil pointer: out=%q err=%v", out, err)
	}
}
