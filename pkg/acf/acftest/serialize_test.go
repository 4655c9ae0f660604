package acftest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSerialize(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"null", nil, "N;"},
		{"bool", true, "b:1;"},
		{"int", 42, "i:42;"},
		{"string", "text_editor", `s:11:"text_editor";`},
		{"multibyte string", "é", `s:2:"é";`},
		{"list", []string{"a", "bc"}, `a:2:{i:0;s:1:"a";i:1;s:2:"bc";}`},
		{"ids", []int64{7, 9}, `a:2:{i:0;i:7;i:1;i:9;}`},
		{"assoc", Assoc("file", "a.jpg", "width", 150), `a:2:{s:4:"file";s:5:"a.jpg";s:5:"width";i:150;}`},
		{"empty", Array{}, "a:0:{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Serialize(tt.in))
		})
	}
}
